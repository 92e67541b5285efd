package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	leaf := NewNode("int32")
	leaf.AddField("size", "4")

	text := NewNode("FixedString")
	text.AddField("pad", `"A"`)

	root := NewNode("Struct")
	root.AddField("size", "8")
	root.AddChild("count @0", leaf)
	root.AddChild("size @4", text)

	g, err := Show(root)
	require.NoError(t, err)

	assert.True(t, g.Directed)
	assert.Len(t, g.Nodes.Nodes, 3)
	assert.Len(t, g.Edges.Edges, 2)

	out := g.String()
	assert.Contains(t, out, "rankdir=LR")
	assert.Contains(t, out, `Struct_0->int32_0`)
	assert.Contains(t, out, `label="count @0"`)
	assert.Contains(t, out, `pad: \"A\"`)
}

func TestShowRepeatedNames(t *testing.T) {
	root := NewNode("Struct")
	for _, name := range []string{"a", "b", "c"} {
		root.AddChild(name, NewNode("int8"))
	}

	g, err := Show(root)
	require.NoError(t, err)

	out := g.String()
	for _, id := range []string{"int8_0", "int8_1", "int8_2"} {
		assert.True(t, strings.Contains(out, "Struct_0->"+id), "missing edge to %s", id)
	}
}

func TestEscapeRecord(t *testing.T) {
	assert.Equal(t, `\{a: int8\}`, escapeRecord("{a: int8}"))
	assert.Equal(t, `x \| y`, escapeRecord("x | y"))
}
