package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	input := `
x: [1, 2]
y:
  a: test
  b: 3.5
z:
  - !complex 3j
w: [true, "1", -0.5]
`
	got, err := ParseYAML([]byte(input))
	require.NoError(t, err)

	want := MakeObject(map[string]Value{
		"x": MakeTuple(MakeInt(1), MakeInt(2)),
		"y": MakeObject(map[string]Value{
			"a": MakeString("test"),
			"b": MakeFloat(3.5),
		}),
		"z": MakeTuple(MakeComplex(3i)),
		"w": MakeTuple(MakeBool(true), MakeString("1"), MakeFloat(-0.5)),
	})
	assert.True(t, AreEqual(want, got), "got %s", got)
}

func TestParseYAMLAnchors(t *testing.T) {
	got, err := ParseYAML([]byte("a: &row [1, 2]\nb: *row\n"))
	require.NoError(t, err)
	assert.Equal(t, "{'a': [1, 2], 'b': [1, 2]}", got.String())
}

func TestParseYAMLErrors(t *testing.T) {
	for _, input := range []string{
		"a: 1\na: 2\n",
		"[1, ~]",
		"a: !complex nope",
		"a: !custom 1",
		"[1, 2",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseYAML([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParseComplex(t *testing.T) {
	tests := []struct {
		input string
		want  complex128
	}{
		{input: "3j", want: 3i},
		{input: "1+2j", want: 1 + 2i},
		{input: " 1-2i ", want: 1 - 2i},
		{input: "2", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseComplex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseComplex("1+2k")
	assert.Error(t, err)
}
