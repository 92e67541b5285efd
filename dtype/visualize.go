package dtype

import (
	"fmt"
	"strconv"

	"github.com/cube2222/ndarray/graph"
)

func (t Type) Visualize() *graph.Node {
	n := graph.NewNode(t.nodeName())
	n.AddField("kind", t.Kind())
	n.AddField("size", strconv.Itoa(t.Size()))
	n.AddField("align", strconv.Itoa(t.Alignment()))

	switch t.TypeID {
	case TypeIDFixedString:
		n.AddField("width", strconv.Itoa(t.FixedString.Width))
		n.AddField("pad", strconv.Quote(string(t.FixedString.Pad)))
	case TypeIDFixedDim:
		n.AddField("extent", strconv.Itoa(t.FixedDim.Extent))
		n.AddChild("element", t.FixedDim.Element.Visualize())
	case TypeIDVarDim:
		n.AddChild("element", t.VarDim.Element.Visualize())
	case TypeIDStruct:
		for i, field := range t.Struct.Fields {
			n.AddChild(fmt.Sprintf("%s @%d", field.Name, t.FieldOffset(i)), field.Type.Visualize())
		}
	}
	return n
}

func (t Type) nodeName() string {
	switch t.TypeID {
	case TypeIDFixedDim:
		return "FixedDim"
	case TypeIDVarDim:
		return "VarDim"
	case TypeIDStruct:
		return "Struct"
	case TypeIDFixedString:
		return "FixedString"
	}
	return t.String()
}
