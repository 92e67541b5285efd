package formats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kr/text"
	"github.com/olekukonko/tablewriter"

	"github.com/cube2222/ndarray/dtype"
)

// WriteLayout prints a table with a row per cell type reachable from t.
// Elements of dimensions are listed once, under path[]. Offsets are relative
// to the enclosing buffer, which for var dimension elements is the row.
func WriteLayout(w io.Writer, t dtype.Type) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"path", "type", "kind", "offset", "size", "align"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	table.AppendBulk(layoutRows("", 0, t))
	table.Render()
}

func layoutRows(path string, offset int, t dtype.Type) [][]string {
	name := path
	if name == "" {
		name = "."
	}
	rows := [][]string{{
		name,
		t.String(),
		t.Kind(),
		strconv.Itoa(offset),
		strconv.Itoa(t.Size()),
		strconv.Itoa(t.Alignment()),
	}}

	switch t.TypeID {
	case dtype.TypeIDFixedDim:
		rows = append(rows, layoutRows(path+"[]", offset, t.Element())...)
	case dtype.TypeIDVarDim:
		rows = append(rows, layoutRows(path+"[]", 0, t.Element())...)
	case dtype.TypeIDStruct:
		for i, field := range t.Struct.Fields {
			fieldPath := field.Name
			if path != "" {
				fieldPath = path + "." + field.Name
			}
			rows = append(rows, layoutRows(fieldPath, offset+t.FieldOffset(i), field.Type)...)
		}
	}
	return rows
}

// WriteTree prints t as an indented tree.
func WriteTree(w io.Writer, t dtype.Type) error {
	_, err := io.WriteString(w, treeString("", t))
	return err
}

func treeString(label string, t dtype.Type) string {
	var self string
	switch t.TypeID {
	case dtype.TypeIDFixedDim:
		self = fmt.Sprintf("%d,", t.FixedDim.Extent)
	case dtype.TypeIDVarDim:
		self = "Var,"
	case dtype.TypeIDStruct:
		self = "struct"
	default:
		self = t.String()
	}
	line := fmt.Sprintf("%s%s (size %d, align %d)\n", label, self, t.Size(), t.Alignment())

	var children strings.Builder
	switch t.TypeID {
	case dtype.TypeIDFixedDim, dtype.TypeIDVarDim:
		children.WriteString(treeString("", t.Element()))
	case dtype.TypeIDStruct:
		for i, field := range t.Struct.Fields {
			children.WriteString(treeString(fmt.Sprintf("%s @%d: ", field.Name, t.FieldOffset(i)), field.Type))
		}
	}
	return line + text.Indent(children.String(), "  ")
}
