package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

// TableFormatter flattens all leading dimensions into rows, labelled with
// their index path. A struct under the dimensions gets a column per field,
// anything else a single value column.
type TableFormatter struct {
	table  *tablewriter.Table
	dims   int
	fields []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(24)
	table.SetRowLine(false)
	table.SetAutoFormatHeaders(false)

	return &TableFormatter{
		table: table,
	}
}

func (t *TableFormatter) SetColWidth(width int) {
	t.table.SetColWidth(width)
}

func (t *TableFormatter) SetRowLine(rowLine bool) {
	t.table.SetRowLine(rowLine)
}

func (t *TableFormatter) SetSchema(typ dtype.Type) {
	t.dims = 0
	for typ.IsDim() {
		t.dims++
		typ = typ.Element()
	}
	t.fields = nil
	if typ.TypeID == dtype.TypeIDStruct {
		t.fields = typ.FieldNames()
	}

	var header []string
	if t.dims > 0 {
		header = append(header, "index")
	}
	if t.fields != nil {
		header = append(header, t.fields...)
	} else {
		header = append(header, "value")
	}
	t.table.SetHeader(header)
}

func (t *TableFormatter) Write(value literal.Value) error {
	return t.write(nil, 0, value)
}

func (t *TableFormatter) write(index []string, depth int, value literal.Value) error {
	if depth < t.dims {
		seq, ok := value.(literal.Tuple)
		if !ok {
			return fmt.Errorf("expected sequence at index [%s], got %s", strings.Join(index, ", "), literal.TypeName(value))
		}
		for i := range seq {
			if err := t.write(append(index, fmt.Sprint(i)), depth+1, seq[i]); err != nil {
				return err
			}
		}
		return nil
	}

	var row []string
	if t.dims > 0 {
		row = append(row, fmt.Sprintf("[%s]", strings.Join(index, ", ")))
	}
	if t.fields != nil {
		obj, ok := value.(literal.Object)
		if !ok {
			return fmt.Errorf("expected mapping, got %s", literal.TypeName(value))
		}
		for _, field := range t.fields {
			if v, ok := obj[field]; ok {
				row = append(row, v.String())
			} else {
				row = append(row, "")
			}
		}
	} else {
		row = append(row, value.String())
	}
	t.table.Append(row)
	return nil
}

func (t *TableFormatter) Close() error {
	t.table.Render()
	return nil
}
