package dtype

// Fixed strings are stored as UTF-32 code points.
const CodePointSize = 4

// Var dims and variable-length strings are stored out of line, the cell itself
// holds a block reference and a length, both uint64.
const IndirectCellSize = 16

// MaxSize caps the byte size of any single cell, so that layouts never
// overflow and an array always fits in one allocation.
const MaxSize = 1<<31 - 1

type layout struct {
	size      int
	alignment int
	offsets   []int
}

// Size is the number of bytes a single cell of this type occupies in its
// enclosing buffer.
func (t Type) Size() int {
	return t.getLayout().size
}

func (t Type) Alignment() int {
	return t.getLayout().alignment
}

// FieldOffset returns the byte offset of the i-th field inside a struct cell.
func (t Type) FieldOffset(i int) int {
	return t.getLayout().offsets[i]
}

func (t Type) getLayout() *layout {
	if t.layout != nil {
		return t.layout
	}
	return computeLayout(t)
}

func computeLayout(t Type) *layout {
	switch t.TypeID {
	case TypeIDBool, TypeIDInt8, TypeIDUint8:
		return &layout{size: 1, alignment: 1}
	case TypeIDInt16, TypeIDUint16:
		return &layout{size: 2, alignment: 2}
	case TypeIDInt32, TypeIDUint32, TypeIDFloat32:
		return &layout{size: 4, alignment: 4}
	case TypeIDInt64, TypeIDUint64, TypeIDFloat64:
		return &layout{size: 8, alignment: 8}
	case TypeIDComplex64:
		return &layout{size: 8, alignment: 4}
	case TypeIDComplex128:
		return &layout{size: 16, alignment: 8}
	case TypeIDFixedString:
		return &layout{size: t.FixedString.Width * CodePointSize, alignment: CodePointSize}
	case TypeIDString, TypeIDVarDim:
		return &layout{size: IndirectCellSize, alignment: 8}
	case TypeIDFixedDim:
		element := t.FixedDim.Element.getLayout()
		return &layout{size: t.FixedDim.Extent * element.size, alignment: element.alignment}
	case TypeIDStruct:
		out := &layout{alignment: 1, offsets: make([]int, len(t.Struct.Fields))}
		offset := 0
		for i := range t.Struct.Fields {
			field := t.Struct.Fields[i].Type.getLayout()
			offset = alignUp(offset, field.alignment)
			out.offsets[i] = offset
			offset += field.size
			if field.alignment > out.alignment {
				out.alignment = field.alignment
			}
		}
		out.size = alignUp(offset, out.alignment)
		return out
	}
	panic("impossible, type switch bug")
}

func alignUp(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	return (offset + alignment - 1) / alignment * alignment
}
