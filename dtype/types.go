package dtype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type TypeID int

const (
	TypeIDBool TypeID = iota
	TypeIDInt8
	TypeIDInt16
	TypeIDInt32
	TypeIDInt64
	TypeIDUint8
	TypeIDUint16
	TypeIDUint32
	TypeIDUint64
	TypeIDFloat32
	TypeIDFloat64
	TypeIDComplex64
	TypeIDComplex128
	TypeIDFixedString
	TypeIDString
	TypeIDFixedDim
	TypeIDVarDim
	TypeIDStruct
)

// Type describes the layout and interpretation of a buffer cell.
//
// Types are immutable once constructed. Element pointers and field slices are
// shared between all copies of a Type and must never be modified. Composite
// types should be created using the New* constructors, which precompute the
// layout.
type Type struct {
	TypeID      TypeID
	FixedString struct {
		Width int
		Pad   rune
	}
	FixedDim struct {
		Extent  int
		Element *Type
	}
	VarDim struct {
		Element *Type
	}
	Struct struct {
		Fields []StructField
	}

	layout *layout
}

type StructField struct {
	Name string
	Type Type
}

var (
	Bool       Type = Type{TypeID: TypeIDBool}
	Int8       Type = Type{TypeID: TypeIDInt8}
	Int16      Type = Type{TypeID: TypeIDInt16}
	Int32      Type = Type{TypeID: TypeIDInt32}
	Int64      Type = Type{TypeID: TypeIDInt64}
	Uint8      Type = Type{TypeID: TypeIDUint8}
	Uint16     Type = Type{TypeID: TypeIDUint16}
	Uint32     Type = Type{TypeID: TypeIDUint32}
	Uint64     Type = Type{TypeID: TypeIDUint64}
	Float32    Type = Type{TypeID: TypeIDFloat32}
	Float64    Type = Type{TypeID: TypeIDFloat64}
	Complex64  Type = Type{TypeID: TypeIDComplex64}
	Complex128 Type = Type{TypeID: TypeIDComplex128}
	String     Type = Type{TypeID: TypeIDString}
)

var primitiveNames = map[string]Type{
	"bool":       Bool,
	"int8":       Int8,
	"int16":      Int16,
	"int32":      Int32,
	"int64":      Int64,
	"uint8":      Uint8,
	"uint16":     Uint16,
	"uint32":     Uint32,
	"uint64":     Uint64,
	"float32":    Float32,
	"float64":    Float64,
	"complex64":  Complex64,
	"complex128": Complex128,
	"cfloat32":   Complex64,
	"cfloat64":   Complex128,
}

func NewFixedString(width int, pad rune) (Type, error) {
	if width < 0 {
		return Type{}, errors.Errorf("fixed string width must be non-negative, got %d", width)
	}
	if width > MaxSize/CodePointSize {
		return Type{}, errors.Errorf("fixed string width %d exceeds the maximum cell size of %d bytes", width, MaxSize)
	}
	t := Type{TypeID: TypeIDFixedString}
	t.FixedString.Width = width
	t.FixedString.Pad = pad
	return t, nil
}

func NewFixedDim(extent int, element Type) (Type, error) {
	if extent < 0 {
		return Type{}, errors.Errorf("dimension extent must be non-negative, got %d", extent)
	}
	if extent > MaxSize {
		return Type{}, errors.Errorf("dimension extent %d exceeds the maximum of %d", extent, MaxSize)
	}
	if size := element.Size(); size > 0 && extent > MaxSize/size {
		return Type{}, errors.Errorf("dimension of %d elements of %d bytes exceeds the maximum cell size of %d bytes", extent, size, MaxSize)
	}
	t := Type{TypeID: TypeIDFixedDim}
	t.FixedDim.Extent = extent
	t.FixedDim.Element = &element
	t.layout = computeLayout(t)
	return t, nil
}

func NewVarDim(element Type) Type {
	t := Type{TypeID: TypeIDVarDim}
	t.VarDim.Element = &element
	t.layout = computeLayout(t)
	return t
}

func NewStruct(fields ...StructField) (Type, error) {
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			return Type{}, errors.New("struct field name can't be empty")
		}
		if seen[field.Name] {
			return Type{}, errors.Errorf("duplicate struct field name '%s'", field.Name)
		}
		seen[field.Name] = true
	}
	t := Type{TypeID: TypeIDStruct}
	t.Struct.Fields = append([]StructField(nil), fields...)
	t.layout = computeLayout(t)
	if t.layout.size > MaxSize {
		return Type{}, errors.Errorf("struct size of %d bytes exceeds the maximum cell size of %d bytes", t.layout.size, MaxSize)
	}
	return t, nil
}

// MustNew panics if err is non-nil. Meant for package-level type definitions.
func MustNew(t Type, err error) Type {
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the name of the kind family the type belongs to.
func (t Type) Kind() string {
	switch t.TypeID {
	case TypeIDBool:
		return "bool"
	case TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64:
		return "int"
	case TypeIDUint8, TypeIDUint16, TypeIDUint32, TypeIDUint64:
		return "uint"
	case TypeIDFloat32, TypeIDFloat64:
		return "real"
	case TypeIDComplex64, TypeIDComplex128:
		return "complex"
	case TypeIDFixedString, TypeIDString:
		return "string"
	case TypeIDFixedDim, TypeIDVarDim:
		return "dim"
	case TypeIDStruct:
		return "struct"
	}
	panic("impossible, type switch bug")
}

func (t Type) IsDim() bool {
	return t.TypeID == TypeIDFixedDim || t.TypeID == TypeIDVarDim
}

// IsLeaf is true for types which hold a single scalar or text value.
func (t Type) IsLeaf() bool {
	return !t.IsDim() && t.TypeID != TypeIDStruct
}

// Element returns the element type of a dimension.
func (t Type) Element() Type {
	switch t.TypeID {
	case TypeIDFixedDim:
		return *t.FixedDim.Element
	case TypeIDVarDim:
		return *t.VarDim.Element
	}
	panic(fmt.Sprintf("type %s has no element type", t))
}

// Inner strips all leading dimensions.
func (t Type) Inner() Type {
	for t.IsDim() {
		t = t.Element()
	}
	return t
}

// FieldIndex returns the index of the named struct field, or -1.
func (t Type) FieldIndex(name string) int {
	if t.TypeID != TypeIDStruct {
		return -1
	}
	for i := range t.Struct.Fields {
		if t.Struct.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (t Type) FieldNames() []string {
	names := make([]string, len(t.Struct.Fields))
	for i := range t.Struct.Fields {
		names[i] = t.Struct.Fields[i].Name
	}
	return names
}

// Equal checks structural equality.
func (t Type) Equal(other Type) bool {
	if t.TypeID != other.TypeID {
		return false
	}
	switch t.TypeID {
	case TypeIDFixedString:
		return t.FixedString.Width == other.FixedString.Width && t.FixedString.Pad == other.FixedString.Pad
	case TypeIDFixedDim:
		return t.FixedDim.Extent == other.FixedDim.Extent && t.FixedDim.Element.Equal(*other.FixedDim.Element)
	case TypeIDVarDim:
		return t.VarDim.Element.Equal(*other.VarDim.Element)
	case TypeIDStruct:
		if len(t.Struct.Fields) != len(other.Struct.Fields) {
			return false
		}
		for i := range t.Struct.Fields {
			if t.Struct.Fields[i].Name != other.Struct.Fields[i].Name {
				return false
			}
			if !t.Struct.Fields[i].Type.Equal(other.Struct.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return true
}

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDBool:
		return "bool"
	case TypeIDInt8:
		return "int8"
	case TypeIDInt16:
		return "int16"
	case TypeIDInt32:
		return "int32"
	case TypeIDInt64:
		return "int64"
	case TypeIDUint8:
		return "uint8"
	case TypeIDUint16:
		return "uint16"
	case TypeIDUint32:
		return "uint32"
	case TypeIDUint64:
		return "uint64"
	case TypeIDFloat32:
		return "float32"
	case TypeIDFloat64:
		return "float64"
	case TypeIDComplex64:
		return "complex64"
	case TypeIDComplex128:
		return "complex128"
	case TypeIDFixedString:
		return fmt.Sprintf("string(%d, %s)", t.FixedString.Width, strconv.Quote(string(t.FixedString.Pad)))
	case TypeIDString:
		return "string"
	case TypeIDFixedDim:
		return fmt.Sprintf("%d, %s", t.FixedDim.Extent, *t.FixedDim.Element)
	case TypeIDVarDim:
		return fmt.Sprintf("Var, %s", *t.VarDim.Element)
	case TypeIDStruct:
		fieldStrings := make([]string, len(t.Struct.Fields))
		for i, field := range t.Struct.Fields {
			fieldStrings[i] = fmt.Sprintf("%s: %s", field.Name, field.Type)
		}

		return fmt.Sprintf("{%s}", strings.Join(fieldStrings, "; "))
	}
	panic("impossible, type switch bug")
}
