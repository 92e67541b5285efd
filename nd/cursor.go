package nd

import (
	"github.com/cube2222/ndarray/dtype"
)

// cursor addresses a single cell.
//
// phys is the type actually stored at loc. A field projection selected above
// some dimensions can't be applied until the struct below them is reached, so
// it's kept in path and applied by normalize. logical is the type as seen
// through that projection.
type cursor struct {
	storage *Storage
	loc     location
	phys    dtype.Type
	logical dtype.Type
	path    []int
}

func newCursor(storage *Storage, loc location, phys, logical dtype.Type, path []int) cursor {
	c := cursor{
		storage: storage,
		loc:     loc,
		phys:    phys,
		logical: logical,
		path:    path,
	}
	c.normalize()
	return c
}

func (c *cursor) normalize() {
	for c.phys.TypeID == dtype.TypeIDStruct && len(c.path) > 0 {
		c.loc = c.loc.add(c.phys.FieldOffset(c.path[0]))
		c.phys = c.phys.Struct.Fields[c.path[0]].Type
		c.path = c.path[1:]
	}
}

// dimLen is the current extent of the dimension at the cursor.
func (c cursor) dimLen() int {
	switch c.phys.TypeID {
	case dtype.TypeIDFixedDim:
		return c.phys.FixedDim.Extent
	case dtype.TypeIDVarDim:
		_, length := c.storage.readIndirect(c.loc)
		return length
	}
	panic("dimension length of non-dimension type")
}

func (c cursor) element(i int) cursor {
	element := c.phys.Element()
	var loc location
	switch c.phys.TypeID {
	case dtype.TypeIDFixedDim:
		loc = c.loc.add(i * element.Size())
	case dtype.TypeIDVarDim:
		block, _ := c.storage.readIndirect(c.loc)
		loc = location{block: block, offset: i * element.Size()}
	}
	return newCursor(c.storage, loc, element, c.logical.Element(), c.path)
}

func (c cursor) field(i int) cursor {
	field := c.phys.Struct.Fields[i]
	return newCursor(c.storage, c.loc.add(c.phys.FieldOffset(i)), field.Type, c.logical.Struct.Fields[i].Type, nil)
}

// project selects a struct field below all the dimensions of the cursor.
func (c cursor) project(field int) cursor {
	path := make([]int, len(c.path)+1)
	copy(path, c.path)
	path[len(c.path)] = field
	return newCursor(c.storage, c.loc, c.phys, projectType(c.logical, field), path)
}

// projectType replaces the innermost struct under t's dimensions by its i-th field's type.
func projectType(t dtype.Type, field int) dtype.Type {
	switch t.TypeID {
	case dtype.TypeIDFixedDim:
		return dtype.MustNew(dtype.NewFixedDim(t.FixedDim.Extent, projectType(t.Element(), field)))
	case dtype.TypeIDVarDim:
		return dtype.NewVarDim(projectType(t.Element(), field))
	case dtype.TypeIDStruct:
		return t.Struct.Fields[field].Type
	}
	panic("field projection of non-struct type")
}
