package nd

import (
	"github.com/pkg/errors"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

// assign recursively writes v into the cell at c, following the cell's type.
func assign(c cursor, v literal.Value) error {
	switch c.phys.TypeID {
	case dtype.TypeIDFixedDim:
		return assignFixedDim(c, v)
	case dtype.TypeIDVarDim:
		return assignVarDim(c, v)
	case dtype.TypeIDStruct:
		return assignStruct(c, v)
	default:
		return convert(c, v)
	}
}

func assignFixedDim(c cursor, v literal.Value) error {
	extent := c.phys.FixedDim.Extent
	switch res := resolveFixedDim(extent, c.logical.Element(), v); res {
	case resolutionPositional:
		return assignPositional(c, v.(literal.Tuple))
	case resolutionBroadcast:
		return assignBroadcast(c, extent, v)
	default:
		return dimensionMismatch(c, extent, v)
	}
}

func assignVarDim(c cursor, v literal.Value) error {
	length := c.dimLen()
	switch res := resolveVarDim(length, c.logical.Element(), v); res {
	case resolutionPositional:
		return assignPositional(c, v.(literal.Tuple))
	case resolutionBroadcastItem:
		return assignBroadcast(c, length, v.(literal.Tuple)[0])
	case resolutionBroadcast:
		return assignBroadcast(c, length, v)
	case resolutionReallocate:
		seq := v.(literal.Tuple)
		if len(c.path) > 0 {
			// The row holds whole structs, the other fields would be left zeroed.
			return errors.Wrapf(ErrDimensionMismatch, "can't resize row of length %d to %d through a field projection of %s", length, len(seq), c.logical)
		}
		reallocateRow(c, len(seq))
		return assignPositional(c, seq)
	default:
		return dimensionMismatch(c, length, v)
	}
}

// reallocateRow replaces the row at c with a fresh zeroed one of the given
// length. Nothing of the previous row survives.
func reallocateRow(c cursor, length int) {
	c.storage.releaseCell(c.phys, c.loc)
	if length == 0 {
		return
	}
	block := c.storage.alloc(length * c.phys.Element().Size())
	c.storage.writeIndirect(c.loc, block, length)
}

func assignPositional(c cursor, seq literal.Tuple) error {
	for i := range seq {
		if err := assign(c.element(i), seq[i]); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}
	return nil
}

func assignBroadcast(c cursor, length int, v literal.Value) error {
	for i := 0; i < length; i++ {
		if err := assign(c.element(i), v); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}
	return nil
}

func dimensionMismatch(c cursor, length int, v literal.Value) error {
	if seq, ok := v.(literal.Tuple); ok {
		return errors.Wrapf(ErrDimensionMismatch, "can't assign sequence of length %d to dimension of length %d of %s", len(seq), length, c.logical)
	}
	return errors.Wrapf(ErrDimensionMismatch, "can't broadcast %s %s into %s", literal.TypeName(v), v, c.logical)
}

// read is the inverse of assign.
func read(c cursor) literal.Value {
	switch c.phys.TypeID {
	case dtype.TypeIDFixedDim, dtype.TypeIDVarDim:
		length := c.dimLen()
		out := make(literal.Tuple, length)
		for i := 0; i < length; i++ {
			out[i] = read(c.element(i))
		}
		return out

	case dtype.TypeIDStruct:
		out := make(literal.Object, len(c.phys.Struct.Fields))
		for i, field := range c.phys.Struct.Fields {
			out[field.Name] = read(c.field(i))
		}
		return out

	default:
		return readLeaf(c)
	}
}
