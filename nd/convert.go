package nd

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

func conversionErrorf(t dtype.Type, v literal.Value, format string, args ...interface{}) error {
	return errors.Wrapf(ErrConversion, "can't convert %s %s to %s: "+format, append([]interface{}{literal.TypeName(v), v, t}, args...)...)
}

// convert writes a single literal into the leaf cell at c.
func convert(c cursor, v literal.Value) error {
	t := c.phys
	switch t.TypeID {
	case dtype.TypeIDBool:
		b, ok := v.(literal.Bool)
		if !ok {
			return conversionErrorf(t, v, "expected bool")
		}
		cell := c.storage.bytes(c.loc, 1)
		cell[0] = 0
		if b {
			cell[0] = 1
		}
		return nil

	case dtype.TypeIDInt8, dtype.TypeIDInt16, dtype.TypeIDInt32, dtype.TypeIDInt64:
		i, ok := v.(literal.Int)
		if !ok {
			return conversionErrorf(t, v, "expected integer")
		}
		bits := uint(t.Size() * 8)
		min, max := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if bits == 64 {
			min, max = math.MinInt64, math.MaxInt64
		}
		if int64(i) < min || int64(i) > max {
			return conversionErrorf(t, v, "out of range [%d, %d]", min, max)
		}
		putUint(c.storage.bytes(c.loc, t.Size()), uint64(i))
		return nil

	case dtype.TypeIDUint8, dtype.TypeIDUint16, dtype.TypeIDUint32, dtype.TypeIDUint64:
		i, ok := v.(literal.Int)
		if !ok {
			return conversionErrorf(t, v, "expected integer")
		}
		bits := uint(t.Size() * 8)
		if i < 0 || (bits < 64 && uint64(i) > uint64(1)<<bits-1) {
			return conversionErrorf(t, v, "out of range [0, %d]", uint64(1)<<bits-1)
		}
		putUint(c.storage.bytes(c.loc, t.Size()), uint64(i))
		return nil

	case dtype.TypeIDFloat32, dtype.TypeIDFloat64:
		f, ok := asReal(v)
		if !ok {
			return conversionErrorf(t, v, "expected a real number")
		}
		cell := c.storage.bytes(c.loc, t.Size())
		if t.TypeID == dtype.TypeIDFloat32 {
			binary.LittleEndian.PutUint32(cell, math.Float32bits(float32(f)))
		} else {
			binary.LittleEndian.PutUint64(cell, math.Float64bits(f))
		}
		return nil

	case dtype.TypeIDComplex64, dtype.TypeIDComplex128:
		z, err := asComplex(t, v)
		if err != nil {
			return err
		}
		cell := c.storage.bytes(c.loc, t.Size())
		if t.TypeID == dtype.TypeIDComplex64 {
			binary.LittleEndian.PutUint32(cell[0:4], math.Float32bits(float32(real(z))))
			binary.LittleEndian.PutUint32(cell[4:8], math.Float32bits(float32(imag(z))))
		} else {
			binary.LittleEndian.PutUint64(cell[0:8], math.Float64bits(real(z)))
			binary.LittleEndian.PutUint64(cell[8:16], math.Float64bits(imag(z)))
		}
		return nil

	case dtype.TypeIDFixedString:
		s, ok := v.(literal.String)
		if !ok {
			return conversionErrorf(t, v, "expected text")
		}
		width := t.FixedString.Width
		if n := utf8.RuneCountInString(string(s)); n > width {
			return conversionErrorf(t, v, "length %d exceeds width %d", n, width)
		}
		cell := c.storage.bytes(c.loc, t.Size())
		i := 0
		for _, r := range string(s) {
			binary.LittleEndian.PutUint32(cell[i*dtype.CodePointSize:], uint32(r))
			i++
		}
		for ; i < width; i++ {
			binary.LittleEndian.PutUint32(cell[i*dtype.CodePointSize:], uint32(t.FixedString.Pad))
		}
		return nil

	case dtype.TypeIDString:
		s, ok := v.(literal.String)
		if !ok {
			return conversionErrorf(t, v, "expected text")
		}
		c.storage.releaseCell(t, c.loc)
		if len(s) == 0 {
			return nil
		}
		block := c.storage.alloc(len(s))
		copy(c.storage.blocks[block], s)
		c.storage.writeIndirect(c.loc, block, len(s))
		return nil
	}
	panic("impossible, type switch bug")
}

func asReal(v literal.Value) (float64, bool) {
	switch v := v.(type) {
	case literal.Int:
		return float64(v), true
	case literal.Float:
		return float64(v), true
	}
	return 0, false
}

func asComplex(t dtype.Type, v literal.Value) (complex128, error) {
	switch v := v.(type) {
	case literal.Complex:
		return complex128(v), nil
	case literal.Tuple:
		if len(v) != 1 {
			return 0, conversionErrorf(t, v, "sequence must have exactly one element, has %d", len(v))
		}
		if _, nested := v[0].(literal.Tuple); nested {
			return 0, conversionErrorf(t, v, "expected a number inside the sequence")
		}
		return asComplex(t, v[0])
	}
	if f, ok := asReal(v); ok {
		return complex(f, 0), nil
	}
	return 0, conversionErrorf(t, v, "expected a number")
}

func putUint(cell []byte, value uint64) {
	switch len(cell) {
	case 1:
		cell[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(cell, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(cell, uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(cell, value)
	}
}

func getUint(cell []byte) uint64 {
	switch len(cell) {
	case 1:
		return uint64(cell[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(cell))
	case 4:
		return uint64(binary.LittleEndian.Uint32(cell))
	case 8:
		return binary.LittleEndian.Uint64(cell)
	}
	panic("invalid integer cell size")
}

// readLeaf is the inverse of convert.
func readLeaf(c cursor) literal.Value {
	t := c.phys
	switch t.TypeID {
	case dtype.TypeIDBool:
		return literal.MakeBool(c.storage.bytes(c.loc, 1)[0] != 0)

	case dtype.TypeIDInt8:
		return literal.MakeInt(int64(int8(getUint(c.storage.bytes(c.loc, 1)))))
	case dtype.TypeIDInt16:
		return literal.MakeInt(int64(int16(getUint(c.storage.bytes(c.loc, 2)))))
	case dtype.TypeIDInt32:
		return literal.MakeInt(int64(int32(getUint(c.storage.bytes(c.loc, 4)))))
	case dtype.TypeIDInt64:
		return literal.MakeInt(int64(getUint(c.storage.bytes(c.loc, 8))))

	case dtype.TypeIDUint8, dtype.TypeIDUint16, dtype.TypeIDUint32, dtype.TypeIDUint64:
		// Values above MaxInt64 can't be assigned, so this doesn't overflow.
		return literal.MakeInt(int64(getUint(c.storage.bytes(c.loc, t.Size()))))

	case dtype.TypeIDFloat32:
		return literal.MakeFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(c.storage.bytes(c.loc, 4)))))
	case dtype.TypeIDFloat64:
		return literal.MakeFloat(math.Float64frombits(binary.LittleEndian.Uint64(c.storage.bytes(c.loc, 8))))

	case dtype.TypeIDComplex64:
		cell := c.storage.bytes(c.loc, 8)
		re := math.Float32frombits(binary.LittleEndian.Uint32(cell[0:4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(cell[4:8]))
		return literal.MakeComplex(complex(float64(re), float64(im)))
	case dtype.TypeIDComplex128:
		cell := c.storage.bytes(c.loc, 16)
		re := math.Float64frombits(binary.LittleEndian.Uint64(cell[0:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(cell[8:16]))
		return literal.MakeComplex(complex(re, im))

	case dtype.TypeIDFixedString:
		cell := c.storage.bytes(c.loc, t.Size())
		var builder strings.Builder
		for i := 0; i < t.FixedString.Width; i++ {
			builder.WriteRune(rune(binary.LittleEndian.Uint32(cell[i*dtype.CodePointSize:])))
		}
		return literal.MakeString(strings.TrimRight(builder.String(), "\x00"))

	case dtype.TypeIDString:
		block, length := c.storage.readIndirect(c.loc)
		if block == rootBlock {
			return literal.MakeString("")
		}
		return literal.MakeString(string(c.storage.blocks[block][:length]))
	}
	panic("impossible, type switch bug")
}
