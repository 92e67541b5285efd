package nd

import (
	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

type resolution int

const (
	resolutionMismatch resolution = iota
	// Item i of the sequence goes to slot i.
	resolutionPositional
	// The whole literal goes to every slot.
	resolutionBroadcast
	// The single item of a one-element sequence goes to every slot.
	resolutionBroadcastItem
	// The row is reallocated to the sequence's length, then filled positionally.
	resolutionReallocate
)

func (r resolution) String() string {
	switch r {
	case resolutionMismatch:
		return "mismatch"
	case resolutionPositional:
		return "positional"
	case resolutionBroadcast:
		return "broadcast"
	case resolutionBroadcastItem:
		return "broadcast item"
	case resolutionReallocate:
		return "reallocate"
	}
	return "unknown"
}

// resolveFixedDim decides how v fills a fixed dimension with the given extent.
// An exact positional match takes priority over broadcasting.
func resolveFixedDim(extent int, element dtype.Type, v literal.Value) resolution {
	if seq, ok := v.(literal.Tuple); ok && len(seq) == extent {
		return resolutionPositional
	}
	if fitsUnit(element, v) {
		return resolutionBroadcast
	}
	return resolutionMismatch
}

// resolveVarDim decides how v fills a var dimension row currently holding
// length elements. Sequences set the row's length, unless they're a single
// element one, which is broadcast over a longer existing row.
func resolveVarDim(length int, element dtype.Type, v literal.Value) resolution {
	if seq, ok := v.(literal.Tuple); ok {
		switch {
		case len(seq) == length:
			return resolutionPositional
		case len(seq) == 1 && length > 1:
			return resolutionBroadcastItem
		default:
			return resolutionReallocate
		}
	}
	if fitsUnit(element, v) {
		return resolutionBroadcast
	}
	return resolutionMismatch
}

// fitsUnit reports whether v can be assigned as a whole to a single cell of
// type t, possibly broadcasting further down.
func fitsUnit(t dtype.Type, v literal.Value) bool {
	switch t.TypeID {
	case dtype.TypeIDStruct:
		switch v := v.(type) {
		case literal.Object:
			return true
		case literal.Tuple:
			return len(v) == len(t.Struct.Fields)
		}
		return false

	case dtype.TypeIDFixedDim:
		if seq, ok := v.(literal.Tuple); ok && len(seq) == t.FixedDim.Extent {
			return true
		}
		return fitsUnit(t.Element(), v)

	case dtype.TypeIDVarDim:
		if _, ok := v.(literal.Tuple); ok {
			return true
		}
		return fitsUnit(t.Element(), v)

	case dtype.TypeIDComplex64, dtype.TypeIDComplex128:
		if seq, ok := v.(literal.Tuple); ok {
			return len(seq) == 1
		}
		return !literal.IsContainer(v)
	}
	return !literal.IsContainer(v)
}
