package nd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

// Array is a typed buffer, or a view into one.
//
// A view is described by the steps (indexing and field projection) leading to
// it from the storage root, which are replayed on every access. Views
// therefore always see the current row allocations of their parent and write
// to the very same storage. The storage is released once no Array references
// it anymore.
//
// Arrays do no synchronization: assignments to overlapping views from
// multiple goroutines must be serialized by the caller.
type Array struct {
	storage  *Storage
	root     dtype.Type
	steps    []step
	dtype    dtype.Type
	readOnly bool
}

type stepKind int

const (
	stepIndex stepKind = iota
	stepField
)

type step struct {
	kind  stepKind
	index int
	field int
}

// Empty allocates zeroed storage for a single cell of the given type.
// Var dimension rows start out unallocated, with length 0.
func Empty(t dtype.Type) *Array {
	return &Array{
		storage: newStorage(t.Size()),
		root:    t,
		dtype:   t,
	}
}

// Allocate is like Empty, but wraps the type in leading fixed dimensions of
// the given shape.
func Allocate(t dtype.Type, shape ...int) (*Array, error) {
	for i := len(shape) - 1; i >= 0; i-- {
		var err error
		t, err = dtype.NewFixedDim(shape[i], t)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid shape at axis %d", i)
		}
	}
	return Empty(t), nil
}

// DType is the type of the array as seen through the view.
func (a *Array) DType() dtype.Type {
	return a.dtype
}

func (a *Array) StorageID() string {
	return a.storage.id.String()
}

func (a *Array) IsReadOnly() bool {
	return a.readOnly
}

// ReadOnly returns a view of the same storage which rejects assignments.
func (a *Array) ReadOnly() *Array {
	out := a.withStep(nil, a.dtype)
	out.readOnly = true
	return out
}

func (a *Array) withStep(s *step, t dtype.Type) *Array {
	steps := make([]step, len(a.steps), len(a.steps)+1)
	copy(steps, a.steps)
	if s != nil {
		steps = append(steps, *s)
	}
	return &Array{
		storage:  a.storage,
		root:     a.root,
		steps:    steps,
		dtype:    t,
		readOnly: a.readOnly,
	}
}

// Field returns a view of the named field of the struct under the array's
// dimensions. The view keeps all the outer dimensions.
func (a *Array) Field(name string) (*Array, error) {
	inner := a.dtype.Inner()
	if inner.TypeID != dtype.TypeIDStruct {
		return nil, errors.Wrapf(ErrFieldNotFound, "type %s has no fields, can't get '%s'", a.dtype, name)
	}
	index := inner.FieldIndex(name)
	if index == -1 {
		return nil, errors.Wrapf(ErrFieldNotFound, "struct %s has no field '%s'", inner, name)
	}
	return a.withStep(&step{kind: stepField, field: index}, projectType(a.dtype, index)), nil
}

// FieldPath follows a dot separated path of field names, e.g. "size.name".
func (a *Array) FieldPath(path string) (*Array, error) {
	out := a
	for _, name := range strings.Split(path, ".") {
		var err error
		out, err = out.Field(name)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Index returns a view of the i-th element of the outermost dimension.
// Negative indices count from the end.
func (a *Array) Index(i int) (*Array, error) {
	if !a.dtype.IsDim() {
		return nil, errors.Wrapf(ErrNotIndexable, "type %s", a.dtype)
	}
	out := a.withStep(&step{kind: stepIndex, index: i}, a.dtype.Element())
	if _, err := out.resolve(a.storage); err != nil {
		return nil, err
	}
	return out, nil
}

// Len is the current extent of the outermost dimension.
func (a *Array) Len() (int, error) {
	if !a.dtype.IsDim() {
		return 0, errors.Wrapf(ErrNotIndexable, "type %s has no length", a.dtype)
	}
	c, err := a.resolve(a.storage)
	if err != nil {
		return 0, err
	}
	return c.dimLen(), nil
}

// Shape lists the extents of the leading dimensions. Var dimensions below the
// outermost one have no single extent and are reported as -1.
func (a *Array) Shape() ([]int, error) {
	var shape []int
	for t := a.dtype; t.IsDim(); t = t.Element() {
		switch {
		case t.TypeID == dtype.TypeIDFixedDim:
			shape = append(shape, t.FixedDim.Extent)
		case len(shape) == 0:
			length, err := a.Len()
			if err != nil {
				return nil, err
			}
			shape = append(shape, length)
		default:
			shape = append(shape, -1)
		}
	}
	return shape, nil
}

func (a *Array) resolve(storage *Storage) (cursor, error) {
	c := newCursor(storage, location{block: rootBlock}, a.root, a.root, nil)
	for i, s := range a.steps {
		switch s.kind {
		case stepField:
			c = c.project(s.field)
		case stepIndex:
			length := c.dimLen()
			index := s.index
			if index < 0 {
				index += length
			}
			if index < 0 || index >= length {
				return cursor{}, errors.Wrapf(ErrIndexOutOfRange, "index %d with length %d at step %d", s.index, length, i)
			}
			c = c.element(index)
		}
	}
	return c, nil
}

// Assign writes the literal into the array, see the package documentation for
// the rules. Assign is all-or-nothing: if it fails, the storage is left exactly
// as it was before the call.
//
// Broadcasting a non-sequence into a var dimension fills the rows at their
// current lengths. Rows of a fresh array are empty, so they need a sequence
// first: on 2, Var, int32, [1, 2] writes nothing, while [[1], [2]] or
// [[1, 1], [2]] allocate the rows.
func (a *Array) Assign(v literal.Value) error {
	if a.readOnly {
		return ErrReadOnly
	}
	if v == nil {
		return errors.Wrap(ErrConversion, "can't assign nothing")
	}
	staged := a.storage.stage()
	c, err := a.resolve(staged)
	if err != nil {
		return err
	}
	if err := assign(c, v); err != nil {
		return err
	}
	a.storage.commit(staged)
	return nil
}

// AssignFrom normalizes a plain Go value and assigns it.
func (a *Array) AssignFrom(value interface{}) error {
	v, err := literal.NormalizeType(value)
	if err != nil {
		return errors.Wrap(err, "couldn't normalize value")
	}
	return a.Assign(v)
}

// ToLiteral reads the array back into literal form: dimensions become
// sequences, structs become mappings.
func (a *Array) ToLiteral() (literal.Value, error) {
	c, err := a.resolve(a.storage)
	if err != nil {
		return nil, err
	}
	return read(c), nil
}

func (a *Array) String() string {
	v, err := a.ToLiteral()
	if err != nil {
		return fmt.Sprintf("<invalid view: %s>", err)
	}
	return v.String()
}
