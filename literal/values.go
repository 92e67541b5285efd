package literal

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Value is a nested literal: the input of assignment and the output of
// read-back.
//
//go-sumtype:decl Value
type Value interface {
	literalValue()
	fmt.Stringer
}

type Bool bool

func (Bool) literalValue()  {}
func (v Bool) AsBool() bool { return bool(v) }
func (v Bool) String() string {
	if v {
		return "True"
	}
	return "False"
}
func MakeBool(v bool) Bool {
	return Bool(v)
}

type Int int64

func (Int) literalValue()    {}
func (v Int) AsInt() int64   { return int64(v) }
func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }
func MakeInt(v int64) Int {
	return Int(v)
}

type Float float64

func (Float) literalValue()      {}
func (v Float) AsFloat() float64 { return float64(v) }
func (v Float) String() string {
	out := strconv.FormatFloat(float64(v), 'g', -1, 64)
	if !strings.ContainsAny(out, ".eEnN") {
		out += ".0"
	}
	return out
}
func MakeFloat(v float64) Float {
	return Float(v)
}

type Complex complex128

func (Complex) literalValue()            {}
func (v Complex) AsComplex() complex128 { return complex128(v) }
func (v Complex) String() string {
	re, im := real(v), imag(v)
	imText := strconv.FormatFloat(im, 'g', -1, 64) + "j"
	if re == 0 {
		return imText
	}
	if im >= 0 {
		imText = "+" + imText
	}
	return fmt.Sprintf("(%s%s)", strconv.FormatFloat(re, 'g', -1, 64), imText)
}
func MakeComplex(v complex128) Complex {
	return Complex(v)
}

type String string

func (String) literalValue()       {}
func (v String) AsString() string { return string(v) }
func (v String) String() string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(string(v), "'", "\\'"))
}
func MakeString(v string) String {
	return String(v)
}

// Tuple is an ordered sequence: a list or a tuple.
type Tuple []Value

func (Tuple) literalValue()       {}
func (v Tuple) AsSlice() []Value { return []Value(v) }
func (v Tuple) String() string {
	valueStrings := make([]string, len(v))
	for i, value := range v {
		valueStrings[i] = fmt.Sprint(value)
	}
	return fmt.Sprintf("[%s]", strings.Join(valueStrings, ", "))
}
func MakeTuple(v ...Value) Tuple {
	return Tuple(v)
}

// Object is a keyed mapping.
type Object map[string]Value

func (Object) literalValue()               {}
func (v Object) AsMap() map[string]Value { return map[string]Value(v) }
func (v Object) String() string {
	keys := v.SortedKeys()
	fieldStrings := make([]string, len(keys))
	for i, k := range keys {
		fieldStrings[i] = fmt.Sprintf("'%s': %s", k, v[k])
	}
	return fmt.Sprintf("{%s}", strings.Join(fieldStrings, ", "))
}
func (v Object) SortedKeys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
func MakeObject(v map[string]Value) Object {
	return Object(v)
}

// IsContainer is true for sequences and mappings.
func IsContainer(v Value) bool {
	switch v.(type) {
	case Tuple, Object:
		return true
	}
	return false
}

// TypeName is a short human-readable name of the literal's kind, for errors.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Complex:
		return "complex"
	case String:
		return "text"
	case Tuple:
		return "sequence"
	case Object:
		return "mapping"
	}
	panic("impossible, type switch bug")
}

// NormalizeType brings plain Go values into literal form.
func NormalizeType(value interface{}) (Value, error) {
	switch value := value.(type) {
	case bool:
		return MakeBool(value), nil
	case int:
		return MakeInt(int64(value)), nil
	case int8:
		return MakeInt(int64(value)), nil
	case int16:
		return MakeInt(int64(value)), nil
	case int32:
		return MakeInt(int64(value)), nil
	case int64:
		return MakeInt(value), nil
	case uint8:
		return MakeInt(int64(value)), nil
	case uint16:
		return MakeInt(int64(value)), nil
	case uint32:
		return MakeInt(int64(value)), nil
	case uint:
		if uint64(value) > math.MaxInt64 {
			return nil, errors.Errorf("integer %d out of literal range", value)
		}
		return MakeInt(int64(value)), nil
	case uint64:
		if value > math.MaxInt64 {
			return nil, errors.Errorf("integer %d out of literal range", value)
		}
		return MakeInt(int64(value)), nil
	case float32:
		return MakeFloat(float64(value)), nil
	case float64:
		return MakeFloat(value), nil
	case complex64:
		return MakeComplex(complex128(value)), nil
	case complex128:
		return MakeComplex(value), nil
	case []byte:
		return MakeString(string(value)), nil
	case string:
		return MakeString(value), nil
	case []interface{}:
		out := make(Tuple, len(value))
		for i := range value {
			v, err := NormalizeType(value[i])
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = v
		}
		return out, nil
	case map[string]interface{}:
		out := make(Object, len(value))
		for k, v := range value {
			normalized, err := NormalizeType(v)
			if err != nil {
				return nil, errors.Wrapf(err, "key '%s'", k)
			}
			out[k] = normalized
		}
		return out, nil
	case Value:
		return value, nil
	}
	return nil, errors.Errorf("invalid type to normalize: %v", reflect.TypeOf(value))
}

// AreEqual checks the equality of the given values, returning false if the types don't match.
func AreEqual(left, right Value) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	switch left := left.(type) {
	case Bool:
		right, ok := right.(Bool)
		return ok && left == right

	case Int:
		right, ok := right.(Int)
		return ok && left == right

	case Float:
		right, ok := right.(Float)
		return ok && left == right

	case Complex:
		right, ok := right.(Complex)
		return ok && left == right

	case String:
		right, ok := right.(String)
		return ok && left == right

	case Tuple:
		right, ok := right.(Tuple)
		if !ok {
			return false
		}
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if !AreEqual(left[i], right[i]) {
				return false
			}
		}
		return true

	case Object:
		right, ok := right.(Object)
		if !ok {
			return false
		}
		if len(left) != len(right) {
			return false
		}
		for k := range left {
			if !AreEqual(left[k], right[k]) {
				return false
			}
		}
		return true
	}
	panic("impossible, type switch bug")
}
