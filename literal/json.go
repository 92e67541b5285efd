package literal

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// ParseJSON decodes a JSON document into a literal.
// Numbers written without a fraction or exponent become Int, others Float.
// JSON has no complex numbers, nor null, the latter is rejected.
func ParseJSON(data []byte) (Value, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse json")
	}
	return fromJSON(v)
}

func fromJSON(v *fastjson.Value) (Value, error) {
	switch v.Type() {
	case fastjson.TypeTrue:
		return MakeBool(true), nil
	case fastjson.TypeFalse:
		return MakeBool(false), nil
	case fastjson.TypeNumber:
		raw := string(v.MarshalTo(nil))
		if !strings.ContainsAny(raw, ".eE") {
			i, err := v.Int64()
			if err == nil {
				return MakeInt(i), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %s", raw)
		}
		return MakeFloat(f), nil
	case fastjson.TypeString:
		return MakeString(string(v.GetStringBytes())), nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read json array")
		}
		out := make(Tuple, len(items))
		for i := range items {
			item, err := fromJSON(items[i])
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = item
		}
		return out, nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read json object")
		}
		out := make(Object, obj.Len())
		var visitErr error
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if visitErr != nil {
				return
			}
			value, err := fromJSON(item)
			if err != nil {
				visitErr = errors.Wrapf(err, "key '%s'", key)
				return
			}
			out[string(key)] = value
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return out, nil
	case fastjson.TypeNull:
		return nil, errors.New("null is not a valid literal")
	}
	return nil, errors.Errorf("unsupported json value type %s", v.Type())
}

// AppendJSON renders the literal as JSON. Complex numbers are rendered as
// two-element [real, imag] arrays. NaN and infinities have no JSON number
// form, they are rendered as the strings "NaN", "Infinity" and "-Infinity".
func AppendJSON(dst []byte, v Value) []byte {
	var arena fastjson.Arena
	return toJSON(&arena, v).MarshalTo(dst)
}

func toJSON(arena *fastjson.Arena, v Value) *fastjson.Value {
	switch v := v.(type) {
	case Bool:
		if v {
			return arena.NewTrue()
		}
		return arena.NewFalse()
	case Int:
		return arena.NewNumberString(v.String())
	case Float:
		return floatToJSON(arena, float64(v))
	case Complex:
		out := arena.NewArray()
		out.SetArrayItem(0, floatToJSON(arena, real(v)))
		out.SetArrayItem(1, floatToJSON(arena, imag(v)))
		return out
	case String:
		return arena.NewString(string(v))
	case Tuple:
		out := arena.NewArray()
		for i := range v {
			out.SetArrayItem(i, toJSON(arena, v[i]))
		}
		return out
	case Object:
		out := arena.NewObject()
		for _, k := range v.SortedKeys() {
			out.Set(k, toJSON(arena, v[k]))
		}
		return out
	}
	panic("impossible, type switch bug")
}

func floatToJSON(arena *fastjson.Arena, f float64) *fastjson.Value {
	switch {
	case math.IsNaN(f):
		return arena.NewString("NaN")
	case math.IsInf(f, 1):
		return arena.NewString("Infinity")
	case math.IsInf(f, -1):
		return arena.NewString("-Infinity")
	}
	return arena.NewNumberFloat64(f)
}
