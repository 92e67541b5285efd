package nd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

func mustParse(t *testing.T, text string) dtype.Type {
	t.Helper()
	out, err := dtype.Parse(text)
	require.NoError(t, err)
	return out
}

func lit(t *testing.T, json string) literal.Value {
	t.Helper()
	out, err := literal.ParseJSON([]byte(json))
	require.NoError(t, err)
	return out
}

func fieldLiteral(t *testing.T, a *Array, path string) literal.Value {
	t.Helper()
	view, err := a.FieldPath(path)
	require.NoError(t, err)
	out, err := view.ToLiteral()
	require.NoError(t, err)
	return out
}

func assertField(t *testing.T, a *Array, path string, want string) {
	t.Helper()
	got := fieldLiteral(t, a, path)
	assert.True(t, literal.AreEqual(lit(t, want), got), "field %s: got %s, want %s", path, got, want)
}

func TestSingleStruct(t *testing.T) {
	a := Empty(mustParse(t, "{x:int32; y:string; z:bool}"))
	require.NoError(t, a.Assign(lit(t, `[3, "test", false]`)))
	assertField(t, a, "x", `3`)
	assertField(t, a, "y", `"test"`)
	assertField(t, a, "z", `false`)

	a = Empty(mustParse(t, "{x:int32; y:string; z:bool}"))
	require.NoError(t, a.Assign(lit(t, `{"x": 10, "y": "testing", "z": true}`)))
	assertField(t, a, "x", `10`)
	assertField(t, a, "y", `"testing"`)
	assertField(t, a, "z", `true`)
}

func TestNestedStruct(t *testing.T) {
	typ := mustParse(t, "{x: 2, int16; y: {a: string; b: float64}; z: 1, cfloat32}")

	a := Empty(typ)
	require.NoError(t, a.Assign(literal.MakeTuple(
		lit(t, `[1, 2]`),
		lit(t, `["test", 3.5]`),
		literal.MakeTuple(literal.MakeComplex(3i)),
	)))
	assertField(t, a, "x", `[1, 2]`)
	assertField(t, a, "y.a", `"test"`)
	assertField(t, a, "y.b", `3.5`)
	assert.Equal(t, "[3j]", fieldLiteral(t, a, "z").String())

	a = Empty(typ)
	require.NoError(t, a.Assign(literal.MakeObject(map[string]literal.Value{
		"x": lit(t, `[1, 2]`),
		"y": lit(t, `{"a": "test", "b": 3.5}`),
		"z": literal.MakeTuple(literal.MakeComplex(3i)),
	})))
	assertField(t, a, "x", `[1, 2]`)
	assertField(t, a, "y.a", `"test"`)
	assertField(t, a, "y.b", `3.5`)
	assert.Equal(t, "[3j]", fieldLiteral(t, a, "z").String())
}

func TestSingleStructArray(t *testing.T) {
	a := Empty(mustParse(t, "3, {x:int32; y:int32}"))
	require.NoError(t, a.Assign(lit(t, `[[0, 0], [3, 5], [12, 10]]`)))
	assertField(t, a, "x", `[0, 3, 12]`)
	assertField(t, a, "y", `[0, 5, 10]`)

	require.NoError(t, a.Assign(lit(t, `[{"x": 1, "y": 2}, {"x": 4, "y": 7}, {"x": 14, "y": 190}]`)))
	assertField(t, a, "x", `[1, 4, 14]`)
	assertField(t, a, "y", `[2, 7, 190]`)

	a = Empty(mustParse(t, `2, Var, {count:int32; size:string(1,"A")}`))
	require.NoError(t, a.Assign(lit(t, `[[[3, "X"]], [[10, "L"], [12, "M"]]]`)))
	assertField(t, a, "count", `[[3], [10, 12]]`)
	assertField(t, a, "size", `[["X"], ["L", "M"]]`)

	require.NoError(t, a.Assign(lit(t, `[[{"count": 6, "size": "M"}], [{"count": 3, "size": "F"}, {"count": 16, "size": "D"}]]`)))
	assertField(t, a, "count", `[[6], [3, 16]]`)
	assertField(t, a, "size", `[["M"], ["F", "D"]]`)

	// A single struct broadcasts over both rows and every element of each row.
	require.NoError(t, a.Assign(lit(t, `{"count": 1, "size": "Z"}`)))
	assertField(t, a, "count", `[[1], [1, 1]]`)
	assertField(t, a, "size", `[["Z"], ["Z", "Z"]]`)

	// A one element row broadcasts over a longer existing row.
	require.NoError(t, a.Assign(lit(t, `[[[10, "A"]], [[5, "B"]]]`)))
	assertField(t, a, "count", `[[10], [5, 5]]`)
	assertField(t, a, "size", `[["A"], ["B", "B"]]`)
}

func TestNestedStructArray(t *testing.T) {
	a := Empty(mustParse(t, "3, {x:{a:int16; b:int16}; y:int32}"))
	require.NoError(t, a.Assign(lit(t, `[[[0, 1], 0], [[2, 2], 5], [[100, 10], 10]]`)))
	assertField(t, a, "x.a", `[0, 2, 100]`)
	assertField(t, a, "x.b", `[1, 2, 10]`)
	assertField(t, a, "y", `[0, 5, 10]`)

	require.NoError(t, a.Assign(lit(t, `[
		{"x": {"a": 1, "b": 2}, "y": 5},
		{"x": {"a": 3, "b": 6}, "y": 7},
		{"x": {"a": 1001, "b": 110}, "y": 110}
	]`)))
	assertField(t, a, "x.a", `[1, 3, 1001]`)
	assertField(t, a, "x.b", `[2, 6, 110]`)
	assertField(t, a, "y", `[5, 7, 110]`)

	a = Empty(mustParse(t, `2, Var, {count:int32; size:{name:string(1,"A"); id: int8}}`))
	require.NoError(t, a.Assign(lit(t, `[[[3, ["X", 10]]], [[10, ["L", 7]], [12, ["M", 5]]]]`)))
	assertField(t, a, "count", `[[3], [10, 12]]`)
	assertField(t, a, "size.name", `[["X"], ["L", "M"]]`)
	assertField(t, a, "size.id", `[[10], [7, 5]]`)
}

func TestStructFieldSetMismatch(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{
			name:  "too few positional",
			value: `[0, 1]`,
			want:  ErrStructArity,
		},
		{
			name:  "too many positional",
			value: `[0, 1, 2, 3]`,
			want:  ErrStructArity,
		},
		{
			name:  "missing key",
			value: `{"x": 0, "z": 1}`,
			want:  ErrMissingField,
		},
		{
			name:  "extra key",
			value: `{"x": 0, "y": 1, "z": 2, "w": 3}`,
			want:  ErrUnexpectedField,
		},
		{
			name:  "missing and extra key",
			value: `{"x": 0, "y": 1, "w": 3}`,
			want:  ErrMissingField,
		},
		{
			name:  "scalar",
			value: `5`,
			want:  ErrConversion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Empty(mustParse(t, "{x:int32; y:int32; z:int32}"))
			err := a.Assign(lit(t, tt.value))
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Cause(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStructArityForAnyFieldCount(t *testing.T) {
	for k := 1; k <= 5; k++ {
		fields := make([]dtype.StructField, k)
		for i := range fields {
			fields[i] = dtype.StructField{Name: string(rune('a' + i)), Type: dtype.Int64}
		}
		typ, err := dtype.NewStruct(fields...)
		require.NoError(t, err)

		for n := 0; n <= 6; n++ {
			seq := make(literal.Tuple, n)
			for i := range seq {
				seq[i] = literal.MakeInt(int64(i))
			}
			err := Empty(typ).Assign(seq)
			if n == k {
				assert.NoError(t, err, "k=%d n=%d", k, n)
			} else {
				assert.Equal(t, ErrStructArity, errors.Cause(err), "k=%d n=%d", k, n)
			}
		}
	}
}

func TestBroadcastLaw(t *testing.T) {
	for extent := 0; extent <= 6; extent++ {
		typ := dtype.MustNew(dtype.NewFixedDim(extent, mustParse(t, "{a: int32; b: 2, float64}")))
		a := Empty(typ)
		require.NoError(t, a.Assign(lit(t, `{"a": 7, "b": 1.5}`)))

		got, err := a.ToLiteral()
		require.NoError(t, err)
		require.Len(t, got, extent)
		for _, element := range got.(literal.Tuple) {
			assert.True(t, literal.AreEqual(lit(t, `{"a": 7, "b": [1.5, 1.5]}`), element), "got %s", element)
		}
	}
}

func TestBroadcastAcrossNestedDimensions(t *testing.T) {
	a := Empty(mustParse(t, "2, 3, int8"))
	require.NoError(t, a.Assign(literal.MakeInt(4)))
	got, err := a.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, "[[4, 4, 4], [4, 4, 4]]", got.String())

	require.NoError(t, a.Assign(lit(t, `[1, 2, 3]`)))
	got, err = a.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, "[[1, 2, 3], [1, 2, 3]]", got.String())
}

func TestPositionalWinsOverBroadcast(t *testing.T) {
	// Three fields and three elements: the sequence is taken positionally
	// over the dimension, so each scalar ends up being assigned to a struct.
	a := Empty(mustParse(t, "3, {a: int32; b: int32; c: int32}"))
	err := a.Assign(lit(t, `[1, 2, 3]`))
	assert.Equal(t, ErrConversion, errors.Cause(err))

	// With two elements it can only be a single broadcast struct.
	a = Empty(mustParse(t, "2, {a: int32; b: int32; c: int32}"))
	require.NoError(t, a.Assign(lit(t, `[1, 2, 3]`)))
	assertField(t, a, "c", `[3, 3]`)
}

func TestDimensionMismatch(t *testing.T) {
	tests := []struct {
		typ   string
		value string
	}{
		{typ: "3, int32", value: `[1, 2]`},
		{typ: "3, int32", value: `{"a": 1}`},
		{typ: "2, {a: int32}", value: `5`},
		{typ: "2, 2, int32", value: `[1, 2, 3]`},
		{typ: "Var, {a: int32}", value: `"text"`},
	}
	for _, tt := range tests {
		t.Run(tt.typ+" <- "+tt.value, func(t *testing.T) {
			err := Empty(mustParse(t, tt.typ)).Assign(lit(t, tt.value))
			assert.Equal(t, ErrDimensionMismatch, errors.Cause(err), "got %v", err)
		})
	}
}

func TestVarDimReplaceLaw(t *testing.T) {
	a := Empty(mustParse(t, "Var, {name: string; tags: Var, int16}"))
	require.NoError(t, a.Assign(lit(t, `[["a", [1, 2, 3]], ["bb", [4]], ["ccc", []]]`)))
	// root, the row, three strings and two non-empty tag rows
	assert.Equal(t, 7, a.storage.liveBlocks())

	require.NoError(t, a.Assign(lit(t, `[["d", [5, 6]], ["e", [7, 8, 9, 10]]]`)))
	got, err := a.ToLiteral()
	require.NoError(t, err)
	assert.True(t, literal.AreEqual(lit(t, `[{"name": "d", "tags": [5, 6]}, {"name": "e", "tags": [7, 8, 9, 10]}]`), got), "got %s", got)
	assert.Equal(t, 6, a.storage.liveBlocks())

	require.NoError(t, a.Assign(lit(t, `[]`)))
	got, err = a.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, "[]", got.String())
	assert.Equal(t, 1, a.storage.liveBlocks())
}

func TestVarDimScalarBroadcastKeepsRowLengths(t *testing.T) {
	a := Empty(mustParse(t, "3, Var, int64"))
	require.NoError(t, a.Assign(lit(t, `[[1, 2], [], [3, 4, 5]]`)))
	require.NoError(t, a.Assign(literal.MakeInt(9)))
	got, err := a.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, "[[9, 9], [], [9, 9, 9]]", got.String())

	fresh := Empty(mustParse(t, "2, Var, int32"))
	require.NoError(t, fresh.Assign(lit(t, `[1, 2]`)))
	assert.Equal(t, "[[], []]", fresh.String())
	require.NoError(t, fresh.Assign(lit(t, `[[1], [2]]`)))
	require.NoError(t, fresh.Assign(lit(t, `[3, 4]`)))
	assert.Equal(t, "[[3], [4]]", fresh.String())
}

func TestAssignIsAllOrNothing(t *testing.T) {
	a := Empty(mustParse(t, "3, {x: int32; y: string(2); z: Var, int8}"))
	require.NoError(t, a.Assign(lit(t, `[[1, "a", [1]], [2, "b", [2, 2]], [3, "c", []]]`)))
	before, err := a.ToLiteral()
	require.NoError(t, err)
	blocks := a.storage.liveBlocks()

	err = a.Assign(lit(t, `[[10, "aa", [1, 2, 3]], [20, "bb", []], [30, "too long", [4]]]`))
	require.Error(t, err)
	assert.Equal(t, ErrConversion, errors.Cause(err))
	assert.Contains(t, err.Error(), "index 2: field y")

	after, err := a.ToLiteral()
	require.NoError(t, err)
	assert.True(t, literal.AreEqual(before, after), "got %s, want %s", after, before)
	assert.Equal(t, blocks, a.storage.liveBlocks())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typ   string
		value string
		want  string
	}{
		{
			typ:   "bool",
			value: `true`,
			want:  `true`,
		},
		{
			typ:   "4, uint8",
			value: `[0, 1, 254, 255]`,
			want:  `[0, 1, 254, 255]`,
		},
		{
			typ:   "Var, Var, float64",
			value: `[[1, 2.5], [], [-3]]`,
			want:  `[[1.0, 2.5], [], [-3.0]]`,
		},
		{
			typ:   `2, string(4)`,
			value: `["ab", "cdef"]`,
			want:  `["ab", "cdef"]`,
		},
		{
			typ:   `2, string(4, "-")`,
			value: `["ab", "cdef"]`,
			want:  `["ab--", "cdef"]`,
		},
		{
			typ:   "{a: {b: {c: Var, string}}}",
			value: `{"a": {"b": {"c": ["x", "", "zzz"]}}}`,
			want:  `{"a": {"b": {"c": ["x", "", "zzz"]}}}`,
		},
		{
			typ:   "{x: int64; y: 0, int8}",
			value: `[-9223372036854775808, []]`,
			want:  `{"x": -9223372036854775808, "y": []}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			a := Empty(mustParse(t, tt.typ))
			require.NoError(t, a.Assign(lit(t, tt.value)))
			got, err := a.ToLiteral()
			require.NoError(t, err)
			assert.True(t, literal.AreEqual(lit(t, tt.want), got), "got %s", got)
		})
	}
}

func TestProjectionCommutesWithAssignment(t *testing.T) {
	value := lit(t, `[
		{"id": 1, "points": [{"p": [1, 2], "label": "a"}], "meta": {"ok": true}},
		{"id": 2, "points": [{"p": [3, 4], "label": "b"}, {"p": [5, 6], "label": "c"}], "meta": {"ok": false}}
	]`)
	a := Empty(mustParse(t, "2, {id: int32; points: Var, {p: 2, int64; label: string}; meta: {ok: bool}}"))
	require.NoError(t, a.Assign(value))

	project := func(v literal.Value, path ...interface{}) literal.Value {
		for _, p := range path {
			switch p := p.(type) {
			case int:
				v = v.(literal.Tuple)[p]
			case string:
				v = v.(literal.Object)[p]
			}
		}
		return v
	}

	tests := []struct {
		path []interface{}
	}{
		{path: []interface{}{0}},
		{path: []interface{}{1, "id"}},
		{path: []interface{}{1, "points"}},
		{path: []interface{}{1, "points", 1}},
		{path: []interface{}{1, "points", 1, "p"}},
		{path: []interface{}{1, "points", 1, "p", 0}},
		{path: []interface{}{0, "meta", "ok"}},
	}
	for _, tt := range tests {
		view := a
		for _, p := range tt.path {
			var err error
			switch p := p.(type) {
			case int:
				view, err = view.Index(p)
			case string:
				view, err = view.Field(p)
			}
			require.NoError(t, err)
		}
		got, err := view.ToLiteral()
		require.NoError(t, err)
		want := project(value, tt.path...)
		assert.True(t, literal.AreEqual(want, got), "path %v: got %s, want %s", tt.path, got, want)
	}

	labels, err := a.FieldPath("points.label")
	require.NoError(t, err)
	got, err := labels.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, `[['a'], ['b', 'c']]`, got.String())
}

func TestViewsAliasStorage(t *testing.T) {
	a := Empty(mustParse(t, "2, Var, {count: int32; size: string(1)}"))
	require.NoError(t, a.Assign(lit(t, `[[[1, "a"]], [[2, "b"], [3, "c"]]]`)))

	counts, err := a.Field("count")
	require.NoError(t, err)
	assert.Equal(t, "2, Var, int32", counts.DType().String())
	require.NoError(t, counts.Assign(lit(t, `[[7], [8, 9]]`)))
	assertField(t, a, "count", `[[7], [8, 9]]`)
	assertField(t, a, "size", `[["a"], ["b", "c"]]`)

	row, err := a.Index(1)
	require.NoError(t, err)
	require.NoError(t, row.Assign(lit(t, `[[4, "x"], [5, "y"], [6, "z"]]`)))
	// The count view sees the reallocated row.
	assert.Equal(t, "[[7], [4, 5, 6]]", fieldLiteral(t, a, "count").String())

	last, err := counts.Index(1)
	require.NoError(t, err)
	element, err := last.Index(-1)
	require.NoError(t, err)
	require.NoError(t, element.Assign(literal.MakeInt(60)))
	assert.Equal(t, "[[7], [4, 5, 60]]", fieldLiteral(t, a, "count").String())

	// Shrink the row under the element view, which now points past the end.
	require.NoError(t, row.Assign(lit(t, `[[1, "q"], [2, "r"]]`)))
	_, err = element.ToLiteral()
	assert.NoError(t, err, "negative indices are resolved on access")
	third, err := last.Index(1)
	require.NoError(t, err)
	require.NoError(t, row.Assign(lit(t, `[]`)))
	_, err = third.ToLiteral()
	assert.Equal(t, ErrIndexOutOfRange, errors.Cause(err))
}

func TestFieldViewCantResizeRows(t *testing.T) {
	a := Empty(mustParse(t, `2, Var, {count: int32; size: string(1, "A")}`))
	require.NoError(t, a.Assign(lit(t, `[[[3, "X"]], [[10, "L"], [12, "M"]]]`)))
	before, err := a.ToLiteral()
	require.NoError(t, err)

	counts, err := a.Field("count")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{name: "grow both rows", value: `[[1, 2, 3], [4, 5, 6]]`},
		{name: "grow one row", value: `[[1], [4, 5, 6]]`},
		{name: "shrink to empty", value: `[[], [4, 5]]`},
		{name: "broadcast longer row", value: `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := counts.Assign(lit(t, tt.value))
			assert.Equal(t, ErrDimensionMismatch, errors.Cause(err), "error: %v", err)
			after, err := a.ToLiteral()
			require.NoError(t, err)
			assert.True(t, literal.AreEqual(before, after), "got %s, want %s", after, before)
		})
	}

	// Writes that keep the row lengths still go through.
	require.NoError(t, counts.Assign(lit(t, `[[5], [6]]`)))
	assertField(t, a, "count", `[[5], [6, 6]]`)
	assertField(t, a, "size", `[["X"], ["L", "M"]]`)

	nested := Empty(mustParse(t, "Var, {inner: Var, {a: int8; b: string(2, \"-\")}}"))
	require.NoError(t, nested.Assign(lit(t, `[{"inner": [[1, "p"], [2, "q"]]}]`)))
	inner, err := nested.FieldPath("inner.a")
	require.NoError(t, err)
	err = inner.Assign(lit(t, `[[7, 8, 9]]`))
	assert.Equal(t, ErrDimensionMismatch, errors.Cause(err))
	err = inner.Assign(lit(t, `[[7, 8], [9, 10]]`))
	assert.Equal(t, ErrDimensionMismatch, errors.Cause(err))
	assertField(t, nested, "inner.b", `[["p-", "q-"]]`)

	// A field that is itself a row belongs to the struct, so it can be resized.
	tags := Empty(mustParse(t, "{id: int8; tags: Var, int16}"))
	require.NoError(t, tags.Assign(lit(t, `[1, [2, 3]]`)))
	view, err := tags.Field("tags")
	require.NoError(t, err)
	require.NoError(t, view.Assign(lit(t, `[4, 5, 6]`)))
	assertField(t, tags, "id", `1`)
	assertField(t, tags, "tags", `[4, 5, 6]`)
}

func TestViewErrors(t *testing.T) {
	a := Empty(mustParse(t, "3, {x: int32}"))

	_, err := a.Field("y")
	assert.Equal(t, ErrFieldNotFound, errors.Cause(err))

	x, err := a.Field("x")
	require.NoError(t, err)
	_, err = x.Field("x")
	assert.Equal(t, ErrFieldNotFound, errors.Cause(err))

	_, err = a.Index(3)
	assert.Equal(t, ErrIndexOutOfRange, errors.Cause(err))

	first, err := x.Index(0)
	require.NoError(t, err)
	_, err = first.Index(0)
	assert.Equal(t, ErrNotIndexable, errors.Cause(err))

	readOnly := a.ReadOnly()
	assert.True(t, readOnly.IsReadOnly())
	assert.Equal(t, ErrReadOnly, readOnly.Assign(literal.MakeInt(1)))
	xs, err := readOnly.Field("x")
	require.NoError(t, err)
	assert.Equal(t, ErrReadOnly, xs.Assign(literal.MakeInt(1)))
	assert.Equal(t, a.StorageID(), xs.StorageID())
}

func TestShape(t *testing.T) {
	a, err := Allocate(mustParse(t, "Var, {v: 2, Var, int8}"), 3)
	require.NoError(t, err)
	assert.Equal(t, "3, Var, {v: 2, Var, int8}", a.DType().String())
	shape, err := a.Shape()
	require.NoError(t, err)
	assert.Equal(t, []int{3, -1}, shape)

	require.NoError(t, a.Assign(lit(t, `[[], [{"v": [[1], [2, 3]]}], []]`)))
	row, err := a.Index(1)
	require.NoError(t, err)
	shape, err = row.Shape()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, shape)

	v, err := row.Field("v")
	require.NoError(t, err)
	shape, err = v.Shape()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, -1}, shape)

	_, err = Allocate(dtype.Int8, 2, -1)
	assert.Error(t, err)
}

func TestAssignFrom(t *testing.T) {
	a := Empty(mustParse(t, "{name: string(8); scores: Var, float32; pos: complex128}"))
	require.NoError(t, a.AssignFrom(map[string]interface{}{
		"name":   "octo",
		"scores": []interface{}{1, float32(0.5)},
		"pos":    []interface{}{complex(1, -1)},
	}))
	got, err := a.ToLiteral()
	require.NoError(t, err)
	assert.Equal(t, `{'name': 'octo', 'pos': (1-1j), 'scores': [1.0, 0.5]}`, got.String())

	assert.Error(t, a.AssignFrom(struct{}{}))
}
