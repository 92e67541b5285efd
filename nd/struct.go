package nd

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/ndarray/literal"
)

// assignStruct fills every field of the struct at c, either positionally from
// a sequence or by name from a mapping. Partial assignment isn't allowed: the
// sequence length or the key set must match the declared fields exactly.
func assignStruct(c cursor, v literal.Value) error {
	fields := c.phys.Struct.Fields

	switch v := v.(type) {
	case literal.Tuple:
		if len(v) != len(fields) {
			return errors.Wrapf(ErrStructArity, "struct %s has %d fields, got a sequence of length %d", c.phys, len(fields), len(v))
		}
		for i := range fields {
			if err := assign(c.field(i), v[i]); err != nil {
				return errors.Wrapf(err, "field %s", fields[i].Name)
			}
		}
		return nil

	case literal.Object:
		var missing []string
		for i := range fields {
			if _, ok := v[fields[i].Name]; !ok {
				missing = append(missing, fields[i].Name)
			}
		}
		if len(missing) > 0 {
			return errors.Wrapf(ErrMissingField, "struct %s requires %s", c.phys, strings.Join(missing, ", "))
		}
		if len(v) != len(fields) {
			var unexpected []string
			for key := range v {
				if c.phys.FieldIndex(key) == -1 {
					unexpected = append(unexpected, key)
				}
			}
			sort.Strings(unexpected)
			return errors.Wrapf(ErrUnexpectedField, "struct %s has no %s", c.phys, strings.Join(unexpected, ", "))
		}
		for i := range fields {
			if err := assign(c.field(i), v[fields[i].Name]); err != nil {
				return errors.Wrapf(err, "field %s", fields[i].Name)
			}
		}
		return nil
	}

	return errors.Wrapf(ErrConversion, "can't assign %s %s to struct %s", literal.TypeName(v), v, c.phys)
}
