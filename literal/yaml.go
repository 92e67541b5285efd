package literal

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const ComplexTag = "!complex"

// ParseYAML decodes a YAML document into a literal.
// Complex numbers are written with a tag, e.g. `!complex 1+2j`.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml")
	}
	return fromYAML(&node)
}

func fromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, errors.New("expected a single yaml document")
		}
		return fromYAML(node.Content[0])

	case yaml.AliasNode:
		return fromYAML(node.Alias)

	case yaml.SequenceNode:
		out := make(Tuple, len(node.Content))
		for i := range node.Content {
			item, err := fromYAML(node.Content[i])
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = item
		}
		return out, nil

	case yaml.MappingNode:
		out := make(Object, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if _, ok := out[key]; ok {
				return nil, errors.Errorf("duplicate key '%s' at line %d", key, node.Content[i].Line)
			}
			item, err := fromYAML(node.Content[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "key '%s'", key)
			}
			out[key] = item
		}
		return out, nil

	case yaml.ScalarNode:
		return scalarFromYAML(node)
	}
	return nil, errors.Errorf("unsupported yaml node kind %v at line %d", node.Kind, node.Line)
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "invalid bool at line %d", node.Line)
		}
		return MakeBool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, errors.Wrapf(err, "invalid int at line %d", node.Line)
		}
		return MakeInt(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "invalid float at line %d", node.Line)
		}
		return MakeFloat(f), nil
	case "!!str":
		return MakeString(node.Value), nil
	case ComplexTag:
		c, err := ParseComplex(node.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", node.Line)
		}
		return MakeComplex(c), nil
	case "!!null":
		return nil, errors.Errorf("null is not a valid literal at line %d", node.Line)
	}
	return nil, errors.Errorf("unsupported yaml tag %s at line %d", node.Tag, node.Line)
}

// ParseComplex accepts both the 1+2i and the 1+2j notations.
func ParseComplex(text string) (complex128, error) {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "j") {
		text = strings.TrimSuffix(text, "j") + "i"
	}
	c, err := strconv.ParseComplex(text, 128)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid complex number '%s'", text)
	}
	return c, nil
}
