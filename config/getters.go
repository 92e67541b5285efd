package config

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("field not found")

type Option func(options *options)

type options struct {
	withDefault  bool
	defaultValue interface{}
}

func getOptions(opts ...Option) *options {
	defaultOptions := &options{}
	for _, opt := range opts {
		opt(defaultOptions)
	}
	return defaultOptions
}

// WithDefault makes a getter return value instead of ErrNotFound when the
// field, or any map on the way to it, is missing.
func WithDefault(value interface{}) Option {
	return func(options *options) {
		options.withDefault = true
		options.defaultValue = value
	}
}

// GetInterface gets the given potentially nested field, e.g. "table.colWidth",
// irrelevant of its type.
func GetInterface(config map[string]interface{}, field string, opts ...Option) (interface{}, error) {
	options := getOptions(opts...)
	out, err := getInterface(config, field)
	if options.withDefault && errors.Cause(err) == ErrNotFound {
		return options.defaultValue, nil
	}
	return out, err
}

func getInterface(config map[string]interface{}, field string) (interface{}, error) {
	i := strings.Index(field, ".")
	if i == -1 {
		element, ok := config[field]
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "no %s", field)
		}
		return element, nil
	}

	element, ok := config[field[:i]]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "no %s", field[:i])
	}
	submap, ok := element.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("%v should be a map, got: %v", field[:i], reflect.TypeOf(element))
	}

	out, err := getInterface(submap, field[i+1:])
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", field[:i])
	}
	return out, nil
}

// GetMap gets a sub-map from the given field.
func GetMap(config map[string]interface{}, field string, opts ...Option) (map[string]interface{}, error) {
	out, err := GetInterface(config, field, opts...)
	if err != nil {
		return nil, err
	}

	outMap, ok := out.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("expected map at %s, got %v", field, reflect.TypeOf(out))
	}
	return outMap, nil
}

// GetString gets a string from the given field.
func GetString(config map[string]interface{}, field string, opts ...Option) (string, error) {
	out, err := GetInterface(config, field, opts...)
	if err != nil {
		return "", err
	}

	outString, ok := out.(string)
	if !ok {
		return "", errors.Errorf("expected string at %s, got %v", field, reflect.TypeOf(out))
	}
	return outString, nil
}

// GetInt gets an int from the given field.
func GetInt(config map[string]interface{}, field string, opts ...Option) (int, error) {
	out, err := GetInterface(config, field, opts...)
	if err != nil {
		return 0, err
	}

	outInt, ok := out.(int)
	if !ok {
		return 0, errors.Errorf("expected int at %s, got %v", field, reflect.TypeOf(out))
	}
	return outInt, nil
}

// GetBool gets a bool from the given field.
func GetBool(config map[string]interface{}, field string, opts ...Option) (bool, error) {
	out, err := GetInterface(config, field, opts...)
	if err != nil {
		return false, err
	}

	outBool, ok := out.(bool)
	if !ok {
		return false, errors.Errorf("expected bool at %s, got %v", field, reflect.TypeOf(out))
	}
	return outBool, nil
}
