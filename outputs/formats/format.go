package formats

import (
	"fmt"
	"io"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
)

// Formatter prints array contents read back as literals.
type Formatter interface {
	SetSchema(t dtype.Type)
	Write(value literal.Value) error
	Close() error
}

var Formats = map[string]func(w io.Writer) Formatter{
	"literal": func(w io.Writer) Formatter { return NewLiteralFormatter(w) },
	"json":    func(w io.Writer) Formatter { return NewJSONFormatter(w) },
	"table":   func(w io.Writer) Formatter { return NewTableFormatter(w) },
}

func New(name string, w io.Writer) (Formatter, error) {
	constructor, ok := Formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format '%s', expected one of literal, json, table", name)
	}
	return constructor(w), nil
}

type LiteralFormatter struct {
	w io.Writer
}

func NewLiteralFormatter(w io.Writer) *LiteralFormatter {
	return &LiteralFormatter{w: w}
}

func (f *LiteralFormatter) SetSchema(t dtype.Type) {}

func (f *LiteralFormatter) Write(value literal.Value) error {
	_, err := fmt.Fprintln(f.w, value.String())
	return err
}

func (f *LiteralFormatter) Close() error {
	return nil
}

type JSONFormatter struct {
	buf []byte
	w   io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		buf: make([]byte, 0, 1024),
		w:   w,
	}
}

func (f *JSONFormatter) SetSchema(t dtype.Type) {}

func (f *JSONFormatter) Write(value literal.Value) error {
	f.buf = literal.AppendJSON(f.buf, value)
	f.buf = append(f.buf, '\n')
	_, err := f.w.Write(f.buf)
	f.buf = f.buf[:0]
	return err
}

func (f *JSONFormatter) Close() error {
	return nil
}
