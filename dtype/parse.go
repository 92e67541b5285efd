package dtype

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ParseError describes a malformed type spec.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't parse type %q at position %d: %s", e.Input, e.Pos, e.Msg)
}

type ParseOption func(options *parseOptions)

type parseOptions struct {
	aliases map[string]Type
}

// WithAliases makes the given names usable wherever a type is expected.
// Built-in names take precedence over aliases.
func WithAliases(aliases map[string]Type) ParseOption {
	return func(options *parseOptions) {
		if options.aliases == nil {
			options.aliases = make(map[string]Type, len(aliases))
		}
		for name, t := range aliases {
			options.aliases[name] = t
		}
	}
}

// Parse reads a type spec, e.g.
//
//	2, Var, {count: int32; size: string(1, "A")}
func Parse(text string, opts ...ParseOption) (Type, error) {
	options := &parseOptions{}
	for _, opt := range opts {
		opt(options)
	}

	tokens, err := tokenize(text)
	if err != nil {
		return Type{}, err
	}

	p := &parser{
		input:   text,
		tokens:  tokens,
		options: options,
	}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if tok := p.peek(); tok.typ != tokenEOF {
		return Type{}, p.errorf(tok, "unexpected %s after type", tok)
	}
	return t, nil
}

type parser struct {
	input   string
	tokens  []token
	pos     int
	options *parseOptions
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) match(typ tokenType) bool {
	if p.peek().typ == typ {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(typ tokenType) (token, error) {
	tok := p.peek()
	if tok.typ != typ {
		return tok, p.errorf(tok, "expected %s, got %s", typ, tok)
	}
	return p.advance(), nil
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &ParseError{Input: p.input, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseType() (Type, error) {
	tok := p.peek()
	switch tok.typ {
	case tokenMinus:
		p.advance()
		if p.peek().typ == tokenInt {
			return Type{}, p.errorf(tok, "dimension extent must be non-negative")
		}
		return Type{}, p.errorf(tok, "unexpected %s", tok)

	case tokenInt:
		p.advance()
		extent, err := strconv.Atoi(tok.value)
		if err != nil {
			return Type{}, p.errorf(tok, "invalid dimension extent: %s", err)
		}
		if _, err := p.expect(tokenComma); err != nil {
			return Type{}, err
		}
		element, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		t, err := NewFixedDim(extent, element)
		if err != nil {
			return Type{}, p.errorf(tok, "%s", err)
		}
		return t, nil

	case tokenLBrace:
		return p.parseStruct()

	case tokenIdent:
		p.advance()
		switch tok.value {
		case "Var":
			if _, err := p.expect(tokenComma); err != nil {
				return Type{}, err
			}
			element, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			return NewVarDim(element), nil
		case "string":
			if p.peek().typ != tokenLParen {
				return String, nil
			}
			return p.parseFixedString()
		}
		if t, ok := primitiveNames[tok.value]; ok {
			return t, nil
		}
		if t, ok := p.options.aliases[tok.value]; ok {
			return t, nil
		}
		return Type{}, p.errorf(tok, "unknown type name '%s'", tok.value)

	case tokenRBrace:
		return Type{}, p.errorf(tok, "unbalanced '}'")
	case tokenEOF:
		return Type{}, p.errorf(tok, "expected type, got end of input")
	}
	return Type{}, p.errorf(tok, "expected type, got %s", tok)
}

func (p *parser) parseFixedString() (Type, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return Type{}, err
	}
	if minus := p.peek(); minus.typ == tokenMinus {
		return Type{}, p.errorf(minus, "string width must be non-negative")
	}
	widthTok, err := p.expect(tokenInt)
	if err != nil {
		return Type{}, err
	}
	width, err := strconv.Atoi(widthTok.value)
	if err != nil {
		return Type{}, p.errorf(widthTok, "invalid string width: %s", err)
	}
	pad := rune(0)
	if p.match(tokenComma) {
		padTok, err := p.expect(tokenString)
		if err != nil {
			return Type{}, err
		}
		if utf8.RuneCountInString(padTok.value) != 1 {
			return Type{}, p.errorf(padTok, "string pad must be a single character, got %q", padTok.value)
		}
		pad, _ = utf8.DecodeRuneInString(padTok.value)
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return Type{}, err
	}
	t, err := NewFixedString(width, pad)
	if err != nil {
		return Type{}, p.errorf(widthTok, "%s", err)
	}
	return t, nil
}

func (p *parser) parseStruct() (Type, error) {
	open, err := p.expect(tokenLBrace)
	if err != nil {
		return Type{}, err
	}

	var fields []StructField
	seen := make(map[string]bool)
	for {
		tok := p.peek()
		if tok.typ == tokenRBrace {
			p.advance()
			break
		}
		if tok.typ == tokenEOF {
			return Type{}, p.errorf(open, "unbalanced '{'")
		}

		nameTok, err := p.expect(tokenIdent)
		if err != nil {
			return Type{}, err
		}
		if seen[nameTok.value] {
			return Type{}, p.errorf(nameTok, "duplicate field name '%s'", nameTok.value)
		}
		seen[nameTok.value] = true

		if _, err := p.expect(tokenColon); err != nil {
			return Type{}, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		fields = append(fields, StructField{
			Name: nameTok.value,
			Type: fieldType,
		})

		if p.match(tokenSemicolon) {
			continue
		}
		if next := p.peek(); next.typ != tokenRBrace {
			if next.typ == tokenEOF {
				return Type{}, p.errorf(open, "unbalanced '{'")
			}
			return Type{}, p.errorf(next, "expected ';' or '}', got %s", next)
		}
	}

	t, err := NewStruct(fields...)
	if err != nil {
		return Type{}, p.errorf(open, "%s", err)
	}
	return t, nil
}
