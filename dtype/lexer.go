package dtype

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenType uint8

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenInt
	tokenString
	tokenComma
	tokenSemicolon
	tokenColon
	tokenLBrace
	tokenRBrace
	tokenLParen
	tokenRParen
	tokenMinus
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenString:
		return "string literal"
	case tokenComma:
		return "','"
	case tokenSemicolon:
		return "';'"
	case tokenColon:
		return "':'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenMinus:
		return "'-'"
	}
	return "unknown token"
}

type token struct {
	typ   tokenType
	value string
	pos   int
}

func (t token) String() string {
	switch t.typ {
	case tokenIdent, tokenInt:
		return fmt.Sprintf("%s '%s'", t.typ, t.value)
	case tokenString:
		return fmt.Sprintf("%s %s", t.typ, strconv.Quote(t.value))
	}
	return t.typ.String()
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(input) {
		r, width := utf8.DecodeRuneInString(input[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += width
			continue
		case r == '_' || unicode.IsLetter(r):
			start := pos
			for pos < len(input) {
				r, width := utf8.DecodeRuneInString(input[pos:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				pos += width
			}
			tokens = append(tokens, token{typ: tokenIdent, value: input[start:pos], pos: start})
			continue
		case r >= '0' && r <= '9':
			start := pos
			for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
				pos++
			}
			tokens = append(tokens, token{typ: tokenInt, value: input[start:pos], pos: start})
			continue
		case r == '"':
			start := pos
			pos++
			for {
				if pos >= len(input) {
					return nil, &ParseError{Input: input, Pos: start, Msg: "unterminated string literal"}
				}
				if input[pos] == '\\' {
					pos += 2
					continue
				}
				if input[pos] == '"' {
					pos++
					break
				}
				pos++
			}
			value, err := strconv.Unquote(input[start:pos])
			if err != nil {
				return nil, &ParseError{Input: input, Pos: start, Msg: fmt.Sprintf("invalid string literal: %s", err)}
			}
			tokens = append(tokens, token{typ: tokenString, value: value, pos: start})
			continue
		}

		var typ tokenType
		switch r {
		case ',':
			typ = tokenComma
		case ';':
			typ = tokenSemicolon
		case ':':
			typ = tokenColon
		case '{':
			typ = tokenLBrace
		case '}':
			typ = tokenRBrace
		case '(':
			typ = tokenLParen
		case ')':
			typ = tokenRParen
		case '-':
			typ = tokenMinus
		default:
			return nil, &ParseError{Input: input, Pos: pos, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
		tokens = append(tokens, token{typ: typ, value: string(r), pos: pos})
		pos += width
	}
	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}
