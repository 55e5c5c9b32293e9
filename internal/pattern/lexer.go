package pattern

import (
	"fmt"

	"github.com/mcncl/restmatch/internal/errors"
)

// tokenKind enumerates the token types of the pattern grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokString
	tokIdent
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokInvalid
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of pattern"
	case tokInt:
		return "integer"
	case tokString:
		return "string"
	case tokIdent:
		return "identifier"
	case tokLBracket:
		return "`[`"
	case tokRBracket:
		return "`]`"
	case tokLBrace:
		return "`{`"
	case tokRBrace:
		return "`}`"
	case tokComma:
		return "`,`"
	case tokColon:
		return "`:`"
	case tokInvalid:
		return "character"
	default:
		return fmt.Sprintf("tokenKind(%d)", int(k))
	}
}

// token is one lexeme of a pattern source. Text holds the raw lexeme,
// including quotes for string tokens; Offset is the byte position of
// its first character.
type token struct {
	Kind   tokenKind
	Text   string
	Offset int
}

// lexer is a byte-level scanner over a pattern source string.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the next token, skipping whitespace.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos

	if l.pos >= len(l.src) {
		return token{Kind: tokEOF, Offset: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '[':
		l.pos++
		return token{Kind: tokLBracket, Text: "[", Offset: start}, nil
	case c == ']':
		l.pos++
		return token{Kind: tokRBracket, Text: "]", Offset: start}, nil
	case c == '{':
		l.pos++
		return token{Kind: tokLBrace, Text: "{", Offset: start}, nil
	case c == '}':
		l.pos++
		return token{Kind: tokRBrace, Text: "}", Offset: start}, nil
	case c == ',':
		l.pos++
		return token{Kind: tokComma, Text: ",", Offset: start}, nil
	case c == ':':
		l.pos++
		return token{Kind: tokColon, Text: ":", Offset: start}, nil
	case c == '"':
		return l.scanString()
	case c == '-' || isDigit(c):
		return l.scanInt()
	case isIdentStart(c):
		return l.scanIdent()
	default:
		// Not a lexeme of the grammar. Emitting a token instead of
		// failing here lets the parser name the tokens it expected.
		l.pos++
		return token{Kind: tokInvalid, Text: string(c), Offset: start}, nil
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// scanString scans a double-quoted string literal with JSON escape
// syntax. The raw lexeme keeps its quotes; decoding happens in the
// parser via encoding/json.
func (l *lexer) scanString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '"':
			l.pos++
			return token{Kind: tokString, Text: l.src[start:l.pos], Offset: start}, nil
		default:
			l.pos++
		}
	}
	return token{}, errors.NewSyntaxError(start, "unterminated string literal")
}

func (l *lexer) scanInt() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	digits := 0
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		digits++
	}
	if digits == 0 {
		return token{}, errors.NewSyntaxError(start, "expected digits after `-`")
	}
	return token{Kind: tokInt, Text: l.src[start:l.pos], Offset: start}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return token{Kind: tokIdent, Text: l.src[start:l.pos], Offset: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
