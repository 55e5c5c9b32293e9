// Package pattern implements the pattern grammar: a small expression
// language for declaring the expected shape of a JSON value.
//
// The grammar, informally:
//
//	Pattern  := Integer | StringLit | Wildcard | ArrayPat | ObjectPat | Binding
//	ArrayPat := '[' (Pattern (',' Pattern)*)? ','? ']'
//	ObjectPat:= '{' (Field (',' Field)*)? ','? '}'
//	Field    := (Ident | StringLit) ':' Pattern
//	          | Ident ('as' Type)?              // shorthand binding
//	Binding  := Ident ('as' Type)?
//	Type     := Ident | '[' Ident ']'
//	Wildcard := '_'
//
// Parsing is a pure function from source text to a Pattern tree; the
// binding compiler in compiler.go derives extraction paths from the
// tree afterwards.
package pattern

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	lex *lexer
	tok token
}

// Parse turns a pattern source string into a Pattern tree. The entire
// input must be consumed; trailing tokens are a syntax error.
func Parse(src string) (*models.Pattern, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.NewSyntaxError(0, errors.ErrEmptyPattern.Error())
	}

	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != tokEOF {
		return nil, errors.NewSyntaxError(p.tok.Offset,
			fmt.Sprintf("unexpected %s after pattern", p.describeCurrent()))
	}
	return pat, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.Kind != kind {
		return token{}, errors.NewSyntaxError(p.tok.Offset,
			fmt.Sprintf("expected %s, found %s", kind, p.describeCurrent()))
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) describeCurrent() string {
	if p.tok.Kind == tokEOF {
		return "end of pattern"
	}
	return fmt.Sprintf("%s `%s`", p.tok.Kind, p.tok.Text)
}

func (p *parser) parsePattern() (*models.Pattern, error) {
	switch p.tok.Kind {
	case tokInt:
		return p.parseInteger()
	case tokString:
		return p.parseStringLit()
	case tokLBracket:
		return p.parseArray()
	case tokLBrace:
		return p.parseObject()
	case tokIdent:
		return p.parseIdent()
	default:
		return nil, errors.NewSyntaxError(p.tok.Offset,
			fmt.Sprintf("expected an integer, a string, an identifier, `{` or `[`, found %s", p.describeCurrent()))
	}
}

func (p *parser) parseInteger() (*models.Pattern, error) {
	tok := p.tok
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return nil, errors.NewSyntaxError(tok.Offset,
			fmt.Sprintf("integer literal %s out of range", tok.Text))
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &models.Pattern{Kind: models.Integer, Int: n}, nil
}

func (p *parser) parseStringLit() (*models.Pattern, error) {
	s, err := p.decodeString()
	if err != nil {
		return nil, err
	}
	return &models.Pattern{Kind: models.String, Str: s}, nil
}

// decodeString consumes the current string token and decodes its
// escapes. String tokens use JSON escape syntax, so encoding/json does
// the decoding.
func (p *parser) decodeString() (string, error) {
	tok := p.tok
	var s string
	if err := json.Unmarshal([]byte(tok.Text), &s); err != nil {
		return "", errors.NewSyntaxError(tok.Offset,
			fmt.Sprintf("invalid string literal %s", tok.Text))
	}
	if err := p.advance(); err != nil {
		return "", err
	}
	return s, nil
}

func (p *parser) parseArray() (*models.Pattern, error) {
	if _, err := p.expect(tokLBracket); err != nil {
		return nil, err
	}

	elems := make([]*models.Pattern, 0)
	for p.tok.Kind != tokRBracket {
		elem, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		if p.tok.Kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return &models.Pattern{Kind: models.Array, Elems: elems}, nil
}

func (p *parser) parseObject() (*models.Pattern, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	fields := make([]models.PatternField, 0)
	seen := make(map[string]bool)
	for p.tok.Kind != tokRBrace {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		if seen[field.Name] {
			return nil, errors.NewSyntaxError(p.tok.Offset,
				fmt.Sprintf("field %q appears more than once in object pattern", field.Name))
		}
		seen[field.Name] = true
		fields = append(fields, field)

		if p.tok.Kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &models.Pattern{Kind: models.Object, Fields: fields}, nil
}

// parseField parses one object field. `name: pattern` is the general
// form; a bare identifier is shorthand for binding the field's value
// under the field's name, optionally with an `as` annotation.
func (p *parser) parseField() (models.PatternField, error) {
	switch p.tok.Kind {
	case tokString:
		// Quoted field names always take the `name: pattern` form.
		name, err := p.decodeString()
		if err != nil {
			return models.PatternField{}, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return models.PatternField{}, err
		}
		pat, err := p.parsePattern()
		if err != nil {
			return models.PatternField{}, err
		}
		return models.PatternField{Name: name, Pat: pat}, nil

	case tokIdent:
		nameTok := p.tok
		if err := p.advance(); err != nil {
			return models.PatternField{}, err
		}

		if p.tok.Kind == tokColon {
			if err := p.advance(); err != nil {
				return models.PatternField{}, err
			}
			pat, err := p.parsePattern()
			if err != nil {
				return models.PatternField{}, err
			}
			return models.PatternField{Name: nameTok.Text, Pat: pat}, nil
		}

		// Shorthand. `_` makes no sense here: there is no field name
		// to bind under.
		if nameTok.Text == "_" {
			return models.PatternField{}, errors.NewSyntaxError(nameTok.Offset,
				"`_` cannot be used as a field name; use `name: _` to ignore a field")
		}
		ty, err := p.parseOptionalType()
		if err != nil {
			return models.PatternField{}, err
		}
		bind := &models.Pattern{Kind: models.Binding, Name: nameTok.Text, Type: ty}
		return models.PatternField{Name: nameTok.Text, Pat: bind}, nil

	default:
		return models.PatternField{}, errors.NewSyntaxError(p.tok.Offset,
			fmt.Sprintf("expected a field name, found %s", p.describeCurrent()))
	}
}

// parseIdent handles the wildcard and bindings.
func (p *parser) parseIdent() (*models.Pattern, error) {
	tok := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}

	if tok.Text == "_" {
		return &models.Pattern{Kind: models.Any}, nil
	}
	if tok.Text == "as" {
		return nil, errors.NewSyntaxError(tok.Offset, "`as` is a keyword and cannot be used as a binding name")
	}

	ty, err := p.parseOptionalType()
	if err != nil {
		return nil, err
	}
	return &models.Pattern{Kind: models.Binding, Name: tok.Text, Type: ty}, nil
}

// parseOptionalType parses an `as Type` annotation if one follows.
func (p *parser) parseOptionalType() (models.BindingType, error) {
	if p.tok.Kind != tokIdent || p.tok.Text != "as" {
		return models.BindingType{Kind: models.TypeNone}, nil
	}
	if err := p.advance(); err != nil {
		return models.BindingType{}, err
	}

	isArray := false
	if p.tok.Kind == tokLBracket {
		isArray = true
		if err := p.advance(); err != nil {
			return models.BindingType{}, err
		}
	}

	tok, err := p.expect(tokIdent)
	if err != nil {
		return models.BindingType{}, err
	}
	kind, ok := scalarTypes[tok.Text]
	if !ok {
		return models.BindingType{}, errors.NewSyntaxError(tok.Offset,
			fmt.Sprintf("unknown binding type %q, expected one of string, int, float, bool", tok.Text))
	}

	if isArray {
		if _, err := p.expect(tokRBracket); err != nil {
			return models.BindingType{}, err
		}
	}
	return models.BindingType{Kind: kind, IsArray: isArray}, nil
}

var scalarTypes = map[string]models.BindingTypeKind{
	"string": models.TypeString,
	"int":    models.TypeInt,
	"float":  models.TypeFloat,
	"bool":   models.TypeBool,
}
