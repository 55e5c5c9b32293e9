package pattern

import (
	"fmt"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

// Compiled is the result of compiling a pattern source: the
// type-stripped matching pattern and the ordered binding records.
//
// The matching pattern degrades every Binding node to a wildcard; a
// binding never constrains structure, only captures it. Bindings are
// listed in pattern pre-order (depth-first, array positions ascending,
// object fields in declaration order); extraction reuses the same
// order, so results are deterministic for a given source.
type Compiled struct {
	Match    *models.Pattern
	Bindings []models.BindingRecord
}

// Compile parses and compiles a pattern source string. Compiling the
// same source twice yields structurally identical results.
func Compile(src string) (*Compiled, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return CompileTree(tree)
}

// CompileTree compiles an already-parsed pattern tree.
func CompileTree(tree *models.Pattern) (*Compiled, error) {
	c := &compiler{seen: make(map[string]bool)}
	match := c.walk(tree, nil)
	if c.err != nil {
		return nil, c.err
	}
	return &Compiled{Match: match, Bindings: c.bindings}, nil
}

type compiler struct {
	bindings []models.BindingRecord
	seen     map[string]bool
	err      error
}

// walk strips binding annotations and records extraction paths in one
// pre-order pass. path holds the descent steps from the root to the
// current node; each recorded binding copies it.
func (c *compiler) walk(pat *models.Pattern, path []models.PathStep) *models.Pattern {
	if c.err != nil {
		return nil
	}

	switch pat.Kind {
	case models.Any, models.Integer, models.String:
		return pat

	case models.Binding:
		if c.seen[pat.Name] {
			c.err = errors.NewBindingError(
				fmt.Sprintf("binding %q declared twice", pat.Name),
				errors.ErrDuplicateBinding,
			)
			return nil
		}
		c.seen[pat.Name] = true
		c.bindings = append(c.bindings, models.BindingRecord{
			Name: pat.Name,
			Path: append([]models.PathStep(nil), path...),
			Type: pat.Type,
		})
		return &models.Pattern{Kind: models.Any}

	case models.Array:
		elems := make([]*models.Pattern, len(pat.Elems))
		for i, elem := range pat.Elems {
			elems[i] = c.walk(elem, append(path, models.IndexStep(i)))
		}
		return &models.Pattern{Kind: models.Array, Elems: elems}

	case models.Object:
		fields := make([]models.PatternField, len(pat.Fields))
		for i, field := range pat.Fields {
			fields[i] = models.PatternField{
				Name: field.Name,
				Pat:  c.walk(field.Pat, append(path, models.FieldStep(field.Name))),
			}
		}
		return &models.Pattern{Kind: models.Object, Fields: fields}

	default:
		c.err = errors.NewBindingError(
			fmt.Sprintf("unknown pattern kind %v", pat.Kind), nil)
		return nil
	}
}
