// Package generator scaffolds a pattern expression from a sample JSON
// body: literals for stable scalars, wildcards where the grammar has no
// literal form, and bindings for fields whose values look
// environment-dependent (uuids, timestamps). The output is a starting
// point for a test assertion, meant to be edited, and always matches
// the body it was scaffolded from.
package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/restmatch/internal/config"
	"github.com/mcncl/restmatch/internal/models"
)

// Detectors for values that change between runs and should become
// bindings rather than literals.
var (
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	rfc3339Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)
	dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Generator scaffolds pattern source from sample values
type Generator struct {
	cfg *config.Config
	// bindingNames tracks emitted binding identifiers to avoid collisions
	bindingNames map[string]int
}

// NewGenerator creates a new Generator instance
func NewGenerator(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{
		cfg:          cfg,
		bindingNames: make(map[string]int),
	}
}

// Scaffold emits pattern source matching the given value exactly.
func (g *Generator) Scaffold(value models.JSONValue) (string, error) {
	var buf bytes.Buffer
	if err := g.writePattern(&buf, value, "", 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writePattern emits the pattern node for one value. fieldName is the
// enclosing object field, empty at the root and inside arrays; it
// seeds binding identifiers.
func (g *Generator) writePattern(buf *bytes.Buffer, value models.JSONValue, fieldName string, depth int) error {
	switch v := value.(type) {
	case nil, bool:
		// The grammar has no null or boolean literals; a wildcard
		// still pins the field down through object exhaustiveness.
		buf.WriteString("_")
		return nil

	case json.Number:
		if _, err := v.Int64(); err == nil {
			buf.WriteString(v.String())
			return nil
		}
		// No float literal in the grammar.
		buf.WriteString("_")
		return nil

	case string:
		if g.cfg.Scaffold.BindVolatile && isVolatile(v) {
			fmt.Fprintf(buf, "%s as string", g.bindingName(fieldName))
			return nil
		}
		literal, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode string literal: %w", err)
		}
		buf.Write(literal)
		return nil

	case models.JSONArray:
		if len(v) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[")
		for i, elem := range v {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := g.writePattern(buf, elem, "", depth); err != nil {
				return err
			}
		}
		buf.WriteString("]")
		return nil

	case models.JSONObject:
		if len(v) == 0 {
			buf.WriteString("{}")
			return nil
		}

		// Sort keys for deterministic output
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		indent := indentFor(g.cfg.Scaffold.Indent, depth)
		inner := indentFor(g.cfg.Scaffold.Indent, depth+1)

		buf.WriteString("{\n")
		for _, key := range keys {
			buf.WriteString(inner)
			if identRegex.MatchString(key) {
				buf.WriteString(key)
			} else {
				quoted, err := json.Marshal(key)
				if err != nil {
					return fmt.Errorf("failed to encode field name: %w", err)
				}
				buf.Write(quoted)
			}
			buf.WriteString(": ")
			if err := g.writePattern(buf, v[key], key, depth+1); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(indent)
		buf.WriteString("}")
		return nil

	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
}

// bindingName derives a fresh binding identifier from a field name,
// snake_cased; collisions and nameless positions get numeric suffixes.
func (g *Generator) bindingName(fieldName string) string {
	base := strcase.ToSnake(fieldName)
	if base == "" || !identRegex.MatchString(base) || base == "_" || base == "as" {
		base = "value"
	}

	g.bindingNames[base]++
	if g.bindingNames[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, g.bindingNames[base])
}

func isVolatile(s string) bool {
	return uuidRegex.MatchString(s) || rfc3339Regex.MatchString(s) || dateOnlyRegex.MatchString(s)
}

func indentFor(unit string, depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += unit
	}
	return out
}
