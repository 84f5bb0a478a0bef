package shortcode

import "fmt"

// Call is one shortcode occurrence with its body already parsed into nodes.
type Call struct {
	Name  string
	Attrs map[string]any
	Body  []*Node
	Raw   string
	Line  int
}

// Resolver validates calls against the schema registry.
type Resolver struct {
	lookup func(string) (*Schema, bool)
}

// NewResolver returns a Resolver backed by the process-wide registry.
func NewResolver() *Resolver {
	return &Resolver{lookup: Lookup}
}

// NewResolverWith returns a Resolver that only knows the given schemas.
func NewResolverWith(schemas ...*Schema) *Resolver {
	m := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		m[s.Name] = s
	}
	return &Resolver{lookup: func(name string) (*Schema, bool) {
		s, ok := m[name]
		return s, ok
	}}
}

// Resolve validates c and projects it into its widget payload. Validation
// runs in a fixed order: body shape, attributes, then the agreement between
// the paired label list and the number of body sections.
func (r *Resolver) Resolve(c Call) Result {
	s, ok := r.lookup(c.Name)
	if !ok {
		return fail(c, CodeUnknown, "Unknown shortcode", map[string]any{"name": c.Name})
	}

	if err := MatchBody(c.Body, s.Body); err != nil {
		return fail(c, CodeShapeMismatch, s.Invalid, map[string]any{"error": err.Detail()})
	}

	values, f := r.values(c, s)
	if f != nil {
		return f
	}

	if s.Paired != "" {
		labels := values.List(s.Paired)
		if len(labels) != len(c.Body) {
			return fail(c, CodeCountMismatch, s.Mismatch, map[string]any{
				"sectionCount": len(c.Body),
				"labelCount":   len(labels),
				"attribute":    s.Paired,
			})
		}
	}

	w, f := s.Project(c, values)
	if f != nil {
		return f
	}
	return Success{Widget: w}
}

func (r *Resolver) values(c Call, s *Schema) (Values, *Failure) {
	values := make(Values, len(s.Attrs))
	for _, rule := range s.Attrs {
		raw, present := c.Attrs[rule.Name]
		if !present || isEmpty(raw) {
			if rule.Required {
				return nil, fail(c, CodeAttributeMissing, rule.Missing, map[string]any{"attribute": rule.Name})
			}
			continue
		}

		v, err := coerce(raw, rule.Kind)
		if err != nil {
			return nil, fail(c, CodeShapeMismatch, "Invalid attribute", map[string]any{
				"attribute": rule.Name,
				"expected":  rule.Kind.String(),
				"error":     err.Error(),
			})
		}

		if rule.Count != nil {
			if n := listLen(v); !rule.Count.Allows(n) {
				return nil, fail(c, CodeCountMismatch, rule.CountReason, map[string]any{
					"attribute": rule.Name,
					"expected":  fmt.Sprintf("%s items", rule.Count),
					"got":       n,
				})
			}
		}
		values[rule.Name] = v
	}
	return values, nil
}

func listLen(v any) int {
	switch x := v.(type) {
	case []string:
		return len(x)
	case [][]string:
		return len(x)
	default:
		return 1
	}
}
