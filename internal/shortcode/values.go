package shortcode

import (
	"fmt"
	"strconv"
)

// Values holds the attributes of a call after they were checked against
// the schema's rules and converted to their declared kinds.
type Values map[string]any

// String returns a string attribute.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// List returns a list attribute.
func (v Values) List(name string) []string {
	l, _ := v[name].([]string)
	return l
}

// Matrix returns a list-of-lists attribute.
func (v Values) Matrix(name string) [][]string {
	m, _ := v[name].([][]string)
	return m
}

// Bool returns a boolean attribute.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Int returns an integer attribute, or def when it was not given.
func (v Values) Int(name string, def int) int {
	if i, ok := v[name].(int); ok {
		return i
	}
	return def
}

// isEmpty reports whether a raw attribute value counts as absent.
func isEmpty(raw any) bool {
	switch x := raw.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	default:
		return false
	}
}

// coerce converts a raw decoded attribute value to kind.
func coerce(raw any, kind AttrKind) (any, error) {
	switch kind {
	case AttrString:
		return scalar(raw)
	case AttrBool:
		switch x := raw.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return nil, fmt.Errorf("%q is not a boolean", x)
			}
			return b, nil
		}
		return nil, fmt.Errorf("%v is not a boolean", raw)
	case AttrInt:
		switch x := raw.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case uint64:
			return int(x), nil
		case float64:
			if x == float64(int(x)) {
				return int(x), nil
			}
		case string:
			i, err := strconv.Atoi(x)
			if err == nil {
				return i, nil
			}
		}
		return nil, fmt.Errorf("%v is not an integer", raw)
	case AttrList:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%v is not a list", raw)
		}
		out := make([]string, 0, len(items))
		for i, it := range items {
			s, err := scalar(it)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	case AttrMatrix:
		rows, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%v is not a list of lists", raw)
		}
		out := make([][]string, 0, len(rows))
		for i, r := range rows {
			row, err := coerce(r, AttrList)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, row.([]string))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported attribute kind %d", kind)
}

func scalar(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return x, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(x), nil
	default:
		return "", fmt.Errorf("%v is not a scalar", raw)
	}
}
