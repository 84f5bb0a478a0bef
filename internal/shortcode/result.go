package shortcode

import "fmt"

// Code classifies a validation failure.
type Code string

const (
	CodeShapeMismatch    Code = "shape_mismatch"
	CodeCountMismatch    Code = "count_mismatch"
	CodeAttributeMissing Code = "attribute_missing"
	CodeUnknown          Code = "unknown_shortcode"
	CodeSyntax           Code = "syntax_error"
)

// Result is the outcome of resolving a shortcode: either Success or
// *Failure, never both.
type Result interface {
	isResult()
}

// Success carries the widget payload of a valid shortcode.
type Success struct {
	Widget Widget
}

func (Success) isResult() {}

// Failure describes why a shortcode could not be rendered. It is shown to
// the author verbatim, so Reason and Detail must be specific.
type Failure struct {
	Shortcode string
	Code      Code
	Reason    string
	Detail    map[string]any
	Raw       string
	Line      int
}

func (*Failure) isResult() {}

func (f *Failure) Error() string {
	if f.Shortcode == "" {
		return fmt.Sprintf("%s (%s)", f.Reason, f.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", f.Shortcode, f.Reason, f.Code)
}

// Payload returns the structured form of the failure used by diagnostics.
func (f *Failure) Payload() map[string]any {
	p := map[string]any{
		"message": f.Reason,
		"code":    string(f.Code),
	}
	if f.Shortcode != "" {
		p["component"] = f.Shortcode
	}
	if f.Line > 0 {
		p["line"] = f.Line
	}
	for k, v := range f.Detail {
		if _, taken := p[k]; !taken {
			p[k] = v
		}
	}
	return p
}

func fail(c Call, code Code, reason string, detail map[string]any) *Failure {
	return &Failure{
		Shortcode: c.Name,
		Code:      code,
		Reason:    reason,
		Detail:    detail,
		Raw:       c.Raw,
		Line:      c.Line,
	}
}
