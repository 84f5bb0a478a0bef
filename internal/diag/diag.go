// Package diag renders shortcode failures as inline diagnostic blocks.
package diag

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/mohitxskull/daa-notes/internal/highlight"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

// Payloader is implemented by failures that expose a structured form.
type Payloader interface {
	Payload() map[string]any
}

// Renderer turns failures into highlighted JSON blocks and logs them.
type Renderer struct {
	log *slog.Logger
}

// NewRenderer returns a Renderer that reports every failure to log.
// A nil logger uses slog.Default.
func NewRenderer(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{log: log}
}

// Render returns the diagnostic block for v. It accepts any value: a
// Payloader is rendered through its payload, anything else as is. Render
// never panics; values that cannot be encoded fall back to their %+v form.
func (r *Renderer) Render(th *theme.Context, v any) (out template.HTML) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("diag: render panicked", "panic", p)
			out = block("Shortcode error", highlight.Escaped(fmt.Sprintf("%+v", v)))
		}
	}()

	payload := v
	if p, ok := v.(Payloader); ok {
		payload = p.Payload()
	}

	title := "Shortcode error"
	if m, ok := payload.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			title = msg
		}
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		r.log.Warn("diag: payload is not JSON encodable", "error", err)
		text = []byte(fmt.Sprintf("%+v", payload))
	}
	r.log.Warn("shortcode failure", "payload", string(text))

	if th == nil {
		th = theme.New(theme.Light)
	}
	code, err := highlight.HTML(string(text), "json", th.CodeStyle())
	if err != nil {
		code = highlight.Escaped(string(text))
	}
	return block(title, code)
}

func block(title string, code template.HTML) template.HTML {
	return template.HTML(`<div class="mdx-error" role="alert"><p class="mdx-error-title">` +
		template.HTMLEscapeString(title) + `</p>` + string(code) + `</div>`)
}
