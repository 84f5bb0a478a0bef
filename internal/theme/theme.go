// Package theme carries the reader's color scheme through a render pass.
//
// A Context is created when the shell mounts (one per request, or one per
// scheme during a static build), passed explicitly to every renderer that
// needs it and dropped when the page is done.
package theme

import (
	"context"
	"net/http"
	"time"
)

// Scheme is a color scheme.
type Scheme string

const (
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

// CookieName is the cookie that persists the reader's scheme.
const CookieName = "daanotes-scheme"

// ParseScheme converts s to a Scheme.
func ParseScheme(s string) (Scheme, bool) {
	switch Scheme(s) {
	case Light, Dark:
		return Scheme(s), true
	default:
		return "", false
	}
}

// Context is the explicit theme state of one render pass.
type Context struct {
	Scheme Scheme
}

// New returns a Context for scheme, falling back to Light for unknown values.
func New(scheme Scheme) *Context {
	if _, ok := ParseScheme(string(scheme)); !ok {
		scheme = Light
	}
	return &Context{Scheme: scheme}
}

// Toggle flips the scheme and returns the new value.
func (c *Context) Toggle() Scheme {
	if c.Scheme == Dark {
		c.Scheme = Light
	} else {
		c.Scheme = Dark
	}
	return c.Scheme
}

// IsDark reports whether the dark scheme is active.
func (c *Context) IsDark() bool { return c.Scheme == Dark }

// CodeStyle is the chroma style used for highlighted code.
func (c *Context) CodeStyle() string {
	if c.IsDark() {
		return "monokai"
	}
	return "github"
}

// MermaidTheme is the mermaid.js theme matching the scheme.
func (c *Context) MermaidTheme() string {
	if c.IsDark() {
		return "dark"
	}
	return "default"
}

// FromRequest reads the scheme cookie, using def when it is absent or invalid.
func FromRequest(r *http.Request, def Scheme) *Context {
	if ck, err := r.Cookie(CookieName); err == nil {
		if s, ok := ParseScheme(ck.Value); ok {
			return New(s)
		}
	}
	return New(def)
}

// Write persists the scheme in the reader's cookie jar.
func (c *Context) Write(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(c.Scheme),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// WithContext attaches c to ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Context attached to ctx, or a Light one.
func FromContext(ctx context.Context) *Context {
	if c, ok := ctx.Value(ctxKey{}).(*Context); ok {
		return c
	}
	return New(Light)
}

// Middleware mounts a Context for every request from the scheme cookie.
func Middleware(def Scheme) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := FromRequest(r, def)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), c)))
		})
	}
}
