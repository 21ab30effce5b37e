// Package theme models the light/dark colour scheme preference.
package theme

import (
	"context"
	"net/http"
	"strings"

	"github.com/olguin/portfolio/internal/shared"
)

// Theme is a colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Default applies when neither the session nor the browser expresses a
	// preference.
	Default = Dark

	// SessionKey is the only preference persisted for a visitor.
	SessionKey = "theme"

	// HintHeader is the client hint carrying the OS colour scheme.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"
)

// Parse returns the theme named by s.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Resolve picks the stored preference, then the browser hint, then Default.
func Resolve(sess *shared.Session, r *http.Request) Theme {
	if sess != nil {
		if t, ok := Parse(sess.Get(SessionKey)); ok {
			return t
		}
	}
	if r != nil {
		if t, ok := Parse(strings.Trim(r.Header.Get(HintHeader), `"`)); ok {
			return t
		}
	}
	return Default
}

// Store records t as the visitor preference.
func Store(sess *shared.Session, t Theme) {
	if sess == nil {
		return
	}
	sess.Set(SessionKey, string(t))
}

type contextKey struct{}

// WithTheme stores the resolved theme in ctx.
func WithTheme(ctx context.Context, t Theme) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the theme resolved for the request, or Default.
func FromContext(ctx context.Context) Theme {
	if t, ok := ctx.Value(contextKey{}).(Theme); ok {
		return t
	}
	return Default
}

// Middleware resolves the theme once per request and asks supporting
// browsers to send the colour scheme hint.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", HintHeader)
		w.Header().Add("Vary", HintHeader)
		t := Resolve(shared.SessionFromContext(r.Context()), r)
		next.ServeHTTP(w, r.WithContext(WithTheme(r.Context(), t)))
	})
}
