package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olguin/portfolio/internal/shared"
)

func TestParseAndToggle(t *testing.T) {
	got, ok := Parse(" Light ")
	assert.True(t, ok)
	assert.Equal(t, Light, got)

	_, ok = Parse("sepia")
	assert.False(t, ok)

	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
	assert.Equal(t, Dark, Light.Toggle().Toggle().Toggle())
}

func TestResolvePrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Dark, Resolve(nil, req), "default is dark")

	req.Header.Set(HintHeader, `"light"`)
	assert.Equal(t, Light, Resolve(nil, req), "client hint beats default")

	sess := &shared.Session{ID: "s"}
	Store(sess, Dark)
	assert.Equal(t, Dark, Resolve(sess, req), "stored preference beats client hint")

	sess.Set(SessionKey, "bogus")
	assert.Equal(t, Light, Resolve(sess, req))
}

func TestMiddleware(t *testing.T) {
	var seen Theme
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	sess := &shared.Session{ID: "s"}
	Store(sess, Light)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, Light, seen)
	assert.Equal(t, HintHeader, res.Header().Get("Accept-CH"))
	assert.Equal(t, Default, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
