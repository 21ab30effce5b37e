package site_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olguin/portfolio/internal/casestudy"
	"github.com/olguin/portfolio/internal/charts"
	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/site"
	"github.com/olguin/portfolio/internal/theme"
	"github.com/olguin/portfolio/internal/view"
	"github.com/olguin/portfolio/jobs"
	_ "github.com/olguin/portfolio/testing"
)

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []jobs.ContactPayload
	err      error
}

func (f *fakeEnqueuer) EnqueueContact(_ context.Context, payload jobs.ContactPayload) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.payloads = append(f.payloads, payload)
	return &asynq.TaskInfo{ID: "task-1", Type: jobs.TaskTypeContactDeliver, Queue: jobs.QueueDefault}, nil
}

type resultLog struct {
	mu      sync.Mutex
	results []string
}

func (l *resultLog) ContactMessage(result string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
}

// harness replays requests through the session, theme and site handlers,
// carrying the session cookie between requests like a browser.
type harness struct {
	sessions *shared.SessionManager
	router   http.Handler
	enqueuer *fakeEnqueuer
	results  *resultLog
	cookie   *http.Cookie
}

func newHarness(t *testing.T, opts site.Options) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog, err := casestudy.DefaultCatalog()
	require.NoError(t, err)
	templates, err := view.NewEngine("Test Site")
	require.NoError(t, err)

	h := &harness{
		sessions: shared.NewSessionManager(client, "test_session", "secret", time.Hour, false),
		enqueuer: &fakeEnqueuer{},
		results:  &resultLog{},
	}
	handler := site.NewHandler(nil, casestudy.NewService(catalog, charts.Renderer{}, nil), templates,
		shared.NewCSRFManager("csrfsecret"), h.enqueuer, h.results, opts)
	handler.WithNow(func() time.Time { return time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC) })

	r := chi.NewRouter()
	r.Use(theme.Middleware)
	handler.MountRoutes(r)
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	sess, err := h.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req.WithContext(ctx))

	committed := httptest.NewRecorder()
	require.NoError(t, h.sessions.Commit(ctx, committed, sess))
	for _, c := range committed.Result().Cookies() {
		if c.Name == h.sessions.CookieName() {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return h.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (h *harness) post(t *testing.T, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return h.do(t, req)
}

func TestHomeAndResumePages(t *testing.T) {
	h := newHarness(t, site.Options{})

	rec := h.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Test Site</title>")
	assert.Contains(t, body, "Meta Ads &amp; Social")
	assert.Contains(t, body, "capability span-2")
	assert.Contains(t, body, "/work/towne-oaks-paid-social")
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Nil(t, h.cookie, "browsing must not create a session")

	rec = h.get(t, "/resume")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Marketing Director")

	rec = h.get(t, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThemeTogglePersistsAcrossRequests(t *testing.T) {
	h := newHarness(t, site.Options{})

	rec := h.get(t, "/theme")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = h.post(t, "/theme/toggle", url.Values{}, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	require.NotNil(t, h.cookie, "toggle must persist a session")

	var got struct{ Theme string }
	rec = h.get(t, "/theme")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "light", got.Theme)
	assert.Contains(t, h.get(t, "/").Body.String(), `data-theme="light"`)

	rec = h.post(t, "/theme/toggle", url.Values{"return_to": {"/work"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/work", rec.Header().Get("Location"))
	rec = h.get(t, "/theme")
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = h.post(t, "/theme/toggle", url.Values{"theme": {"dark"}, "return_to": {"//evil.example"}}, false)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"theme":"dark"}`, h.get(t, "/theme").Body.String())
}

func TestThemeFollowsClientHintWithoutPreference(t *testing.T) {
	h := newHarness(t, site.Options{})
	req := httptest.NewRequest(http.MethodGet, "/theme", nil)
	req.Header.Set(theme.HintHeader, `"light"`)
	rec := h.do(t, req)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())
	assert.Equal(t, theme.HintHeader, rec.Header().Get("Accept-CH"))
}

func TestContactRejectsInvalidForm(t *testing.T) {
	h := newHarness(t, site.Options{})
	require.Equal(t, http.StatusOK, h.get(t, "/contact").Code)

	rec := h.post(t, "/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"not-an-email"},
		"message": {"Hello there, I enjoyed the case study."},
	}, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Empty(t, h.enqueuer.payloads)
	assert.Equal(t, []string{"invalid"}, h.results.results)

	rec = h.post(t, "/contact", url.Values{"name": {""}, "email": {""}, "message": {"short"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Please tell me your name.")
	assert.Contains(t, body, "Please write at least a sentence.")
}

func TestContactEnqueuesExactlyOneTask(t *testing.T) {
	h := newHarness(t, site.Options{})
	h.get(t, "/contact")

	rec := h.post(t, "/contact", url.Values{
		"name":    {" Ada Lovelace "},
		"email":   {"ada@example.com"},
		"message": {"Could we talk about a measurement setup?"},
	}, false)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact", rec.Header().Get("Location"))
	require.Len(t, h.enqueuer.payloads, 1)
	payload := h.enqueuer.payloads[0]
	assert.Equal(t, "Ada Lovelace", payload.Name)
	assert.Equal(t, "ada@example.com", payload.Email)
	assert.Equal(t, time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC), payload.SubmittedAt)
	assert.Equal(t, []string{"queued"}, h.results.results)

	page := h.get(t, "/contact").Body.String()
	assert.Contains(t, page, "Thanks for reaching out.")
	assert.NotContains(t, h.get(t, "/contact").Body.String(), "Thanks for reaching out.", "flash shows once")
}

func TestContactHTMXSuccessFragment(t *testing.T) {
	h := newHarness(t, site.Options{})
	rec := h.post(t, "/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Could we talk about a measurement setup?"},
	}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="contact-success"`)
	assert.Len(t, h.enqueuer.payloads, 1)
}

func TestContactEnqueueFailure(t *testing.T) {
	h := newHarness(t, site.Options{})
	h.enqueuer.err = errors.New("redis down")

	rec := h.post(t, "/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Could we talk about a measurement setup?"},
	}, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be sent")
	assert.Equal(t, []string{"failed"}, h.results.results)
}

func TestContactIsRateLimited(t *testing.T) {
	h := newHarness(t, site.Options{ContactLimit: 2})
	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Could we talk about a measurement setup?"}}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusSeeOther, h.post(t, "/contact", form, false).Code)
	}
	rec := h.post(t, "/contact", form, false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, h.enqueuer.payloads, 2)
	assert.Contains(t, h.results.results, "limited")
}
