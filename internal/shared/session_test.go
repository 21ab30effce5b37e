package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret", time.Hour, false), mr
}

func sessionCookie(t *testing.T, res *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionUntouchedIsNotPersisted(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	require.NoError(t, err)
	assert.True(t, sess.IsNew())

	res := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, res, sess))
	assert.Nil(t, sessionCookie(t, res, "test_session"))
	assert.Empty(t, mr.Keys())
}

func TestSessionRoundTrip(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("theme", "light")
	sess.AddFlash(FlashMessage{Kind: "success", Message: "sent"})

	res := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, res, sess))
	cookie := sessionCookie(t, res, "test_session")
	require.NotNil(t, cookie)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, mr.Exists("session:"+sess.ID))
	assert.True(t, mr.TTL("session:"+sess.ID) > 0)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	loaded, err := manager.Load(ctx, req)
	require.NoError(t, err)
	assert.False(t, loaded.IsNew())
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "light", loaded.Get("theme"))

	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "sent", flash.Message)
	assert.Nil(t, loaded.PopFlash())
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), loaded))

	again, err := manager.Load(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, again.PopFlash(), "flash is shown once")
	assert.Equal(t, "light", again.Get("theme"))
}

func TestSessionRejectsForgedCookie(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("theme", "light")
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))

	for _, value := range []string{sess.ID, sess.ID + ".bogus", sess.ID + ".", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "test_session", Value: value})
		loaded, err := manager.Load(ctx, req)
		require.NoError(t, err)
		assert.True(t, loaded.IsNew(), "cookie %q should not resolve", value)
		assert.Empty(t, loaded.Get("theme"))
	}
}

func TestSessionDestroy(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("theme", "dark")
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))

	manager.Destroy(sess)
	res := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, res, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	cookie := sessionCookie(t, res, "test_session")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestSessionSetSameValueIsClean(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("theme", "dark")
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))
	mr.FastForward(30 * time.Minute)

	sess.Set("theme", "dark")
	sess.Delete("missing")
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))
	assert.True(t, mr.TTL("session:"+sess.ID) <= 30*time.Minute, "unchanged session is not rewritten")
}
