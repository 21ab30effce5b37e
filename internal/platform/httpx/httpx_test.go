package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{fmt.Errorf("%w: project towne", ErrNotFound), http.StatusNotFound, "resource not found: project towne"},
		{fmt.Errorf("%w: hover", ErrValidation), http.StatusBadRequest, "validation failed: hover"},
		{ErrTooManyRequests, http.StatusTooManyRequests, ""},
		{fmt.Errorf("redis down"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)

		require.Equal(t, tc.status, rec.Code)
		assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))
		var problem ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, tc.status, problem.Status)
		assert.Equal(t, tc.detail, problem.Detail)
		assert.NotContains(t, problem.Detail, "redis")
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"theme": "dark"})
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())
}
