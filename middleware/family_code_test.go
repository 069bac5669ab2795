package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyCheckAPI/middleware"
)

func TestFamilyCodeMiddleware(t *testing.T) {
	var captured string
	handler := middleware.FamilyCodeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, ok := middleware.GetFamilyCode(r.Context())
		require.True(t, ok)
		captured = code
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("passes the header through context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/study/streak", nil)
		req.Header.Set("X-Family-Code", " FAM-1234 ")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "FAM-1234", captured)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/study/streak", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "X-Family-Code")
	})

	t.Run("blank header is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/study/streak", nil)
		req.Header.Set("X-Family-Code", "   ")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetFamilyCodeWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := middleware.GetFamilyCode(req.Context())
	assert.False(t, ok)
}
