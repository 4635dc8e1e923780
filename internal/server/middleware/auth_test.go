package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (v *stubValidator) ValidateToken(_ string) (string, error) {
	return v.userID, v.err
}

func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserID(r)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(userID))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token passes user through", func(t *testing.T) {
		handler := RequireAuth(&stubValidator{userID: "user-1"})(echoUserHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("bearer prefix is case-insensitive", func(t *testing.T) {
		handler := RequireAuth(&stubValidator{userID: "user-1"})(echoUserHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer some-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	rejections := []struct {
		name      string
		header    string
		validator TokenValidator
	}{
		{"missing header", "", &stubValidator{userID: "user-1"}},
		{"not bearer", "Basic dXNlcjpwYXNz", &stubValidator{userID: "user-1"}},
		{"empty token", "Bearer ", &stubValidator{userID: "user-1"}},
		{"invalid token", "Bearer bad", &stubValidator{err: errors.New("invalid")}},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(tt.validator)(echoUserHandler(t))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("valid token attaches user", func(t *testing.T) {
		handler := OptionalAuth(&stubValidator{userID: "user-1"})(echoUserHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("missing token passes anonymously", func(t *testing.T) {
		handler := OptionalAuth(&stubValidator{userID: "user-1"})(echoUserHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		handler := OptionalAuth(&stubValidator{err: errors.New("expired")})(echoUserHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestGetUserIDWithoutContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
