package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := GenerateToken("secret", "admin@example.com")
	require.NoError(t, err)

	email, err := VerifyToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "admin@example.com")
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", token)
	assert.Error(t, err)
}

func TestAdminAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminAuthMiddleware("secret")(next)

	// No header.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/rentals", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/admin/rentals", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token.
	token, err := GenerateToken("secret", "admin@example.com")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin/rentals", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
