package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSigningKey = "test-signing-key-0123456789abcdef"

func createTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			SigningKey: testSigningKey,
			Issuer:     "listing-platform",
			Audience:   "offer-workflow",
		},
	}
}

func signToken(t *testing.T, key string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":          "agent-42",
		"name":         "Jane Agent",
		"email":        "jane@brokerage.test",
		"phone_number": "555-0100",
		"license":      "DRE-0123",
		"iss":          "listing-platform",
		"aud":          "offer-workflow",
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTValidator_ValidToken(t *testing.T) {
	v := auth.NewJWTValidator(&createTestConfig().Auth)

	user, err := v.ValidateToken(signToken(t, testSigningKey, validClaims()))
	require.NoError(t, err)

	assert.Equal(t, "agent-42", user.UserID)
	assert.Equal(t, "Jane Agent", user.DisplayName)
	assert.Equal(t, "jane@brokerage.test", user.Email)
	assert.Equal(t, "555-0100", user.Phone)
	assert.Equal(t, "DRE-0123", user.License)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v := auth.NewJWTValidator(&createTestConfig().Auth)

	tests := []struct {
		name    string
		mutate  func(jwt.MapClaims)
		key     string
		wantErr error
	}{
		{
			name:    "expired",
			mutate:  func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() },
			wantErr: auth.ErrExpiredToken,
		},
		{
			name:    "missing expiry",
			mutate:  func(c jwt.MapClaims) { delete(c, "exp") },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "wrong issuer",
			mutate:  func(c jwt.MapClaims) { c["iss"] = "someone-else" },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "wrong audience",
			mutate:  func(c jwt.MapClaims) { c["aud"] = "other-app" },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "missing subject",
			mutate:  func(c jwt.MapClaims) { delete(c, "sub") },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "wrong key",
			key:     "another-key-entirely-0123456789",
			wantErr: auth.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			key := testSigningKey
			if tt.key != "" {
				key = tt.key
			}

			_, err := v.ValidateToken(signToken(t, key, claims))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTValidator_RejectsNoneAlgorithm(t *testing.T) {
	v := auth.NewJWTValidator(&createTestConfig().Auth)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.ValidateToken(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware_Authenticate(t *testing.T) {
	middleware := auth.NewMiddleware(createTestConfig(), zap.NewNop())
	token := signToken(t, testSigningKey, validClaims())

	var captured *auth.UserContext
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "agent-42", captured.UserID)
	assert.Equal(t, token, captured.AccessToken)
}

func TestMiddleware_Authenticate_Unauthorized(t *testing.T) {
	middleware := auth.NewMiddleware(createTestConfig(), zap.NewNop())

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAccessTokenFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, auth.AccessTokenFromContext(req.Context()))

	ctx := auth.WithUserContext(req.Context(), &auth.UserContext{UserID: "a", AccessToken: "tok"})
	assert.Equal(t, "tok", auth.AccessTokenFromContext(ctx))
}
