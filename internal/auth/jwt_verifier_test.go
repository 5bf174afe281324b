package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-bytes-for-hs256"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestHMACVerifier(t *testing.T) {
	verifier, err := NewHMACVerifier(testSecret, testLogger())
	require.NoError(t, err)
	defer verifier.Close()

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr bool
	}{
		{
			name: "subject claim",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "authenticated",
			}),
			wantID: "user-1",
		},
		{
			name: "legacy userId claim",
			token: sign(t, jwt.SigningMethodHS512, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
				UserID:           "legacy-7",
			}),
			wantID: "legacy-7",
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: past},
			}),
			wantErr: true,
		},
		{
			name: "no expiry",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			}),
			wantErr: true,
		},
		{
			name: "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("another-secret"), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
			}),
			wantErr: true,
		},
		{
			name: "unsigned",
			token: sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
			}),
			wantErr: true,
		},
		{
			name: "anonymous role",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "anon",
			}),
			wantErr: true,
		},
		{
			name: "no user",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
			}),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, claims.GetUserID())
		})
	}
}

func TestNewVerifiers_RequireConfiguration(t *testing.T) {
	_, err := NewHMACVerifier("", testLogger())
	assert.Error(t, err)

	_, err = NewJWKSVerifier("", testLogger())
	assert.Error(t, err)
}
