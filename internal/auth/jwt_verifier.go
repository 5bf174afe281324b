package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetric tokens against the provider's JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches and refreshes public keys
// from jwksURL in the background.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "mode", "jwks", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: logger}, nil
}

// VerifyToken validates the token and extracts its claims
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	return parseClaims(tokenString, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}

// HMACVerifier verifies tokens signed with a shared secret
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier
func NewHMACVerifier(secret string, logger *slog.Logger) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	logger.Info("JWT verifier initialized", "mode", "hmac")
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates the token and extracts its claims
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	return parseClaims(tokenString, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, []string{"HS256", "HS384", "HS512"}, v.logger)
}

// Close is a no-op
func (v *HMACVerifier) Close() error {
	return nil
}

// parseClaims parses and validates a token. Restricting the accepted
// algorithms prevents algorithm confusion between key types.
func parseClaims(tokenString string, keyFunc jwt.Keyfunc, algs []string, logger *slog.Logger) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, keyFunc,
		jwt.WithValidMethods(algs),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		logger.Debug("token has unexpected claims")
		return nil, domain.ErrUnauthorized
	}

	if claims.GetUserID() == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Anonymous sessions carry role "anon"; an empty role is allowed for
	// tokens from providers that do not set it.
	if claims.Role != "" && claims.Role != "authenticated" {
		logger.Debug("token has invalid role", "role", claims.Role, "user_id", claims.GetUserID())
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
