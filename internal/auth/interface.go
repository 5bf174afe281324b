package auth

import "clipnest/internal/domain/models"

// TokenVerifier validates a bearer token issued by the identity provider.
// The middleware only depends on this interface, so JWKS-backed and
// shared-secret verification are interchangeable.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Any failure is reported as domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
