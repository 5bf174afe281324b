package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the claim set accepted from identity-provider tokens.
// The subject claim carries the owner ID; userId is accepted as a fallback
// for tokens minted by the legacy session service.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// GetUserID returns the owner ID carried by the token.
func (c *AccessClaims) GetUserID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
