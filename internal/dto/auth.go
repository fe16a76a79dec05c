package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID      string `json:"user_id"`
	TokenType   string `json:"token_type"` // only "access" tokens are accepted
	Contributor bool   `json:"contributor,omitempty"`
	Superuser   bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}
