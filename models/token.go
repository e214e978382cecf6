package models

import "github.com/golang-jwt/jwt/v5"

// Token wraps a session JWT together with its decoded claims.
// It embeds jwt.RegisteredClaims so it can be passed directly to
// jwt.ParseWithClaims as the claims destination.
type Token struct {
	jwt.RegisteredClaims

	// Token is the parsed token object, populated after validation.
	Token *jwt.Token `json:"-"`

	// SignedString is the compact serialized form stored in the session blob.
	SignedString string `json:"-"`

	// Username is the subject the token was issued for.
	Username string `json:"-"`
}
