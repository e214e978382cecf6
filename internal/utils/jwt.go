package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/salon-desk/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 JWT for the session blob.
//
// Standard claims:
//   - Issuer    (iss): identifies this application instance
//   - Subject   (sub): the username the session belongs to
//   - IssuedAt  (iat): now
//   - ExpiresAt (exp): the session expiry instant
//
// The token is re-issued on every activity refresh so exp always tracks the
// session's ExpiresAt. All parameters are required.
func GenerateSessionToken(issuer, username string, expiresAt time.Time, signKey string) (models.Token, error) {
	if issuer == "" || username == "" || signKey == "" || expiresAt.IsZero() {
		return models.Token{}, errors.New("invalid params for generating session token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("signing session token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, Username: username}, nil
}

// ValidateAndParseSessionToken validates a raw session token string and
// extracts its claims.
//
// Validation covers the signature, the issuer claim, and the expiry claim.
// The subject claim must be present; it is returned as the Username.
func ValidateAndParseSessionToken(tokenString, signKey, issuer string) (models.Token, error) {
	var claims models.Token
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("validating session token: %w", err)
	}

	username, err := token.Claims.GetSubject()
	if err != nil {
		return models.Token{}, fmt.Errorf("reading subject from session token: %w", err)
	}
	if username == "" {
		return models.Token{}, errors.New("empty subject in session token")
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.Username = username
	return claims, nil
}
