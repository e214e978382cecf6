package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "salon-desk-test"
)

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute)

	token, err := GenerateSessionToken(testIssuer, "admin", expiresAt, testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := ValidateAndParseSessionToken(token.SignedString, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.Username)
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	expiresAt := time.Now().Add(time.Minute)

	_, err := GenerateSessionToken("", "admin", expiresAt, testSignKey)
	assert.Error(t, err)

	_, err = GenerateSessionToken(testIssuer, "", expiresAt, testSignKey)
	assert.Error(t, err)

	_, err = GenerateSessionToken(testIssuer, "admin", time.Time{}, testSignKey)
	assert.Error(t, err)

	_, err = GenerateSessionToken(testIssuer, "admin", expiresAt, "")
	assert.Error(t, err)
}

func TestValidateAndParseSessionToken_WrongKey(t *testing.T) {
	token, err := GenerateSessionToken(testIssuer, "admin", time.Now().Add(time.Minute), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseSessionToken(token.SignedString, "other-key", testIssuer)
	assert.Error(t, err)
}

func TestValidateAndParseSessionToken_WrongIssuer(t *testing.T) {
	token, err := GenerateSessionToken(testIssuer, "admin", time.Now().Add(time.Minute), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseSessionToken(token.SignedString, testSignKey, "someone-else")
	assert.Error(t, err)
}

func TestValidateAndParseSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken(testIssuer, "admin", time.Now().Add(-time.Minute), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseSessionToken(token.SignedString, testSignKey, testIssuer)
	assert.Error(t, err)
}

func TestValidateAndParseSessionToken_Garbage(t *testing.T) {
	_, err := ValidateAndParseSessionToken("not-a-jwt", testSignKey, testIssuer)
	assert.Error(t, err)
}
