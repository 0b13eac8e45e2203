package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "test-signing-key")
	t.Setenv("JWT_ISSUER", "rollcall")

	token, err := GenerateAuthToken(ClaimsData{
		PersonID:  "01HZX3V0K5Q9W6B8N2M4R7T1YC",
		Email:     "ada@rollcall.io",
		Role:      "student",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	claims, err := DecodeAuthToken(*token)
	require.NoError(t, err)
	assert.Equal(t, "01HZX3V0K5Q9W6B8N2M4R7T1YC", claims.PersonID)
	assert.Equal(t, "rollcall", claims.Issuer)
	assert.Equal(t, "student", claims.Role)
}

func TestDecodeAuthTokenRejects(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "test-signing-key")
	t.Setenv("JWT_ISSUER", "rollcall")
	expires := time.Now().Add(time.Hour).Unix()

	sign := func(claims jwt.MapClaims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong key", token: sign(jwt.MapClaims{"iss": "rollcall", "personID": "p1", "exp": expires}, "other-key")},
		{name: "expired", token: sign(jwt.MapClaims{"iss": "rollcall", "personID": "p1", "exp": time.Now().Add(-time.Minute).Unix()}, "test-signing-key")},
		{name: "wrong issuer", token: sign(jwt.MapClaims{"iss": "someone-else", "personID": "p1", "exp": expires}, "test-signing-key")},
		{name: "missing person", token: sign(jwt.MapClaims{"iss": "rollcall", "exp": expires}, "test-signing-key")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAuthToken(tt.token)
			assert.Error(t, err)
		})
	}
}
