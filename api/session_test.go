package api

import (
	"strings"
	"testing"
	"time"

	"encore/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionVerifier(t *testing.T) {
	v, err := NewSessionVerifier(testutil.PublicKeyPEM(t), "")
	require.NoError(t, err)

	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantSub string
	}{
		{
			name:    "valid",
			token:   testutil.Token(t, "user_1"),
			wantSub: "user_1",
		},
		{
			name: "expired",
			token: testutil.TokenWithClaims(t, jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			}),
		},
		{
			name:  "no expiry",
			token: testutil.TokenWithClaims(t, jwt.RegisteredClaims{Subject: "user_1"}),
		},
		{
			name: "no subject",
			token: testutil.TokenWithClaims(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}),
		},
		{
			name:  "garbage",
			token: "not.a.token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := v.Verify(tc.token)
			if tc.wantSub == "" {
				assert.ErrorIs(t, err, ErrInvalidSession)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantSub, sub)
		})
	}
}

func TestSessionVerifierRejectsHMAC(t *testing.T) {
	v, err := NewSessionVerifier(testutil.PublicKeyPEM(t), "")
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testutil.PublicKeyPEM(t)))
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionVerifierIssuer(t *testing.T) {
	v, err := NewSessionVerifier(testutil.PublicKeyPEM(t), "https://id.example.com")
	require.NoError(t, err)

	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	_, err = v.Verify(testutil.TokenWithClaims(t, jwt.RegisteredClaims{Subject: "user_1", ExpiresAt: exp, Issuer: "https://evil.example.com"}))
	assert.ErrorIs(t, err, ErrInvalidSession)

	sub, err := v.Verify(testutil.TokenWithClaims(t, jwt.RegisteredClaims{Subject: "user_1", ExpiresAt: exp, Issuer: "https://id.example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "user_1", sub)
}

func TestSessionVerifierEscapedKey(t *testing.T) {
	oneLine := strings.ReplaceAll(testutil.PublicKeyPEM(t), "\n", `\n`)

	_, err := NewSessionVerifier(oneLine, "")
	assert.NoError(t, err)

	_, err = NewSessionVerifier("not a key", "")
	assert.Error(t, err)
}
