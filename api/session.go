package api

import (
	"crypto/rsa"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionVerifier checks RS256 session tokens issued by the identity provider.
type SessionVerifier struct {
	key    *rsa.PublicKey
	issuer string
}

func NewSessionVerifier(pemKey, issuer string) (*SessionVerifier, error) {
	// Config files often carry the key on one line with literal \n escapes
	pemKey = strings.ReplaceAll(pemKey, `\n`, "\n")

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, err
	}

	return &SessionVerifier{key: key, issuer: issuer}, nil
}

// Verify returns the user id (sub) of a valid token.
func (v *SessionVerifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", errors.Join(ErrInvalidSession, err)
	}

	if claims.Subject == "" {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}
