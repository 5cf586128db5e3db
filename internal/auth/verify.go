package auth

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks bearer tokens signed with a shared HMAC secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens minted by IssueToken with the
// same secret.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) < minSecretLen {
		return nil, errors.Errorf("auth secret must be at least %d bytes", minSecretLen)
	}
	return &Verifier{secret: secret}, nil
}

// VerifyToken verifies token and returns its claims. The TokenPrefix is
// optional.
func (v *Verifier) VerifyToken(token string) (*Claims, error) {
	token = strings.TrimPrefix(token, TokenPrefix)

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, "token verification failed")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
