package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// TokenPrefix marks bearer tokens minted by this server.
const TokenPrefix = "ghm_"

// Issuer is the iss claim of minted tokens.
const Issuer = "github-mcp-server"

// minSecretLen is the shortest accepted HMAC secret, in bytes.
const minSecretLen = 32

// Claims are the claims carried by an HTTP bearer token.
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for subject. A zero ttl issues a
// token without expiry.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) < minSecretLen {
		return "", errors.Errorf("signing secret must be at least %d bytes", minSecretLen)
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:   Issuer,
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return TokenPrefix + signed, nil
}
