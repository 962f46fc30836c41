package session

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by CONFIA bearer tokens. The subject
// is the principal's user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SecretFromEnv reads the token signing secret from CONFIA_API_SECRET,
// falling back to a development-only default.
func SecretFromEnv() []byte {
	if secret := os.Getenv("CONFIA_API_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("confia-dev-secret")
}

// IssueToken mints an HS256 token for the given session.
func (m *Manager) IssueToken(s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns the session it encodes.
func (m *Manager) ParseToken(tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session: parsing token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("session: invalid token")
	}

	return &Session{UserID: claims.Subject, Email: claims.Email}, nil
}
