package auth

import (
	"errors"
	"time"

	"bookcatalog/internal/models"
	"bookcatalog/internal/policy"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const DefaultTTL = 24 * time.Hour

// TokenIssuer signs and verifies HS256 session tokens. A token carries a
// snapshot of the user's role and status taken at login; it is not checked
// against the user table again before it expires.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (i *TokenIssuer) Sign(userID string, role models.Role, status models.Status) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":    userID,
		"role":   string(role),
		"status": string(status),
		"exp":    exp.Unix(),
		"iat":    now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *TokenIssuer) Verify(tokenStr string) (policy.Actor, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil || !tok.Valid {
		return policy.Actor{}, ErrInvalidToken
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Actor{}, ErrInvalidToken
	}
	sub, _ := mapc["sub"].(string)
	role, _ := mapc["role"].(string)
	status, _ := mapc["status"].(string)
	if sub == "" || role == "" {
		return policy.Actor{}, ErrInvalidToken
	}
	return policy.Actor{ID: sub, Role: models.Role(role), Status: models.Status(status)}, nil
}
