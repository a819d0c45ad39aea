// Package auth provides password hashing, JWT access tokens and the bearer
// middleware protecting the logbook routes.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// TokenIssuer identifies tokens minted by this server.
const TokenIssuer = "logbook-kkn-generator"

// Manager mints and validates HS256 access tokens. The subject claim
// carries the user ID.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a Manager signing with secret; tokens expire after
// expiry.
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// CreateToken mints an access token for the given user ID.
func (m *Manager) CreateToken(userID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "could not sign token", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns the user ID it carries.
// Any validation failure, expiry included, is an UNAUTHORIZED error.
func (m *Manager) ParseToken(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrUnauthorized, "invalid token", err)
	}
	if !token.Valid {
		return 0, errors.New(errors.ErrUnauthorized, "invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrUnauthorized, "invalid token subject", err)
	}
	return userID, nil
}
