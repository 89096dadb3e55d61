// Package utils provides token helpers shared by tests and tooling.
// Access tokens are normally issued by the external auth service; this
// mirror of its signing logic lets local tooling and the test suite mint
// compatible tokens.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAccessToken builds and signs an HS256 JWT for a user. The JWT
// carries the standard claims the middleware reads: subject (sub), role,
// expiration (exp) and issued at (iat).
func NewAccessToken(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
