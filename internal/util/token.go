package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry peeks at the exp claim of a bearer token without
// verifying its signature (verification is the backend's job; the
// client only wants to know whether a re-login is needed). Returns
// false when the token is not a JWT or carries no expiry: such tokens
// are treated as opaque and never expire locally.
func TokenExpiry(tokenStr string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether a bearer token carries an exp claim in
// the past.
func TokenExpired(tokenStr string) bool {
	exp, ok := TokenExpiry(tokenStr)
	return ok && exp.Before(time.Now())
}
