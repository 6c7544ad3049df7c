// Package token signs admin access tokens.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessType is the "type" claim the auth middleware requires.
const AccessType = "access"

// SignAccess issues an HS256 token with sub, type, roles, iat and exp claims.
func SignAccess(userID uuid.UUID, roles []string, issuedAt time.Time, ttl time.Duration, secret string) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  AccessType,
		"roles": roles,
		"iat":   issuedAt.Unix(),
		"exp":   expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
