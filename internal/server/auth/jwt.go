// Package auth carries identity records as signed HS256 tokens.
package auth

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "gatekeeper identity token v1"

// Claims holds the standard claims plus the identity record fields.
// LoggedIn is nil when the record had no boolean login state, so a
// non-boolean value accepted by loose mode comes back missing and is denied.
type Claims struct {
	jwt.RegisteredClaims
	Name     string `json:"name,omitempty"`
	LoggedIn *bool  `json:"is_logged_in,omitempty"`
}

// DeriveKey expands secret into a 32-byte signing key.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, common.ErrEmptySecret
	}

	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateToken signs rec. A non-positive validityDuration yields a token
// that is already expired.
func GenerateToken(rec identity.Record, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name: rec.Name(),
	}

	if v, ok := rec.LoginState(); ok {
		if b, isBool := v.(bool); isBool {
			claims.LoggedIn = &b
		}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// RecordFromToken verifies tokenString and rebuilds the identity record.
func RecordFromToken(tokenString string, secretKey []byte) (identity.Record, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	rec := identity.Record{}
	if claims.Name != "" {
		rec[identity.KeyName] = claims.Name
	}
	if claims.LoggedIn != nil {
		rec[identity.KeyLoggedIn] = *claims.LoggedIn
	}

	return rec, nil
}
