package utils // helper functions for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT together with its expiry.  Access tokens
// are short-lived and travel in the Authorization header.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a long-lived opaque token used to obtain new access
// tokens.  Raw goes back to the client; only its SHA-256 hash is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  Claims: sub
// (user ID), exp and iat.
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random refresh token and its
// expiration, ttlDays from now.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.  Storing
// only the hash keeps stolen database rows from refreshing sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewInviteToken returns the opaque identifier embedded in invitation
// links.  32 random bytes, hex encoded.
func NewInviteToken() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
