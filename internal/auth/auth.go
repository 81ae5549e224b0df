// Package auth hashes passwords and generates session tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// SessionTokenBytes is the amount of randomness in a session token.
const SessionTokenBytes = 32

var legacyDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

// prehash reduces password to a fixed 44-byte input so bcrypt never sees
// more than its 72-byte limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashPassword returns a salted bcrypt hash of password. Passwords of any
// length are accepted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Both bcrypt hashes and
// legacy unsalted SHA-256 hex digests are accepted.
func CheckPassword(password, hash string) bool {
	if IsLegacyHash(hash) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// IsLegacyHash reports whether hash is an unsalted SHA-256 hex digest that
// should be replaced by a bcrypt hash.
func IsLegacyHash(hash string) bool { return legacyDigest.MatchString(hash) }

// GenerateSessionToken returns a random hex-encoded token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
