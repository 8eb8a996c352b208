// Package auth implements password hashing and the signed session token that
// is the application's sole authentication mechanism.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	saltLength   = 5
)

// MakeSalt returns n random letters drawn from the salt alphabet.
func MakeSalt(n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(saltAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b.WriteByte(saltAlphabet[idx.Int64()])
	}
	return b.String()
}

// HashPassword computes "salt|digest" where digest is the hex-encoded SHA-256
// of username+password+salt. An empty salt means "generate a fresh one".
// Deterministic given the salt.
func HashPassword(username, password, salt string) string {
	if salt == "" {
		salt = MakeSalt(saltLength)
	}
	sum := sha256.Sum256([]byte(username + password + salt))
	return salt + "|" + hex.EncodeToString(sum[:])
}

// CheckPassword recomputes the hash using the salt extracted from stored and
// compares the full string. Malformed stored values simply fail to verify.
func CheckPassword(username, password, stored string) bool {
	salt, _, ok := strings.Cut(stored, "|")
	if !ok {
		return false
	}
	return HashPassword(username, password, salt) == stored
}
