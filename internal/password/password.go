// Package password computes the one-way digest stored for user credentials.
package password

import (
	"crypto"
	"encoding/hex"
	"errors"

	// registers SHA-256 with the crypto package
	_ "crypto/sha256"
)

// ErrHashingUnavailable is returned when the digest primitive cannot be obtained.
var ErrHashingUnavailable = errors.New("password hashing unavailable")

// algorithm is the digest used for stored credentials. It is unsalted so
// that equal passwords produce equal hashes across stores.
var algorithm = crypto.SHA256

// Hash returns the lowercase hex SHA-256 digest of plaintext.
// The empty string is a valid input.
func Hash(plaintext string) (string, error) {
	if !algorithm.Available() {
		return "", ErrHashingUnavailable
	}
	h := algorithm.New()
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Matches reports whether plaintext hashes to digest.
func Matches(plaintext, digest string) (bool, error) {
	got, err := Hash(plaintext)
	if err != nil {
		return false, err
	}
	return got == digest, nil
}
