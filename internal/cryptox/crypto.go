// Package cryptox wraps password hashing for stored credentials.
// Digests are bcrypt; the plaintext never leaves this package's callers.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt digest of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored digest.
func CheckPassword(digest string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
