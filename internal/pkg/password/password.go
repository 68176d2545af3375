// Package password hashes and verifies account passwords.
//
// Stored values have the form hex(key) + "." + salt, where salt is the hex
// encoding of 16 random bytes and is fed to scrypt as text.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN   = 16384
	scryptR   = 8
	scryptP   = 1
	keyLen    = 64
	saltBytes = 16
	separator = "."
)

// Hash derives a storable hash for plain.
func Hash(plain string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := derive(plain, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + separator + salt, nil
}

// Verify reports whether plain matches stored. Malformed stored values never match.
func Verify(plain, stored string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}

	hashHex, salt, ok := strings.Cut(stored, separator)
	if !ok || hashHex == "" || salt == "" {
		return false
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != keyLen {
		return false
	}
	if _, err := hex.DecodeString(salt); err != nil {
		return false
	}

	got, err := derive(plain, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// NeedsRehash reports whether stored uses a legacy scheme.
func NeedsRehash(stored string) bool {
	return isBcrypt(stored)
}

func derive(plain, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(plain), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return key, nil
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}
