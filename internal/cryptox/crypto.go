// Package cryptox provides random secret generation for the command-line
// tools.
package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MinSecretSize is the smallest number of random bytes accepted for an HMAC
// signing secret.
const MinSecretSize = 32

// MakeRandHexString generates size random bytes and returns them hex
// encoded, so the string is twice as long as size.
//
// Example:
//
//	s, err := MakeRandHexString(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s) // e.g., "9f2d4c3a5e6b1a7d..."
func MakeRandHexString(size int) (string, error) {
	if size < MinSecretSize {
		return "", fmt.Errorf("secret size %d is below the minimum of %d bytes", size, MinSecretSize)
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
