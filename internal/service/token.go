package service

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	sessionTokenBytes = 32
	accountTokenBytes = 16 // activation and password reset
)

// GenerateToken returns n random bytes hex-encoded.
func GenerateToken(n int) (string, error) {
	bytes := make([]byte, n)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
