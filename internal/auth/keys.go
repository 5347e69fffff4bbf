package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// KeyVerifier checks price-setter API keys against a stored bcrypt hash.
type KeyVerifier struct {
	hash []byte
}

// NewKeyVerifier returns a verifier for the configured hash.
func NewKeyVerifier(hash string) (*KeyVerifier, error) {
	if hash == "" {
		return nil, errors.New("auth: empty api key hash")
	}
	return &KeyVerifier{hash: []byte(hash)}, nil
}

// Verify reports whether the presented key matches the stored hash.
func (v *KeyVerifier) Verify(key string) error {
	if key == "" {
		return errors.New("auth: empty api key")
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(key))
}

// HashKey produces a bcrypt hash for provisioning API keys.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("auth: empty api key")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
