package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// CipherStrategy persists secrets encrypted with AES-256-GCM under a
// process-wide key. Losing the key makes every stored credential permanently
// unverifiable; there is no per-record recovery path.
type CipherStrategy struct {
	aead cipher.AEAD
}

// NewCipherStrategy builds the strategy from a 32-byte key.
func NewCipherStrategy(key []byte) (*CipherStrategy, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("cipher key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &CipherStrategy{aead: aead}, nil
}

func (s *CipherStrategy) Name() string { return StrategyCipher }

// Store encrypts the secret with a fresh nonce. The nonce is prepended to the
// ciphertext and the whole value is base64-encoded.
func (s *CipherStrategy) Store(secret string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(secret), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Compare decrypts the stored value and compares it to the submitted secret.
// A stored value sealed under a different key fails authentication during
// decryption and reports a mismatch, not an error.
func (s *CipherStrategy) Compare(secret, stored string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false, fmt.Errorf("decode credential: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return false, fmt.Errorf("credential shorter than nonce")
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		// Wrong key or tampered ciphertext.
		return false, nil
	}

	return subtle.ConstantTimeCompare(plaintext, []byte(secret)) == 1, nil
}
