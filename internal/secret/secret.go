// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package secret encrypts personal data at rest and computes keyed hashes
// from a single configured secret.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
)

var (
	ErrMissingKey        = errors.New("encryption key is missing")
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// Box holds the AES-256 key derived from the configured secret.
type Box struct {
	aead cipher.AEAD
	key  [sha256.Size]byte
}

// New derives the key as SHA-256 of secret, so secrets of any length work.
func New(secret string) (*Box, error) {
	if secret == "" {
		return nil, ErrMissingKey
	}
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Box{key: key, aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext || tag) with a 12-byte nonce.
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (b *Box) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	nonceSize := b.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrInvalidCiphertext
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// HMAC returns the hex encoded HMAC-SHA256 of s.
func (b *Box) HMAC(s string) string {
	mac := hmac.New(sha256.New, b.key[:])
	mac.Write([]byte(s))
	return hex.EncodeToString(mac.Sum(nil))
}

// Compare reports whether digest is the HMAC of s.
func (b *Box) Compare(s, digest string) bool {
	return hmac.Equal([]byte(b.HMAC(s)), []byte(digest))
}
