package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var ErrInvalidSealedValue = errors.New("invalid sealed value")

// Sealer encrypts and authenticates short strings for cookie transport.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte AES key from the secret using HKDF-SHA256.
// Any non-empty secret works; key stretching keeps short secrets usable.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("empty secret")
	}
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("taskboard-session"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts data and returns a base64 string of nonce||ciphertext.
func (s *Sealer) Seal(data string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(data), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. Any tampering, truncation or
// garbage input yields ErrInvalidSealedValue.
func (s *Sealer) Open(data string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return "", ErrInvalidSealedValue
	}
	if len(raw) < s.aead.NonceSize() {
		return "", ErrInvalidSealedValue
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidSealedValue
	}
	return string(plain), nil
}
