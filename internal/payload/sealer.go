package payload

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"coupon-service/internal/model"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealVersion = byte(1)
	keyInfo     = "coupon-service qr payload v1"
)

// additionalData binds the version byte. It must never alias the output buffer.
func additionalData() []byte {
	return []byte{sealVersion}
}

// Strict rejects non-zero trailing bits so every altered character is seen.
var wireEncoding = base64.RawURLEncoding.Strict()

// Sealer provides authenticated encryption of payload bytes.
type Sealer interface {
	// Seal encrypts plaintext and returns printable ciphertext.
	Seal(plaintext []byte) (string, error)

	// Open authenticates and decrypts ciphertext produced by Seal.
	// Any failure is reported as model.ErrDecryptFailure.
	Open(ciphertext string) ([]byte, error)
}

// xchachaSealer seals with XChaCha20-Poly1305. The wire form is
// base64url(version || nonce || sealed) with the version byte bound as
// additional data.
type xchachaSealer struct {
	key  []byte
	rand io.Reader
}

// NewSealer derives a 256-bit key from secret with HKDF-SHA256.
func NewSealer(secret string) (Sealer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("qr secret must be at least 16 characters")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive qr key: %w", err)
	}

	return &xchachaSealer{key: key, rand: rand.Reader}, nil
}

func (s *xchachaSealer) Seal(plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealVersion)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, additionalData())
	return wireEncoding.EncodeToString(out), nil
}

func (s *xchachaSealer) Open(ciphertext string) ([]byte, error) {
	raw, err := wireEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, model.ErrDecryptFailure
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	if len(raw) < 1+aead.NonceSize()+aead.Overhead() || raw[0] != sealVersion {
		return nil, model.ErrDecryptFailure
	}

	nonce := raw[1 : 1+aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, raw[1+aead.NonceSize():], additionalData())
	if err != nil {
		return nil, model.ErrDecryptFailure
	}
	return plaintext, nil
}
