package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Cipher encrypts and decrypts instance credentials with AES-GCM. The
// key is derived from the configured passphrase; ciphertexts are
// base64-encoded nonce||sealed bytes.
//
// Decrypt never degrades to an empty string: a bad key or corrupted
// ciphertext is a hard error so callers cannot accidentally ship an
// empty password to a remote host.
type Cipher struct {
	key [32]byte
}

// NewCipher creates a cipher from the configured encryption key.
func NewCipher(encryptionKey string) (*Cipher, error) {
	if encryptionKey == "" {
		return nil, errors.NewSecretUnavailableError("secrets encryption key is not configured")
	}
	return &Cipher{key: sha256.Sum256([]byte(encryptionKey))}, nil
}

// Encrypt seals the plaintext and returns a base64 token.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Resolve implements instance.SecretResolver. It decrypts a stored
// credential token just in time for use.
func (c *Cipher) Resolve(encrypted string) (string, error) {
	if encrypted == "" {
		return "", errors.NewSecretUnavailableError("encrypted secret is empty")
	}

	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", errors.NewSecretUnavailableError("secret is not valid base64")
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", errors.NewSecretUnavailableError("failed to initialize cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.NewSecretUnavailableError("failed to initialize GCM")
	}

	if len(raw) < gcm.NonceSize() {
		return "", errors.NewSecretUnavailableError("secret ciphertext is truncated")
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.NewSecretUnavailableError("secret decryption failed")
	}

	return string(plaintext), nil
}
