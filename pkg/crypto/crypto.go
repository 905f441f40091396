// Package crypto holds the secret-at-rest helpers. Webhook signing secrets
// are stored encrypted under the process-wide SECRET_KEY passphrase and
// only decrypted on their way into a delivery or an admin response.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sha256Hash derives the 32-byte encryption key from a passphrase.
func Sha256Hash(str string) []byte {
	hash := sha256.Sum256([]byte(str))
	return hash[:]
}

// EncryptString seals value with XChaCha20-Poly1305 under a key derived from
// passphrase and returns nonce||ciphertext as a hex string.
func EncryptString(value string, passphrase string) (string, error) {
	aead, err := chacha20poly1305.NewX(Sha256Hash(passphrase))
	if err != nil {
		return "", fmt.Errorf("EncryptString cipher error: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("EncryptString reader error: %w", err)
	}

	ciphertext := aead.Seal(nonce, nonce, []byte(value), nil)

	return fmt.Sprintf("%x", ciphertext), nil
}

// Decrypt opens nonce||ciphertext produced by EncryptString.
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(Sha256Hash(passphrase))
	if err != nil {
		return nil, fmt.Errorf("Decrypt cipher error: %w", err)
	}

	if len(data) < aead.NonceSize() {
		return nil, fmt.Errorf("Decrypt data shorter than nonce")
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("Decrypt open error: %w", err)
	}

	return plaintext, nil
}

// DecryptFromHexString decodes the hex wire form and decrypts it.
func DecryptFromHexString(str string, passphrase string) (string, error) {
	if str == "" {
		return "", fmt.Errorf("DecryptFromHexString empty string")
	}

	data, err := hex.DecodeString(str)
	if err != nil {
		return "", fmt.Errorf("DecryptFromHexString decode error: %w", err)
	}

	decodedBytes, errDec := Decrypt(data, passphrase)
	if errDec != nil {
		return "", fmt.Errorf("DecryptFromHexString decrypt error: %w", errDec)
	}

	return string(decodedBytes), nil
}
