// Package crypto encrypts OAuth tokens at rest. The blob format,
// hex(iv) + ":" + hex(ciphertext) with AES-256-CBC and PKCS#7 padding,
// must stay stable so previously stored tokens remain readable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const keySize = 32

var (
	ErrMalformedBlob = errors.New("malformed ciphertext blob")
	ErrBadPadding    = errors.New("invalid padding")
)

// Cipher performs symmetric encryption of token strings with a key
// derived from a configured secret.
type Cipher struct {
	key []byte
}

// NewCipher derives a 256-bit key from the secret by space-padding or
// truncating it to 32 bytes.
func NewCipher(secret string) *Cipher {
	key := secret
	for len(key) < keySize {
		key += " "
	}
	return &Cipher{key: []byte(key[:keySize])}
}

// Encrypt encrypts plaintext under a fresh random 16-byte IV and returns
// the hex(iv):hex(ciphertext) blob.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. It returns an error on any malformed blob,
// wrong key, or corrupted data; callers treat any error as "no usable
// token" and must not distinguish it from a genuinely empty token.
func (c *Cipher) Decrypt(blob string) (string, error) {
	ivHex, ctHex, found := strings.Cut(blob, ":")
	if !found {
		return "", ErrMalformedBlob
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedBlob
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedBlob
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) (string, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return "", ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return "", ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return "", ErrBadPadding
		}
	}
	return string(data[:len(data)-n]), nil
}
