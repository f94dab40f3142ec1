package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
)

// minBlobSize is the decoded size of a blob sealing an empty plaintext.
const minBlobSize = SaltSize + NonceSize + TagSize

var blobEncoding = base64.StdEncoding.Strict()

// RecordCipher seals and opens single records under keys derived from a
// master secret. Each Seal uses a fresh salt, hence a fresh key, and a fresh
// nonce.
type RecordCipher struct {
	secret     []byte
	iterations int
}

// NewRecordCipher returns a cipher bound to the master secret. The secret is
// copied. An empty secret yields common.ErrKeyUnavailable.
func NewRecordCipher(secret []byte, iterations int) (*RecordCipher, error) {
	if len(secret) == 0 {
		return nil, common.ErrKeyUnavailable
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid iteration count: %d", iterations)
	}
	return &RecordCipher{secret: append([]byte(nil), secret...), iterations: iterations}, nil
}

// Seal encrypts plaintext and returns the base64 blob.
func (c *RecordCipher) Seal(plaintext []byte) (string, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	nonce := common.GenerateRandByteArray(NonceSize)

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+TagSize)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	return blobEncoding.EncodeToString(out), nil
}

// Open decrypts a blob produced by Seal. Any malformed, truncated or
// tampered blob fails with common.ErrDecryption and yields no plaintext.
func (c *RecordCipher) Open(blob string) ([]byte, error) {
	raw, err := blobEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: bad encoding", common.ErrDecryption)
	}
	if len(raw) < minBlobSize {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", common.ErrDecryption, len(raw))
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	sealed := raw[SaltSize+NonceSize:]

	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", common.ErrDecryption)
	}
	return plaintext, nil
}

// SealJSON serializes v to JSON and seals it.
func (c *RecordCipher) SealJSON(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(plaintext)
	return c.Seal(plaintext)
}

// OpenJSON opens blob and unmarshals the JSON payload into v.
func (c *RecordCipher) OpenJSON(blob string, v any) error {
	plaintext, err := c.Open(blob)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return errors.Join(common.ErrDecryption, err)
	}
	return nil
}

func (c *RecordCipher) aead(salt []byte) (cipher.AEAD, error) {
	key := DeriveKey(c.secret, salt, c.iterations)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
