// Package sealedbundle encrypts a set of evidence files into one opaque
// bundle under a single AES-256 key. The submission handler generates the
// key and seals the uploaded files on the coordinator before pinning; only
// the sealed bytes are pinned and stored.
package sealedbundle

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	keySize     = 32 // AES-256
	nonceSize   = 12
	bundleAlgo  = "AES-256-GCM"
	bundleVersion = 1
)

// fileRecord is one sealed file within the bundle's JSON envelope.
type fileRecord struct {
	Filename   string `json:"filename"`
	Size       int    `json:"size"`
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Bundle is the on-disk/on-wire envelope format.
type Bundle struct {
	Version   int          `json:"version"`
	Algorithm string       `json:"algorithm"`
	Files     []fileRecord `json:"files"`
}

// NewKey generates a fresh 32-byte AES-256 key.
func NewKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("sealedbundle: key generation failed: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("sealedbundle: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sealedbundle: building cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts each named file under its own nonce and serializes the
// result to the bundle's JSON envelope.
func Seal(files map[string][]byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	records := make([]fileRecord, 0, len(files))
	for name, data := range files {
		nonce := make([]byte, nonceSize)
		if _, err := rand.Read(nonce); err != nil {
			return nil, fmt.Errorf("sealedbundle: nonce generation failed: %w", err)
		}
		ciphertext := gcm.Seal(nil, nonce, data, nil)
		records = append(records, fileRecord{
			Filename:   name,
			Size:       len(data),
			Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
			Nonce:      base64.StdEncoding.EncodeToString(nonce),
		})
	}

	b := Bundle{Version: bundleVersion, Algorithm: bundleAlgo, Files: records}
	return json.Marshal(b)
}

// Open decrypts a sealed bundle back into its named file contents. GCM's
// authentication tag is appended to the ciphertext by cipher.AEAD.Seal, so
// there's no separate tag field to validate here; a corrupted bundle fails
// in gcm.Open.
func Open(bundle []byte, key []byte) (map[string][]byte, error) {
	var b Bundle
	if err := json.Unmarshal(bundle, &b); err != nil {
		return nil, fmt.Errorf("sealedbundle: malformed bundle: %w", err)
	}
	if b.Algorithm != bundleAlgo {
		return nil, fmt.Errorf("sealedbundle: unsupported algorithm %q", b.Algorithm)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(b.Files))
	for _, f := range b.Files {
		nonce, err := base64.StdEncoding.DecodeString(f.Nonce)
		if err != nil {
			return nil, fmt.Errorf("sealedbundle: malformed nonce for %q: %w", f.Filename, err)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(f.Ciphertext)
		if err != nil {
			return nil, fmt.Errorf("sealedbundle: malformed ciphertext for %q: %w", f.Filename, err)
		}
		plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			return nil, fmt.Errorf("sealedbundle: authentication failed for %q: %w", f.Filename, err)
		}
		out[f.Filename] = plaintext
	}
	return out, nil
}
