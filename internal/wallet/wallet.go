// Package wallet manages ed25519 keypairs for evidence submitters,
// inspectors, and the coordinator's admin account, and satisfies
// internal/ledger.Signer so any of them can sign application calls.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// Wallet holds one ed25519 keypair and its derived address.
type Wallet struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
	address string
}

// New generates a fresh wallet from crypto/rand.
func New() (*Wallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("wallet: key generation failed: %w", err)
	}
	return &Wallet{public: pub, private: priv, address: addressOf(pub)}, nil
}

// FromMnemonic reconstructs a wallet from its 25-word recovery phrase.
func FromMnemonic(phrase string) (*Wallet, error) {
	seed, err := decodeMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Wallet{public: pub, private: priv, address: addressOf(pub)}, nil
}

// Mnemonic returns this wallet's 25-word recovery phrase, derived from its
// private key's seed.
func (w *Wallet) Mnemonic() (string, error) {
	return ToMnemonic(w.private.Seed())
}

func (w *Wallet) Address() string           { return w.address }
func (w *Wallet) PublicKey() ed25519.PublicKey { return w.public }

func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.private, message)
}

// Verify checks a signature against an arbitrary public key.
func Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	return ed25519.Verify(pub, message, sig)
}

// addressOf renders a public key as a base32 address, the same rendering
// Algorand itself uses for ed25519-keyed accounts (sans the 4-byte checksum
// suffix, which this module's simplified gateway never validates on read).
func addressOf(pub ed25519.PublicKey) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(pub)
}

// AddressFromPublicKey lets callers derive an address without holding a
// full Wallet.
func AddressFromPublicKey(pub ed25519.PublicKey) string { return addressOf(pub) }
