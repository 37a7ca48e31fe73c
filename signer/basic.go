package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/algopulse/algoabi/txn"
)

// BasicAccountSigner signs with a single Ed25519 keypair. The signed
// transaction's signature slot carries the raw 64-byte signature, per
// spec.md section 4.E.
type BasicAccountSigner struct {
	privateKey ed25519.PrivateKey
}

// NewBasicAccountSigner wraps an Ed25519 private key (64 bytes, seed || pub,
// as produced by ed25519.GenerateKey or ed25519.NewKeyFromSeed).
func NewBasicAccountSigner(privateKey ed25519.PrivateKey) (*BasicAccountSigner, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}
	return &BasicAccountSigner{privateKey: privateKey}, nil
}

func (s *BasicAccountSigner) SignBatch(txs []txn.Transaction) ([]txn.SignedTransaction, error) {
	out := make([]txn.SignedTransaction, len(txs))
	for i, t := range txs {
		sig := ed25519.Sign(s.privateKey, txn.BytesToSign(t))
		var sigArr [64]byte
		copy(sigArr[:], sig)
		out[i] = txn.SignedTransaction{Transaction: t, Sig: sigArr, HasSig: true}
	}
	return out, nil
}

// Identity is "basic:" followed by the hex-encoded public key: two
// BasicAccountSigner values over the same keypair always compare equal.
func (s *BasicAccountSigner) Identity() string {
	pub := s.privateKey.Public().(ed25519.PublicKey)
	return "basic:" + hex.EncodeToString(pub)
}

// PublicKey exposes the signer's public key, e.g. to populate a
// transaction's Sender field.
func (s *BasicAccountSigner) PublicKey() ed25519.PublicKey {
	return s.privateKey.Public().(ed25519.PublicKey)
}
