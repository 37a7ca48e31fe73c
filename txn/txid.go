package txn

import (
	"crypto/sha512"
	"encoding/base32"
)

// txDomainPrefix is prepended to the canonical encoding whenever bytes are
// produced for hashing-to-sign or hashing-to-id, per spec.md section 6.
var txDomainPrefix = []byte("TX")

// ID computes the transaction id: base32 (no padding) of SHA-512/256 over
// the "TX"-prefixed canonical encoding.
func ID(t Transaction) string {
	sum := sha512.Sum512_256(append(append([]byte{}, txDomainPrefix...), CanonicalEncode(t)...))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
}

// BytesToSign returns the "TX"-prefixed canonical encoding that a signer
// signs over.
func BytesToSign(t Transaction) []byte {
	return append(append([]byte{}, txDomainPrefix...), CanonicalEncode(t)...)
}
