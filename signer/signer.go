// Package signer implements the uniform signing abstraction the composer
// relies on: every variant (basic account, logic signature, multisig)
// exposes SignBatch, and each exposes a stable Identity used to partition a
// group by signer equality, per spec.md section 4.E.
package signer

import "github.com/algopulse/algoabi/txn"

// TransactionSigner is the capability the composer depends on: sign a batch
// of transactions, in order, size-preserving.
//
// Equality of signers is nominal (Identity), not structural equality of
// opaque cryptographic handles, per the design notes in spec.md section 9:
// two Signer values represent the same signer iff their Identity values are
// equal.
type TransactionSigner interface {
	// SignBatch signs every transaction in txs and returns the signed
	// results in the same order. Implementations must not reorder or drop
	// entries: the composer's fold-back step depends on positional
	// correspondence.
	SignBatch(txs []txn.Transaction) ([]txn.SignedTransaction, error)

	// Identity returns a stable string identifying the signing material
	// (public key for a basic account, public-key-set+threshold for a
	// multisig, program bytes for a logic signature). Two signers that would
	// produce interchangeable signatures over the same transaction return
	// equal identities.
	Identity() string
}
