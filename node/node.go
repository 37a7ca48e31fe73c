// Package node defines the external node interface the composer consumes
// (spec.md section 6) and provides an HTTP-based implementation in the
// httpnode subpackage.
package node

import (
	"context"

	"github.com/algopulse/algoabi/txn"
)

// SuggestedParams are the network parameters needed to populate a
// transaction's validity window and genesis binding.
type SuggestedParams struct {
	FeePerByte  uint64
	MinFee      uint64
	FirstValid  uint64
	LastValid   uint64
	GenesisHash [32]byte
	GenesisID   string
}

// PendingTransactionInfo is the subset of a node's pending-transaction
// lookup response the composer and return-value decoder need: confirmation
// status, emitted logs (already base64-decoded), and inner-transaction
// results (for method calls that spawn inner app calls).
type PendingTransactionInfo struct {
	ConfirmedRound uint64
	Logs           [][]byte
	InnerTxns      []PendingTransactionInfo
	PoolError      string
}

// Confirmed reports whether the transaction has been included in a block.
func (p PendingTransactionInfo) Confirmed() bool { return p.ConfirmedRound > 0 }

// Node is the node interface consumed by composer.Composer, per spec.md
// section 6.
type Node interface {
	SuggestedParams(ctx context.Context) (SuggestedParams, error)
	BroadcastRaw(ctx context.Context, raw []byte) (txID string, err error)
	PendingTransaction(ctx context.Context, txID string) (PendingTransactionInfo, error)
	WaitAfterBlock(ctx context.Context, round uint64) error
}

// EncodeSignedGroup concatenates the msgpack-free canonical encoding of each
// signed transaction in the group into the single atomic payload a node's
// broadcast endpoint expects, per spec.md section 6 ("broadcast ... the
// msgpack-encoded concatenation of the signed transactions as one atomic
// payload" -- see txn.CanonicalEncode / DESIGN.md for why this repository
// substitutes a bespoke canonical encoder for an actual msgpack dependency).
func EncodeSignedGroup(signed []txn.SignedTransaction) []byte {
	var out []byte
	for _, s := range signed {
		out = append(out, encodeSigned(s)...)
	}
	return out
}

func encodeSigned(s txn.SignedTransaction) []byte {
	body := txn.CanonicalEncode(s.Transaction)
	switch {
	case s.HasSig:
		return append(append([]byte{}, s.Sig[:]...), body...)
	case s.HasMsig:
		var out []byte
		for _, sub := range s.Msig.Subsigs {
			out = append(out, sub.PublicKey[:]...)
			if sub.Signed {
				out = append(out, sub.Signature[:]...)
			}
		}
		return append(out, body...)
	case s.HasLsig:
		out := append([]byte{}, s.Lsig.Program...)
		for _, a := range s.Lsig.Args {
			out = append(out, a...)
		}
		return append(out, body...)
	default:
		return body
	}
}
