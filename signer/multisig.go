package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/algopulse/algoabi/txn"
)

// MultisigSigner represents an ordered set of public keys with a signing
// threshold. SignBatch produces a partial multisig envelope (only the
// subkeys this signer instance holds private material for are marked
// signed); callers merge additional partial signatures via Merge until the
// threshold is reached, per spec.md section 4.E and the supplemented
// multisig-merge feature in SPEC_FULL.md.
type MultisigSigner struct {
	version   uint8
	threshold uint8
	pubKeys   []ed25519.PublicKey
	// privateKeys[i] is non-nil iff this signer instance can sign for
	// pubKeys[i]; a MultisigSigner need not hold every subkey's private
	// material.
	privateKeys []ed25519.PrivateKey
}

// NewMultisigSigner builds a multisig signer over an ordered public key set.
// privateKeys may contain nil entries for subkeys this instance cannot sign
// for (e.g. a co-signer's key known only by public key, used purely to
// compute a stable Identity across partial-signing rounds).
func NewMultisigSigner(version, threshold uint8, pubKeys []ed25519.PublicKey, privateKeys []ed25519.PrivateKey) (*MultisigSigner, error) {
	if len(pubKeys) == 0 {
		return nil, fmt.Errorf("signer: multisig requires at least one public key")
	}
	if int(threshold) < 1 || int(threshold) > len(pubKeys) {
		return nil, fmt.Errorf("signer: multisig threshold %d out of range [1,%d]", threshold, len(pubKeys))
	}
	if privateKeys != nil && len(privateKeys) != len(pubKeys) {
		return nil, fmt.Errorf("signer: multisig privateKeys length %d must match pubKeys length %d", len(privateKeys), len(pubKeys))
	}
	return &MultisigSigner{version: version, threshold: threshold, pubKeys: pubKeys, privateKeys: privateKeys}, nil
}

// SignBatch signs every transaction with every private key this instance
// holds, producing one multisig envelope per transaction with only those
// subkeys marked signed. A caller coordinating several signers merges the
// resulting envelopes with Merge.
func (s *MultisigSigner) SignBatch(txs []txn.Transaction) ([]txn.SignedTransaction, error) {
	out := make([]txn.SignedTransaction, len(txs))
	for i, t := range txs {
		msig := txn.MultisigSignature{
			Version:   s.version,
			Threshold: s.threshold,
			Subsigs:   make([]txn.MultisigSubsig, len(s.pubKeys)),
		}
		for k, pk := range s.pubKeys {
			var keyArr [32]byte
			copy(keyArr[:], pk)
			sub := txn.MultisigSubsig{PublicKey: keyArr}
			if s.privateKeys != nil && s.privateKeys[k] != nil {
				sig := ed25519.Sign(s.privateKeys[k], txn.BytesToSign(t))
				copy(sub.Signature[:], sig)
				sub.Signed = true
			}
			msig.Subsigs[k] = sub
		}
		out[i] = txn.SignedTransaction{Transaction: t, Msig: msig, HasMsig: true}
	}
	return out, nil
}

// Identity is stable across signer instances that hold different subsets of
// the same key set and threshold: it depends only on the public material,
// not on which private keys this instance happens to hold, so the composer
// partitions transactions touching the same logical multisig account
// together regardless of which co-signer built the entry.
func (s *MultisigSigner) Identity() string {
	parts := make([]string, len(s.pubKeys))
	for i, pk := range s.pubKeys {
		parts[i] = hex.EncodeToString(pk)
	}
	return fmt.Sprintf("multisig:%d:%d:%s", s.version, s.threshold, strings.Join(parts, ","))
}

// Merge folds the subkey signatures present in partial into base, in place
// over a copy, returning a new envelope where a subkey is marked signed if
// either input marked it signed. Merge rejects envelopes whose subkey counts
// differ or whose public keys disagree at any position; it does not validate
// that base and partial cover the same transaction.
func Merge(base, partial txn.MultisigSignature) (txn.MultisigSignature, error) {
	if len(base.Subsigs) != len(partial.Subsigs) {
		return txn.MultisigSignature{}, fmt.Errorf("signer: cannot merge multisig envelopes with different subkey counts (%d vs %d)", len(base.Subsigs), len(partial.Subsigs))
	}
	merged := txn.MultisigSignature{
		Version:   base.Version,
		Threshold: base.Threshold,
		Subsigs:   make([]txn.MultisigSubsig, len(base.Subsigs)),
	}
	for i := range base.Subsigs {
		b, p := base.Subsigs[i], partial.Subsigs[i]
		if b.PublicKey != p.PublicKey {
			return txn.MultisigSignature{}, fmt.Errorf("signer: multisig envelopes disagree on public key at position %d", i)
		}
		merged.Subsigs[i] = b
		if p.Signed && !b.Signed {
			merged.Subsigs[i] = p
		}
	}
	return merged, nil
}

// SignatureCount reports how many subkeys of msig carry a signature.
func SignatureCount(msig txn.MultisigSignature) int {
	n := 0
	for _, s := range msig.Subsigs {
		if s.Signed {
			n++
		}
	}
	return n
}

// MeetsThreshold reports whether msig carries at least Threshold signatures.
func MeetsThreshold(msig txn.MultisigSignature) bool {
	return SignatureCount(msig) >= int(msig.Threshold)
}
