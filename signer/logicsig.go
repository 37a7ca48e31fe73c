package signer

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"

	"github.com/algopulse/algoabi/txn"
)

// logicSigDomainPrefix is prepended to a compiled program before it is
// hashed to derive a contract account address, mirroring the chain-level
// "Program"-prefixed hash used to address logic-signature accounts.
var logicSigDomainPrefix = []byte("Program")

// LogicSigSigner wraps a compiled TEAL program and its envelope: a
// contract-account program (no signature, the program's hash is the
// account), a delegated single-signature program (signed by one Ed25519
// key), or a delegated multisig program (signed by a MultisigSigner), per
// spec.md section 4.E.
type LogicSigSigner struct {
	program []byte
	args    [][]byte

	delegate       *BasicAccountSigner
	delegateMsig   *MultisigSigner
}

// NewContractAccountLogicSig builds a logic signature with no delegated
// signer: the program itself authorizes spends from its hash-derived
// address.
func NewContractAccountLogicSig(program []byte, args [][]byte) *LogicSigSigner {
	return &LogicSigSigner{program: program, args: args}
}

// NewDelegatedLogicSig builds a logic signature delegated to a single
// Ed25519 account: the account signs the program once, authorizing it to
// spend on the account's behalf.
func NewDelegatedLogicSig(program []byte, args [][]byte, delegate *BasicAccountSigner) *LogicSigSigner {
	return &LogicSigSigner{program: program, args: args, delegate: delegate}
}

// NewDelegatedMultisigLogicSig builds a logic signature delegated to a
// multisig account.
func NewDelegatedMultisigLogicSig(program []byte, args [][]byte, delegate *MultisigSigner) *LogicSigSigner {
	return &LogicSigSigner{program: program, args: args, delegateMsig: delegate}
}

// Address derives the contract-account address: SHA-512/256 over the
// "Program"-prefixed program bytes.
func (s *LogicSigSigner) Address() [32]byte {
	return sha512.Sum512_256(append(append([]byte{}, logicSigDomainPrefix...), s.program...))
}

func (s *LogicSigSigner) SignBatch(txs []txn.Transaction) ([]txn.SignedTransaction, error) {
	programBytes := append(append([]byte{}, logicSigDomainPrefix...), s.program...)
	out := make([]txn.SignedTransaction, len(txs))
	for i, t := range txs {
		lsig := txn.LogicSignature{Program: s.program, Args: s.args}

		switch {
		case s.delegate != nil:
			sig := ed25519.Sign(s.delegate.privateKey, programBytes)
			copy(lsig.Sig[:], sig)
			lsig.HasSig = true

		case s.delegateMsig != nil:
			m := s.delegateMsig
			lsig.Msig = txn.MultisigSignature{Version: m.version, Threshold: m.threshold, Subsigs: make([]txn.MultisigSubsig, len(m.pubKeys))}
			for k, pk := range m.pubKeys {
				copy(lsig.Msig.Subsigs[k].PublicKey[:], pk)
				if m.privateKeys != nil && m.privateKeys[k] != nil {
					copy(lsig.Msig.Subsigs[k].Signature[:], ed25519.Sign(m.privateKeys[k], programBytes))
					lsig.Msig.Subsigs[k].Signed = true
				}
			}
			lsig.HasMsig = true
		}

		out[i] = txn.SignedTransaction{Transaction: t, Lsig: lsig, HasLsig: true}
	}
	return out, nil
}

// Identity is keyed on the program bytes: two LogicSigSigner values over the
// same compiled program are the same signer for partitioning purposes,
// regardless of delegation envelope, matching spec.md section 4.E's
// "program bytes for lsig" identity rule.
func (s *LogicSigSigner) Identity() string {
	sum := sha512.Sum512_256(s.program)
	return "lsig:" + hex.EncodeToString(sum[:])
}
