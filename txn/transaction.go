// Package txn provides the minimal transaction collaborator the composer
// needs: enough of the transaction envelope to synthesize application calls,
// plus canonical encoding, group id, and transaction id, per spec.md
// section 6. Full transaction builders (payment/asset/key-reg field
// semantics) are an explicit non-goal; only what composer.Composer
// constructs and hashes lives here.
package txn

// Type names the transaction's on-chain type tag.
type Type string

const (
	TypePayment     Type = "pay"
	TypeKeyReg      Type = "keyreg"
	TypeAssetConfig Type = "acfg"
	TypeAssetXfer   Type = "axfer"
	TypeAssetFreeze Type = "afrz"
	TypeAppCall     Type = "appl"
)

// OnCompletion mirrors the application-call on-completion action.
type OnCompletion uint64

const (
	OnCompletionNoOp OnCompletion = iota
	OnCompletionOptIn
	OnCompletionCloseOut
	OnCompletionClearState
	OnCompletionUpdateApplication
	OnCompletionDeleteApplication
)

// StateSchema bounds an application's global or local key/value storage.
type StateSchema struct {
	NumUint      uint64
	NumByteSlice uint64
}

// Transaction is the common envelope plus the application-call fields the
// composer needs. Non-app-call transactions (added via AddTransaction as
// already-built companions) only populate the common fields and their own
// type-specific ones; the composer never inspects those beyond group/id
// bookkeeping.
type Transaction struct {
	Type Type

	Sender      [32]byte
	Fee         uint64
	FirstValid  uint64
	LastValid   uint64
	GenesisID   string
	GenesisHash [32]byte
	Note        []byte
	Lease       [32]byte
	RekeyTo     [32]byte
	Group       [32]byte

	// Application-call fields.
	ApplicationID     uint64
	OnCompletion      OnCompletion
	ApprovalProgram   []byte
	ClearProgram      []byte
	GlobalSchema      StateSchema
	LocalSchema       StateSchema
	ExtraProgramPages uint64
	ApplicationArgs   [][]byte
	Accounts          [][32]byte
	ForeignApps       []uint64
	ForeignAssets     []uint64
}

// HasGroup reports whether the transaction already carries a non-empty group
// id, which add_transaction/add_method_call must reject per spec.md 4.F.
func (t Transaction) HasGroup() bool {
	return t.Group != [32]byte{}
}

// MultisigSignature is a partially- or fully-collected multisig envelope.
type MultisigSignature struct {
	Version   uint8
	Threshold uint8
	Subsigs   []MultisigSubsig
}

// MultisigSubsig pairs a public key with its (possibly absent) signature.
type MultisigSubsig struct {
	PublicKey [32]byte
	Signature [64]byte
	Signed    bool
}

// LogicSignature carries a compiled program plus its signing envelope: none
// (contract account, addressed by the program's hash), a single Ed25519
// signature (delegated single-sig), or a multisig envelope (delegated
// multisig), per spec.md section 4.E.
type LogicSignature struct {
	Program []byte
	Args    [][]byte

	Sig  [64]byte
	HasSig bool

	Msig    MultisigSignature
	HasMsig bool
}

// SignedTransaction carries exactly one of a plain signature, a multisig
// envelope, or a logic-signature envelope, per spec.md section 6.
type SignedTransaction struct {
	Transaction Transaction

	Sig    [64]byte
	HasSig bool

	Msig    MultisigSignature
	HasMsig bool

	Lsig    LogicSignature
	HasLsig bool
}
