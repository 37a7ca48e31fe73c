package composer

import (
	"github.com/algopulse/algoabi/abi"
	"github.com/algopulse/algoabi/signer"
	"github.com/algopulse/algoabi/txn"
)

// TransactionWithSigner pairs an already-built transaction with the signer
// responsible for it, the shape spec.md section 4.F requires for Tx-kind
// method arguments and for AddTransaction entries.
type TransactionWithSigner struct {
	Transaction txn.Transaction
	Signer      signer.TransactionSigner
}

// MethodArgKind distinguishes the argument shapes AddMethodCall accepts:
// one per method.ArgClass, with references split by reference kind.
type MethodArgKind int

const (
	MethodArgAbi MethodArgKind = iota
	MethodArgTx
	MethodArgRefAccount
	MethodArgRefAsset
	MethodArgRefApplication
)

// MethodArg is one actual argument supplied to AddMethodCall. Exactly one
// field is meaningful, selected by Kind.
type MethodArg struct {
	Kind MethodArgKind

	Abi abi.Value

	Tx TransactionWithSigner

	// RefAccount is a 32-byte account address (MethodArgRefAccount).
	RefAccount [32]byte
	// RefAssetID / RefApplicationID are the referenced object's id
	// (MethodArgRefAsset / MethodArgRefApplication).
	RefAssetID       uint64
	RefApplicationID uint64
}

func AbiArg(v abi.Value) MethodArg { return MethodArg{Kind: MethodArgAbi, Abi: v} }

func TxArg(t txn.Transaction, s signer.TransactionSigner) MethodArg {
	return MethodArg{Kind: MethodArgTx, Tx: TransactionWithSigner{Transaction: t, Signer: s}}
}

func RefAccountArg(addr [32]byte) MethodArg {
	return MethodArg{Kind: MethodArgRefAccount, RefAccount: addr}
}

func RefAssetArg(id uint64) MethodArg { return MethodArg{Kind: MethodArgRefAsset, RefAssetID: id} }

func RefApplicationArg(id uint64) MethodArg {
	return MethodArg{Kind: MethodArgRefApplication, RefApplicationID: id}
}
