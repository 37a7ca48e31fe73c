// Package method implements the ABI method descriptor: signature parsing,
// selector computation, transaction-count accounting, and classification of
// arguments into transaction, reference, and plain ABI-value kinds.
package method

import "github.com/algopulse/algoabi/abi"

// TransactionKind enumerates the transaction-type keywords a Tx-classified
// argument may be pinned to, carried over from the reference implementation's
// reference/transaction keyword set.
type TransactionKind int

const (
	TxnAny TransactionKind = iota
	TxnPay
	TxnKeyReg
	TxnAssetConfig
	TxnAssetXfer
	TxnAssetFreeze
	TxnAppCall
)

var transactionKeywords = map[string]TransactionKind{
	"txn":   TxnAny,
	"pay":   TxnPay,
	"keyreg": TxnKeyReg,
	"acfg":  TxnAssetConfig,
	"axfer": TxnAssetXfer,
	"afrz":  TxnAssetFreeze,
	"appl":  TxnAppCall,
}

// ReferenceKind enumerates the reference-argument keywords.
type ReferenceKind int

const (
	RefAccount ReferenceKind = iota
	RefAsset
	RefApplication
)

var referenceKeywords = map[string]ReferenceKind{
	"account":     RefAccount,
	"asset":       RefAsset,
	"application": RefApplication,
}

// ArgClass is the outcome of classifying a method argument's declared type
// string, per spec.md section 4.C / 3.
type ArgClass int

const (
	ArgClassTx ArgClass = iota
	ArgClassRef
	ArgClassAbiObj
)

// Arg is one formal parameter of a method descriptor.
type Arg struct {
	Name       string
	Desc       string
	TypeString string

	class     ArgClass
	txnKind   TransactionKind
	refKind   ReferenceKind
	abiType   abi.Type
	abiTypeOK bool
}

// IsTransactionType reports whether s names one of the transaction-type
// keywords (as opposed to an ABI value type or a reference type).
func IsTransactionType(s string) (TransactionKind, bool) {
	k, ok := transactionKeywords[s]
	return k, ok
}

// IsReferenceType reports whether s names one of the reference-type
// keywords.
func IsReferenceType(s string) (ReferenceKind, bool) {
	k, ok := referenceKeywords[s]
	return k, ok
}

// newArg classifies a raw type string into its argument class, parsing the
// ABI type only when the argument is neither a transaction nor a reference.
func newArg(name, desc, typeString string) (Arg, error) {
	a := Arg{Name: name, Desc: desc, TypeString: typeString}

	if kind, ok := IsTransactionType(typeString); ok {
		a.class = ArgClassTx
		a.txnKind = kind
		return a, nil
	}
	if kind, ok := IsReferenceType(typeString); ok {
		a.class = ArgClassRef
		a.refKind = kind
		return a, nil
	}

	t, err := abi.TypeOf(typeString)
	if err != nil {
		return Arg{}, err
	}
	a.class = ArgClassAbiObj
	a.abiType = t
	a.abiTypeOK = true
	return a, nil
}

// Class reports the argument's classification.
func (a Arg) Class() ArgClass { return a.class }

// TransactionKind is valid only when Class() == ArgClassTx.
func (a Arg) TransactionKind() TransactionKind { return a.txnKind }

// ReferenceKind is valid only when Class() == ArgClassRef.
func (a Arg) ReferenceKind() ReferenceKind { return a.refKind }

// AbiType is valid only when Class() == ArgClassAbiObj.
func (a Arg) AbiType() (abi.Type, bool) { return a.abiType, a.abiTypeOK }

// IsTransactionArg reports whether this argument occupies a transaction slot
// in the atomic group rather than an ABI app-call argument slot.
func (a Arg) IsTransactionArg() bool { return a.class == ArgClassTx }

// Return is the method's declared return slot: either void, or a concrete
// ABI type.
type Return struct {
	Desc       string
	TypeString string

	isVoid  bool
	abiType abi.Type
}

// VoidReturnType is the literal spelling of a void return in a signature.
const VoidReturnType = "void"

func newReturn(desc, typeString string) (Return, error) {
	if typeString == VoidReturnType {
		return Return{Desc: desc, TypeString: typeString, isVoid: true}, nil
	}
	t, err := abi.TypeOf(typeString)
	if err != nil {
		return Return{}, err
	}
	return Return{Desc: desc, TypeString: typeString, abiType: t}, nil
}

// IsVoid reports whether the method declares no return value.
func (r Return) IsVoid() bool { return r.isVoid }

// AbiType is valid only when IsVoid() is false.
func (r Return) AbiType() abi.Type { return r.abiType }
