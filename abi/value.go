package abi

import "math/big"

// ValueKind mirrors the value side of the sum type described in spec.md
// section 3: Bool, Byte, Int, Address, String, Array (tuples are represented
// as Array, matching the spec's explicit note that tuples reuse the Array
// variant).
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueByte
	ValueInt
	ValueAddress
	ValueString
	ValueArray
)

// Value is a typed ABI value. Only the field matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Byte    uint8
	Int     *big.Int
	Address [32]byte
	Str     string
	Array   []Value
}

func BoolValue(b bool) Value         { return Value{Kind: ValueBool, Bool: b} }
func ByteValue(b uint8) Value        { return Value{Kind: ValueByte, Byte: b} }
func IntValue(v *big.Int) Value      { return Value{Kind: ValueInt, Int: v} }
func Uint64Value(v uint64) Value     { return Value{Kind: ValueInt, Int: new(big.Int).SetUint64(v)} }
func AddressValue(a [32]byte) Value  { return Value{Kind: ValueAddress, Address: a} }
func StringValue(s string) Value     { return Value{Kind: ValueString, Str: s} }
func ArrayValue(vs []Value) Value    { return Value{Kind: ValueArray, Array: vs} }

// addressAsTuple casts an Address value into an equivalent 32-element Array
// of Byte values so the tuple codec can treat it uniformly, matching the
// official codec's tactic of casting String/Address/array kinds into Tuple
// shape before running the shared head/tail algorithm.
func (v Value) addressAsTuple() Value {
	children := make([]Value, 32)
	for i, b := range v.Address {
		children[i] = ByteValue(b)
	}
	return ArrayValue(children)
}
