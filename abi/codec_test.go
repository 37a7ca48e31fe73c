package abi

import (
	"bytes"
	"math/big"
	"testing"
)

func mustType(t *testing.T, s string) Type {
	t.Helper()
	typ, err := TypeOf(s)
	if err != nil {
		t.Fatalf("TypeOf(%q): %v", s, err)
	}
	return typ
}

func TestEncodeBoolPacking(t *testing.T) {
	typ := mustType(t, "bool[5]")
	val := ArrayValue([]Value{
		BoolValue(true), BoolValue(false), BoolValue(false), BoolValue(true), BoolValue(true),
	})
	got, err := Encode(typ, val)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x98}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(bool[5]) = % x, want % x", got, want)
	}
}

func TestEncodeMixedDynamicTupleWithBools(t *testing.T) {
	typ := mustType(t, "(string,bool,bool,bool,bool,string)")
	val := ArrayValue([]Value{
		StringValue("ABC"),
		BoolValue(true), BoolValue(false), BoolValue(true), BoolValue(false),
		StringValue("DEF"),
	})
	got, err := Encode(typ, val)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x00, 0x05, 0xA0, 0x00, 0x0A, 0x00, 0x03, 0x41, 0x42, 0x43, 0x00, 0x03, 0x44, 0x45, 0x46}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode mixed tuple = % x, want % x", got, want)
	}
}

func TestEncodeTwoDynamicBoolArrays(t *testing.T) {
	typ := mustType(t, "(bool[],bool[])")
	val := ArrayValue([]Value{
		ArrayValue([]Value{BoolValue(true), BoolValue(true)}),
		ArrayValue([]Value{BoolValue(true), BoolValue(true)}),
	})
	got, err := Encode(typ, val)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x00, 0x04, 0x00, 0x07, 0x00, 0x02, 0xC0, 0x00, 0x02, 0xC0}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode two dynamic bool arrays = % x, want % x", got, want)
	}
}

func TestEncodeUint64DynamicArray(t *testing.T) {
	typ := mustType(t, "uint64[]")
	vals := make([]Value, 8)
	for i := range vals {
		vals[i] = Uint64Value(uint64(i + 1))
	}
	got, err := Encode(typ, ArrayValue(vals))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(got) != 2+8*8 {
		t.Fatalf("unexpected encoded length %d", len(got))
	}
	if got[0] != 0x00 || got[1] != 0x08 {
		t.Fatalf("expected length prefix 00 08, got % x", got[:2])
	}
	for i := 0; i < 8; i++ {
		chunk := got[2+i*8 : 2+(i+1)*8]
		want := make([]byte, 8)
		want[7] = byte(i + 1)
		if !bytes.Equal(chunk, want) {
			t.Fatalf("element %d: got % x, want % x", i, chunk, want)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		typ  string
		val  Value
	}{
		{"bool5", "bool[5]", ArrayValue([]Value{BoolValue(true), BoolValue(false), BoolValue(false), BoolValue(true), BoolValue(true)})},
		{"mixed", "(string,bool,bool,bool,bool,string)", ArrayValue([]Value{
			StringValue("ABC"), BoolValue(true), BoolValue(false), BoolValue(true), BoolValue(false), StringValue("DEF"),
		})},
		{"two-bool-arrays", "(bool[],bool[])", ArrayValue([]Value{
			ArrayValue([]Value{BoolValue(true), BoolValue(true)}),
			ArrayValue([]Value{BoolValue(true), BoolValue(true)}),
		})},
		{"uint64-array", "uint64[]", ArrayValue([]Value{Uint64Value(1), Uint64Value(2), Uint64Value(3)})},
		{"address", "address", AddressValue([32]byte{1, 2, 3})},
		{"nested-tuple", "(uint64,(bool,string),byte[2])", ArrayValue([]Value{
			Uint64Value(42),
			ArrayValue([]Value{BoolValue(true), StringValue("hi")}),
			ArrayValue([]Value{ByteValue(0xAB), ByteValue(0xCD)}),
		})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			typ := mustType(t, c.typ)
			encoded, err := Encode(typ, c.val)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decoded, err := Decode(typ, encoded)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			reencoded, err := Encode(typ, decoded)
			if err != nil {
				t.Fatalf("re-Encode of decoded value: %v", err)
			}
			if !bytes.Equal(encoded, reencoded) {
				t.Fatalf("decode(encode(v)) did not round-trip: % x != % x", reencoded, encoded)
			}
		})
	}
}

func TestEncodeUintOverflow(t *testing.T) {
	typ := mustType(t, "uint8")
	_, err := Encode(typ, IntValue(big.NewInt(300)))
	if err == nil {
		t.Fatalf("expected overflow error encoding 300 as uint8")
	}
}

func TestEncodeUintNegative(t *testing.T) {
	typ := mustType(t, "uint8")
	_, err := Encode(typ, IntValue(big.NewInt(-1)))
	if err == nil {
		t.Fatalf("expected error encoding a negative value as uint8")
	}
}

func TestDecodeBoolArrayShortInput(t *testing.T) {
	typ := mustType(t, "bool[9]")
	// bool[9] needs ceil(9/8) = 2 bytes; supplying only 1 must fail.
	_, err := Decode(typ, []byte{0xFF})
	if err == nil {
		t.Fatalf("expected decode error for truncated bool[9] input")
	}
}

func TestDecodeDescendingOffsets(t *testing.T) {
	typ := mustType(t, "(bool[],bool[])")
	// Two dynamic-array head slots, second offset smaller than the first.
	encoded := []byte{0x00, 0x07, 0x00, 0x04, 0x00, 0x02, 0xC0, 0x00, 0x02, 0xC0}
	_, err := Decode(typ, encoded)
	if err == nil {
		t.Fatalf("expected decode error for descending dynamic offsets")
	}
}

func TestEncodeByteLenAgreement(t *testing.T) {
	cases := []string{"uint64", "bool", "byte", "address", "uint32[3]", "(uint64,bool,bool,byte)"}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			typ := mustType(t, s)
			val := zeroValueFor(t, typ)
			encoded, err := Encode(typ, val)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			wantLen, err := typ.ByteLen()
			if err != nil {
				t.Fatalf("ByteLen: %v", err)
			}
			if len(encoded) != wantLen {
				t.Fatalf("len(encode(v)) = %d, want byte_len = %d", len(encoded), wantLen)
			}
		})
	}
}

// zeroValueFor builds an arbitrary well-typed value for a non-dynamic type,
// used only to exercise the byte_len/encode-length agreement property.
func zeroValueFor(t *testing.T, typ Type) Value {
	t.Helper()
	switch typ.Kind() {
	case KindUint, KindUfixed:
		return Uint64Value(0)
	case KindByte:
		return ByteValue(0)
	case KindBool:
		return BoolValue(false)
	case KindAddress:
		return AddressValue([32]byte{})
	case KindArrayStatic:
		children := make([]Value, typ.StaticLength())
		for i := range children {
			children[i] = zeroValueFor(t, typ.ChildTypes()[0])
		}
		return ArrayValue(children)
	case KindTuple:
		children := make([]Value, len(typ.ChildTypes()))
		for i, c := range typ.ChildTypes() {
			children[i] = zeroValueFor(t, c)
		}
		return ArrayValue(children)
	default:
		t.Fatalf("zeroValueFor: unsupported kind for %s", typ.String())
		return Value{}
	}
}
