package abi

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// Decode is the inverse of Encode: it reconstructs a typed value from its
// wire bytes. For non-dynamic types the caller is expected to have sliced
// exactly byte_len(t) bytes; excess or missing bytes are a DecodeCorrupt-class
// error, not silently ignored.
func Decode(t Type, encoded []byte) (Value, error) {
	switch t.kind {
	case KindUint, KindUfixed:
		want := int(t.bitSize) / 8
		if len(encoded) != want {
			return Value{}, fmt.Errorf("abi: %s expects %d bytes, got %d", t.String(), want, len(encoded))
		}
		return IntValue(new(big.Int).SetBytes(encoded)), nil

	case KindByte:
		if len(encoded) != 1 {
			return Value{}, fmt.Errorf("abi: byte expects 1 byte, got %d", len(encoded))
		}
		return ByteValue(encoded[0]), nil

	case KindBool:
		if len(encoded) != 1 {
			return Value{}, fmt.Errorf("abi: bool expects 1 byte, got %d", len(encoded))
		}
		return BoolValue(encoded[0] != 0), nil

	case KindAddress:
		if len(encoded) != 32 {
			return Value{}, fmt.Errorf("abi: address expects 32 bytes, got %d", len(encoded))
		}
		var a [32]byte
		copy(a[:], encoded)
		return AddressValue(a), nil

	case KindString:
		if len(encoded) < 2 {
			return Value{}, fmt.Errorf("abi: string encoding too short to hold a length prefix")
		}
		l := int(binary.BigEndian.Uint16(encoded[:2]))
		if 2+l != len(encoded) {
			return Value{}, fmt.Errorf("abi: string encoding not fully consumed: declared %d bytes, have %d", l, len(encoded)-2)
		}
		s := string(encoded[2:])
		if !utf8.ValidString(s) {
			return Value{}, fmt.Errorf("abi: string value is not valid utf-8")
		}
		return StringValue(s), nil

	case KindArrayDynamic:
		if len(encoded) < 2 {
			return Value{}, fmt.Errorf("abi: dynamic array encoding too short to hold a length prefix")
		}
		l := int(binary.BigEndian.Uint16(encoded[:2]))
		childTypes := repeatType(t.childTypes[0], l)
		values, err := decodeTuple(childTypes, encoded[2:])
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(values), nil

	case KindArrayStatic:
		childTypes := repeatType(t.childTypes[0], int(t.staticLength))
		values, err := decodeTuple(childTypes, encoded)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(values), nil

	case KindTuple:
		values, err := decodeTuple(t.childTypes, encoded)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(values), nil

	default:
		return Value{}, fmt.Errorf("abi: cannot decode unknown type kind")
	}
}

// decodeTuple is the inverse of encodeTuple: a single left-to-right pass over
// head slots (bool runs chunked at 8, static children by their byte_len,
// dynamic children as a 2-byte offset), followed by slicing and recursively
// decoding each dynamic child's tail from the offsets collected during the
// head pass.
func decodeTuple(childTypes []Type, encoded []byte) ([]Value, error) {
	n := len(childTypes)
	values := make([]Value, n)

	var dynIndices []int
	var dynOffsets []int

	cursor := 0
	i := 0
	for i < n {
		ct := childTypes[i]

		if ct.kind == KindBool {
			runLen := findBoolLR(childTypes, i, 1) + 1
			for _, chunk := range boolRunChunks(runLen) {
				if cursor+1 > len(encoded) {
					return nil, fmt.Errorf("abi: input byte not enough to decode bool run at element %d", i)
				}
				b := encoded[cursor]
				cursor++
				for k := 0; k < chunk; k++ {
					mask := byte(0x80) >> uint(k)
					values[i+k] = BoolValue(b&mask != 0)
				}
				i += chunk
			}
			continue
		}

		if ct.IsDynamic() {
			if cursor+2 > len(encoded) {
				return nil, fmt.Errorf("abi: input byte not enough to decode dynamic offset at element %d", i)
			}
			off := int(binary.BigEndian.Uint16(encoded[cursor : cursor+2]))
			cursor += 2
			dynIndices = append(dynIndices, i)
			dynOffsets = append(dynOffsets, off)
			i++
			continue
		}

		byteLen, err := ct.ByteLen()
		if err != nil {
			return nil, err
		}
		if cursor+byteLen > len(encoded) {
			return nil, fmt.Errorf("abi: input byte not enough to decode %s at element %d", ct.String(), i)
		}
		val, err := Decode(ct, encoded[cursor:cursor+byteLen])
		if err != nil {
			return nil, err
		}
		values[i] = val
		cursor += byteLen
		i++
	}

	if len(dynIndices) == 0 {
		if cursor != len(encoded) {
			return nil, fmt.Errorf("abi: tuple encoding not fully consumed: %d of %d bytes used", cursor, len(encoded))
		}
		return values, nil
	}

	dynOffsets = append(dynOffsets, len(encoded))
	for k := 0; k < len(dynOffsets)-1; k++ {
		if dynOffsets[k] > dynOffsets[k+1] {
			return nil, fmt.Errorf("abi: dynamic child offsets out of order (%d > %d)", dynOffsets[k], dynOffsets[k+1])
		}
	}

	for k, idx := range dynIndices {
		start, end := dynOffsets[k], dynOffsets[k+1]
		val, err := Decode(childTypes[idx], encoded[start:end])
		if err != nil {
			return nil, err
		}
		values[idx] = val
	}

	return values, nil
}
