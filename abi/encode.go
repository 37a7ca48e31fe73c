package abi

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// abiEncodingLengthLimit is the ceiling on any length/offset field embedded in
// the wire format: both are 2-byte big-endian, so 2^16 values are addressable.
const abiEncodingLengthLimit = 1 << 16

// Encode renders a value to its wire bytes per the type's encoding rule.
// Encoding (like Decode) is defined for every type; only ByteLen is
// restricted to non-dynamic types.
func Encode(t Type, v Value) ([]byte, error) {
	switch t.kind {
	case KindUint, KindUfixed:
		if v.Kind != ValueInt || v.Int == nil {
			return nil, fmt.Errorf("abi: value for %s must be an integer", t.String())
		}
		return encodeUint(v.Int, t.bitSize)

	case KindByte:
		if v.Kind != ValueByte {
			return nil, fmt.Errorf("abi: value for byte must be a byte")
		}
		return []byte{v.Byte}, nil

	case KindBool:
		if v.Kind != ValueBool {
			return nil, fmt.Errorf("abi: value for bool must be a bool")
		}
		return []byte{encodeBool(v.Bool)}, nil

	case KindAddress:
		if v.Kind != ValueAddress {
			return nil, fmt.Errorf("abi: value for address must be an address")
		}
		out := make([]byte, 32)
		copy(out, v.Address[:])
		return out, nil

	case KindString:
		if v.Kind != ValueString {
			return nil, fmt.Errorf("abi: value for string must be a string")
		}
		raw := []byte(v.Str)
		if len(raw) >= abiEncodingLengthLimit {
			return nil, fmt.Errorf("abi: string value too long to encode (%d bytes)", len(raw))
		}
		out := make([]byte, 2+len(raw))
		binary.BigEndian.PutUint16(out, uint16(len(raw)))
		copy(out[2:], raw)
		return out, nil

	case KindArrayStatic:
		if v.Kind != ValueArray {
			return nil, fmt.Errorf("abi: value for %s must be an array", t.String())
		}
		if len(v.Array) != int(t.staticLength) {
			return nil, fmt.Errorf("abi: %s expects %d elements, got %d", t.String(), t.staticLength, len(v.Array))
		}
		childTypes := repeatType(t.childTypes[0], int(t.staticLength))
		return encodeTuple(childTypes, v.Array)

	case KindArrayDynamic:
		if v.Kind != ValueArray {
			return nil, fmt.Errorf("abi: value for %s must be an array", t.String())
		}
		length := len(v.Array)
		if length >= abiEncodingLengthLimit {
			return nil, fmt.Errorf("abi: dynamic array too long to encode (%d elements)", length)
		}
		childTypes := repeatType(t.childTypes[0], length)
		body, err := encodeTuple(childTypes, v.Array)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 2+len(body))
		binary.BigEndian.PutUint16(out, uint16(length))
		copy(out[2:], body)
		return out, nil

	case KindTuple:
		if v.Kind != ValueArray {
			return nil, fmt.Errorf("abi: value for tuple must be an array")
		}
		return encodeTuple(t.childTypes, v.Array)

	default:
		return nil, fmt.Errorf("abi: cannot encode unknown type kind")
	}
}

func repeatType(t Type, n int) []Type {
	out := make([]Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func encodeUint(value *big.Int, bitSize uint16) ([]byte, error) {
	if value.Sign() < 0 {
		return nil, fmt.Errorf("abi: cannot encode negative value %s as uint%d", value.String(), bitSize)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
	if value.Cmp(limit) >= 0 {
		return nil, fmt.Errorf("abi: value %s overflows uint%d", value.String(), bitSize)
	}
	out := make([]byte, bitSize/8)
	value.FillBytes(out)
	return out, nil
}

func encodeBool(b bool) byte {
	if b {
		return 0x80
	}
	return 0x00
}

// compressBools packs up to 8 bools into one byte, MSB-first: bit 7 holds
// bools[0], bit 6 holds bools[1], and so on.
func compressBools(bools []bool) byte {
	var b byte
	for i, v := range bools {
		if v {
			b |= 1 << uint(7-i)
		}
	}
	return b
}

// boolRunChunks splits a run of R consecutive bool children into groups of at
// most 8, each group packing into exactly one byte. Chunking explicitly
// (rather than scanning an unbounded run and relying on the caller having
// started at an aligned offset) removes the alignment hazard flagged in the
// design notes: every chunk boundary is a multiple of 8 elements into the
// run, by construction, not by accident of call order.
func boolRunChunks(runLen int) []int {
	var chunks []int
	remaining := runLen
	for remaining > 0 {
		chunk := remaining
		if chunk > 8 {
			chunk = 8
		}
		chunks = append(chunks, chunk)
		remaining -= chunk
	}
	return chunks
}

// encodeTuple implements the head/tail algorithm of section 4.B: static
// children (with consecutive bools packed 8-to-a-byte) occupy fixed-size head
// slots; dynamic children occupy a 2-byte offset head slot plus a tail
// payload appended after all heads.
func encodeTuple(childTypes []Type, values []Value) ([]byte, error) {
	if len(childTypes) != len(values) {
		return nil, fmt.Errorf("abi: tuple arity mismatch: %d types, %d values", len(childTypes), len(values))
	}

	var heads, tails [][]byte
	var dynamicSlot []bool

	i := 0
	for i < len(childTypes) {
		ct := childTypes[i]

		if ct.kind == KindBool {
			runLen := findBoolLR(childTypes, i, 1) + 1
			for _, chunk := range boolRunChunks(runLen) {
				bits := make([]bool, chunk)
				for k := 0; k < chunk; k++ {
					if values[i+k].Kind != ValueBool {
						return nil, fmt.Errorf("abi: tuple element %d must be bool", i+k)
					}
					bits[k] = values[i+k].Bool
				}
				heads = append(heads, []byte{compressBools(bits)})
				tails = append(tails, nil)
				dynamicSlot = append(dynamicSlot, false)
				i += chunk
			}
			continue
		}

		if ct.IsDynamic() {
			tail, err := Encode(ct, values[i])
			if err != nil {
				return nil, err
			}
			heads = append(heads, []byte{0x00, 0x00})
			tails = append(tails, tail)
			dynamicSlot = append(dynamicSlot, true)
			i++
			continue
		}

		head, err := Encode(ct, values[i])
		if err != nil {
			return nil, err
		}
		heads = append(heads, head)
		tails = append(tails, nil)
		dynamicSlot = append(dynamicSlot, false)
		i++
	}

	headLength := 0
	for _, h := range heads {
		headLength += len(h)
	}

	tailOffset := 0
	for idx, dyn := range dynamicSlot {
		if dyn {
			offset := headLength + tailOffset
			if offset >= abiEncodingLengthLimit {
				return nil, fmt.Errorf("abi: dynamic child offset %d exceeds 16-bit range", offset)
			}
			binary.BigEndian.PutUint16(heads[idx], uint16(offset))
		}
		tailOffset += len(tails[idx])
	}

	total := headLength + tailOffset
	out := make([]byte, 0, total)
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, t := range tails {
		out = append(out, t...)
	}
	return out, nil
}
