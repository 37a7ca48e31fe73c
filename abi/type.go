// Package abi implements the Algorand-style ABI type grammar and value codec:
// parsing/printing of type strings, static-vs-dynamic classification, static
// byte-length computation, and big-endian encode/decode with bool packing and
// head/tail tuple layout.
package abi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a member of the ABI type sum type.
type Kind int

const (
	KindUint Kind = iota
	KindUfixed
	KindByte
	KindBool
	KindAddress
	KindArrayStatic
	KindArrayDynamic
	KindString
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindUfixed:
		return "ufixed"
	case KindByte:
		return "byte"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindArrayStatic:
		return "array (static)"
	case KindArrayDynamic:
		return "array (dynamic)"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Type is an immutable ABI type node. Child types are held by value (slice),
// so there is no possibility of a reference cycle: the grammar has no
// self-reference production.
type Type struct {
	kind         Kind
	childTypes   []Type
	bitSize      uint16
	precision    uint16
	staticLength uint16
}

var (
	staticArrayRegexp = regexp.MustCompile(`^([a-z\d\[\](),]+)\[([1-9][\d]*)]$`)
	ufixedRegexp       = regexp.MustCompile(`^ufixed([1-9][\d]*)x([1-9][\d]*)$`)
)

// UintType builds uintN, N in [8,512], a multiple of 8.
func UintType(bitSize uint16) (Type, error) {
	if bitSize%8 != 0 || bitSize < 8 || bitSize > 512 {
		return Type{}, fmt.Errorf("abi: uint bit size %d out of range [8,512] or not a multiple of 8", bitSize)
	}
	return Type{kind: KindUint, bitSize: bitSize}, nil
}

// UfixedType builds ufixedNxM, N as for UintType, M (precision) in [1,160].
func UfixedType(bitSize, precision uint16) (Type, error) {
	if bitSize%8 != 0 || bitSize < 8 || bitSize > 512 {
		return Type{}, fmt.Errorf("abi: ufixed bit size %d out of range [8,512] or not a multiple of 8", bitSize)
	}
	if precision < 1 || precision > 160 {
		return Type{}, fmt.Errorf("abi: ufixed precision %d out of range [1,160]", precision)
	}
	return Type{kind: KindUfixed, bitSize: bitSize, precision: precision}, nil
}

// ByteType, BoolType, AddressType, StringType are the remaining scalar builders.
func ByteType() Type    { return Type{kind: KindByte} }
func BoolType() Type    { return Type{kind: KindBool} }
func AddressType() Type { return Type{kind: KindAddress} }
func StringType() Type  { return Type{kind: KindString} }

// StaticArrayType builds T[length].
func StaticArrayType(child Type, length uint16) Type {
	return Type{kind: KindArrayStatic, childTypes: []Type{child}, staticLength: length}
}

// DynamicArrayType builds T[].
func DynamicArrayType(child Type) Type {
	return Type{kind: KindArrayDynamic, childTypes: []Type{child}}
}

// TupleType builds (T1,T2,...). Go slices cap well under the uint16 length
// limit the grammar allows, so the only check needed is the spec's own bound.
func TupleType(children []Type) (Type, error) {
	if len(children) >= 65535 {
		return Type{}, fmt.Errorf("abi: tuple has too many children: %d", len(children))
	}
	return Type{kind: KindTuple, childTypes: append([]Type(nil), children...)}, nil
}

func (t Type) Kind() Kind           { return t.kind }
func (t Type) BitSize() uint16      { return t.bitSize }
func (t Type) Precision() uint16    { return t.precision }
func (t Type) StaticLength() uint16 { return t.staticLength }

// ChildTypes returns the tuple's member types, or the single element type for
// array kinds. Callers must not rely on sharing with the receiver's backing
// array across mutation -- Type is treated as immutable everywhere else, so a
// defensive copy isn't taken here.
func (t Type) ChildTypes() []Type { return t.childTypes }

// TypeOf parses an ABI type string per spec.md section 4.A, applying the rule
// set in order: dynamic-array suffix, static-array suffix, uintN, byte/bool/
// address/string literals, ufixedNxM, and finally a parenthesized tuple.
func TypeOf(str string) (Type, error) {
	switch {
	case strings.HasSuffix(str, "[]"):
		childType, err := TypeOf(str[:len(str)-2])
		if err != nil {
			return Type{}, err
		}
		return DynamicArrayType(childType), nil

	case strings.HasSuffix(str, "]"):
		matches := staticArrayRegexp.FindStringSubmatch(str)
		if len(matches) == 0 {
			return Type{}, fmt.Errorf("abi: ill-formed static array type %q", str)
		}
		childType, err := TypeOf(matches[1])
		if err != nil {
			return Type{}, err
		}
		length, err := strconv.ParseUint(matches[2], 10, 16)
		if err != nil {
			return Type{}, fmt.Errorf("abi: static array length %q out of range: %w", matches[2], err)
		}
		return StaticArrayType(childType, uint16(length)), nil

	case strings.HasPrefix(str, "uint"):
		sizeStr := strings.TrimPrefix(str, "uint")
		size, err := strconv.ParseUint(sizeStr, 10, 16)
		if err != nil {
			return Type{}, fmt.Errorf("abi: malformed uint type %q: %w", str, err)
		}
		return UintType(uint16(size))

	case str == "byte":
		return ByteType(), nil

	case strings.HasPrefix(str, "ufixed"):
		matches := ufixedRegexp.FindStringSubmatch(str)
		if len(matches) == 0 {
			return Type{}, fmt.Errorf("abi: ill-formed ufixed type %q", str)
		}
		size, err := strconv.ParseUint(matches[1], 10, 16)
		if err != nil {
			return Type{}, fmt.Errorf("abi: ufixed bit size %q out of range: %w", matches[1], err)
		}
		precision, err := strconv.ParseUint(matches[2], 10, 16)
		if err != nil {
			return Type{}, fmt.Errorf("abi: ufixed precision %q out of range: %w", matches[2], err)
		}
		return UfixedType(uint16(size), uint16(precision))

	case str == "bool":
		return BoolType(), nil

	case str == "address":
		return AddressType(), nil

	case str == "string":
		return StringType(), nil

	case strings.HasPrefix(str, "(") && strings.HasSuffix(str, ")"):
		tupleContent, err := parseTupleContent(str[1 : len(str)-1])
		if err != nil {
			return Type{}, err
		}
		childTypes := make([]Type, len(tupleContent))
		for i, segment := range tupleContent {
			childType, err := TypeOf(segment)
			if err != nil {
				return Type{}, err
			}
			childTypes[i] = childType
		}
		return TupleType(childTypes)

	default:
		return Type{}, fmt.Errorf("abi: cannot parse type string %q", str)
	}
}

// parseTupleContent splits a tuple's inner content at top-level commas using a
// paren-balance scan, so nested tuple children are not split incorrectly.
// An empty string (the "()" case) yields zero segments.
func parseTupleContent(content string) ([]string, error) {
	if content == "" {
		return nil, nil
	}

	var segments []string
	depth := 0
	start := 0
	for i, c := range content {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("abi: unbalanced parentheses in tuple content %q", content)
			}
		case ',':
			if depth == 0 {
				segment := content[start:i]
				if segment == "" {
					return nil, fmt.Errorf("abi: empty tuple segment in %q", content)
				}
				segments = append(segments, segment)
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("abi: unbalanced parentheses in tuple content %q", content)
	}
	last := content[start:]
	if last == "" {
		return nil, fmt.Errorf("abi: trailing comma in tuple content %q", content)
	}
	segments = append(segments, last)
	return segments, nil
}

// String prints the canonical grammar form; parse(print(t)) == t for every t
// produced by TypeOf.
func (t Type) String() string {
	switch t.kind {
	case KindUint:
		return fmt.Sprintf("uint%d", t.bitSize)
	case KindUfixed:
		return fmt.Sprintf("ufixed%dx%d", t.bitSize, t.precision)
	case KindByte:
		return "byte"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindString:
		return "string"
	case KindArrayStatic:
		return fmt.Sprintf("%s[%d]", t.childTypes[0].String(), t.staticLength)
	case KindArrayDynamic:
		return fmt.Sprintf("%s[]", t.childTypes[0].String())
	case KindTuple:
		parts := make([]string, len(t.childTypes))
		for i, c := range t.childTypes {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "<invalid abi type>"
	}
}

// Equal compares two types structurally.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindUint:
		return t.bitSize == other.bitSize
	case KindUfixed:
		return t.bitSize == other.bitSize && t.precision == other.precision
	case KindArrayStatic:
		return t.staticLength == other.staticLength && t.childTypes[0].Equal(other.childTypes[0])
	case KindArrayDynamic:
		return t.childTypes[0].Equal(other.childTypes[0])
	case KindTuple:
		if len(t.childTypes) != len(other.childTypes) {
			return false
		}
		for i := range t.childTypes {
			if !t.childTypes[i].Equal(other.childTypes[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsDynamic reports whether the type's encoded length depends on its value:
// true for DynamicArray and String directly, and for any StaticArray or
// Tuple that transitively contains a dynamic child.
func (t Type) IsDynamic() bool {
	switch t.kind {
	case KindArrayDynamic, KindString:
		return true
	case KindArrayStatic:
		return t.childTypes[0].IsDynamic()
	case KindTuple:
		for _, c := range t.childTypes {
			if c.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// findBoolLR scans for the run of consecutive bool children starting at
// index, extending in direction delta (+1 or -1), stopping at the first
// non-bool child or the slice boundary. Every caller (encodeTuple,
// decodeTuple, ByteLen) scans forward to find the end of a run.
func findBoolLR(types []Type, index int, delta int) int {
	until := 0
	for {
		curr := index + delta*until
		if curr < 0 || curr >= len(types) {
			break
		}
		if types[curr].kind != KindBool {
			break
		}
		until++
	}
	return until - 1
}

// ByteLen returns the static encoded length in bytes. It is defined only for
// non-dynamic types; callers must not invoke it on a type where IsDynamic()
// is true.
func (t Type) ByteLen() (int, error) {
	switch t.kind {
	case KindAddress:
		return 32, nil
	case KindByte:
		return 1, nil
	case KindUint, KindUfixed:
		return int(t.bitSize) / 8, nil
	case KindBool:
		return 1, nil
	case KindArrayStatic:
		if t.childTypes[0].kind == KindBool {
			return (int(t.staticLength) + 7) / 8, nil
		}
		childLen, err := t.childTypes[0].ByteLen()
		if err != nil {
			return 0, err
		}
		return childLen * int(t.staticLength), nil
	case KindTuple:
		total := 0
		for i := 0; i < len(t.childTypes); i++ {
			if t.childTypes[i].kind == KindBool {
				after := findBoolLR(t.childTypes, i, 1)
				total += (after + 1 + 7) / 8
				i += after
				continue
			}
			childLen, err := t.childTypes[i].ByteLen()
			if err != nil {
				return 0, err
			}
			total += childLen
		}
		return total, nil
	default:
		return 0, fmt.Errorf("abi: %s has no static byte length (dynamic type)", t.String())
	}
}
