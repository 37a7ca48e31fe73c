package txn

import (
	"encoding/binary"
	"sort"
)

// field is one (tag, value) pair in the canonical encoding. Tags follow the
// real Algorand field names (snd, fee, fv, ...) so the layout is recognizable
// to anyone who has read the chain's own transaction encoding, even though
// the byte-level format below is a compact bespoke substitute for it: full
// msgpack compatibility is out of scope (spec.md section 1 excludes
// transaction builders beyond what the composer itself constructs), and no
// msgpack library exists anywhere in the retrieval pack (see DESIGN.md).
type field struct {
	tag   string
	value []byte
}

// CanonicalEncode renders a transaction into the canonical map-based binary
// format described in spec.md section 6: fields sorted by tag, zero-value
// fields elided, no floating point. Each retained field is written as a
// length-prefixed tag followed by a length-prefixed value, so decoding
// (not needed by the composer, only encoding for hashing) would be
// unambiguous.
func CanonicalEncode(t Transaction) []byte {
	var fields []field

	addBytes := func(tag string, b []byte) {
		if len(b) == 0 {
			return
		}
		fields = append(fields, field{tag, b})
	}
	addUint := func(tag string, v uint64) {
		if v == 0 {
			return
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, v)
		fields = append(fields, field{tag, buf})
	}
	addString := func(tag string, s string) {
		if s == "" {
			return
		}
		fields = append(fields, field{tag, []byte(s)})
	}
	addFixed := func(tag string, b [32]byte) {
		zero := [32]byte{}
		if b == zero {
			return
		}
		cp := make([]byte, 32)
		copy(cp, b[:])
		fields = append(fields, field{tag, cp})
	}

	addFixed("snd", t.Sender)
	addUint("fee", t.Fee)
	addUint("fv", t.FirstValid)
	addUint("lv", t.LastValid)
	addString("gen", t.GenesisID)
	addFixed("gh", t.GenesisHash)
	addBytes("note", t.Note)
	addFixed("lx", t.Lease)
	addFixed("rekey", t.RekeyTo)
	addFixed("grp", t.Group)
	addString("type", string(t.Type))

	if t.Type == TypeAppCall {
		addUint("apid", t.ApplicationID)
		addUint("apan", uint64(t.OnCompletion))
		addBytes("apap", t.ApprovalProgram)
		addBytes("apsu", t.ClearProgram)
		if t.GlobalSchema.NumUint != 0 || t.GlobalSchema.NumByteSlice != 0 {
			buf := make([]byte, 16)
			binary.BigEndian.PutUint64(buf[0:8], t.GlobalSchema.NumUint)
			binary.BigEndian.PutUint64(buf[8:16], t.GlobalSchema.NumByteSlice)
			fields = append(fields, field{"apgs", buf})
		}
		if t.LocalSchema.NumUint != 0 || t.LocalSchema.NumByteSlice != 0 {
			buf := make([]byte, 16)
			binary.BigEndian.PutUint64(buf[0:8], t.LocalSchema.NumUint)
			binary.BigEndian.PutUint64(buf[8:16], t.LocalSchema.NumByteSlice)
			fields = append(fields, field{"apls", buf})
		}
		addUint("apep", t.ExtraProgramPages)
		if len(t.ApplicationArgs) > 0 {
			fields = append(fields, field{"apaa", joinLengthPrefixed(t.ApplicationArgs)})
		}
		if len(t.Accounts) > 0 {
			buf := make([]byte, 0, 32*len(t.Accounts))
			for _, a := range t.Accounts {
				buf = append(buf, a[:]...)
			}
			fields = append(fields, field{"apat", buf})
		}
		if len(t.ForeignApps) > 0 {
			fields = append(fields, field{"apfa", joinUint64s(t.ForeignApps)})
		}
		if len(t.ForeignAssets) > 0 {
			fields = append(fields, field{"apas", joinUint64s(t.ForeignAssets)})
		}
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })

	out := make([]byte, 0, 256)
	for _, f := range fields {
		out = appendLengthPrefixed(out, []byte(f.tag))
		out = appendLengthPrefixed(out, f.value)
	}
	return out
}

func appendLengthPrefixed(dst, b []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, b...)
}

func joinLengthPrefixed(items [][]byte) []byte {
	var out []byte
	for _, item := range items {
		out = appendLengthPrefixed(out, item)
	}
	return out
}

func joinUint64s(vals []uint64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(out[i*8:(i+1)*8], v)
	}
	return out
}
