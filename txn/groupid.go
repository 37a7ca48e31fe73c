package txn

import "crypto/sha512"

// GroupID computes the content-addressed identifier binding the given
// transactions into an atomic group: SHA-512/256 over the concatenated
// canonical encodings of the members with each member's own group field
// cleared first, per spec.md section 6.
func GroupID(members []Transaction) [32]byte {
	var buf []byte
	for _, m := range members {
		cleared := m
		cleared.Group = [32]byte{}
		buf = append(buf, CanonicalEncode(cleared)...)
	}
	return sha512.Sum512_256(buf)
}
