package txn

import "testing"

func TestCanonicalEncodeElidesZeroFields(t *testing.T) {
	tx := Transaction{Type: TypePayment}
	encoded := CanonicalEncode(tx)
	// Only "type" is non-zero; everything else should be elided.
	if len(encoded) == 0 {
		t.Fatalf("expected at least the type field to be encoded")
	}
	withSender := tx
	withSender.Sender = [32]byte{1}
	encodedWithSender := CanonicalEncode(withSender)
	if len(encodedWithSender) <= len(encoded) {
		t.Fatalf("setting Sender should grow the canonical encoding")
	}
}

func TestCanonicalEncodeSortsFieldsRegardlessOfStructOrder(t *testing.T) {
	a := Transaction{Type: TypePayment, Fee: 1000, FirstValid: 5}
	b := Transaction{FirstValid: 5, Fee: 1000, Type: TypePayment}
	if string(CanonicalEncode(a)) != string(CanonicalEncode(b)) {
		t.Fatalf("canonical encoding should not depend on field assignment order")
	}
}

func TestGroupIDDeterministicAndOrderSensitive(t *testing.T) {
	a := Transaction{Type: TypePayment, Sender: [32]byte{1}, Fee: 1000}
	b := Transaction{Type: TypePayment, Sender: [32]byte{2}, Fee: 2000}

	g1 := GroupID([]Transaction{a, b})
	g2 := GroupID([]Transaction{a, b})
	if g1 != g2 {
		t.Fatalf("GroupID should be a pure function of its inputs")
	}

	g3 := GroupID([]Transaction{b, a})
	if g1 == g3 {
		t.Fatalf("GroupID should depend on member order")
	}
}

func TestGroupIDIgnoresExistingGroupField(t *testing.T) {
	a := Transaction{Type: TypePayment, Sender: [32]byte{1}}
	b := a
	b.Group = [32]byte{9, 9, 9}
	if GroupID([]Transaction{a}) != GroupID([]Transaction{b}) {
		t.Fatalf("GroupID must clear each member's own group field before hashing")
	}
}

func TestIDDependsOnFullEncoding(t *testing.T) {
	a := Transaction{Type: TypePayment, Sender: [32]byte{1}, Fee: 1000}
	b := Transaction{Type: TypePayment, Sender: [32]byte{2}, Fee: 1000}
	if ID(a) == ID(b) {
		t.Fatalf("different transactions should not share an id")
	}
	if ID(a) != ID(a) {
		t.Fatalf("ID should be deterministic")
	}
}
