package signer

import (
	"bytes"
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/algopulse/algoabi/signer/keystore"
	"github.com/algopulse/algoabi/txn"
)

func TestBasicAccountSignerSignBatchPreservesOrder(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	s, err := NewBasicAccountSigner(priv)
	if err != nil {
		t.Fatalf("NewBasicAccountSigner: %v", err)
	}

	txs := []txn.Transaction{
		{Type: txn.TypePayment, Fee: 1000},
		{Type: txn.TypePayment, Fee: 2000},
	}
	signed, err := s.SignBatch(txs)
	if err != nil {
		t.Fatalf("SignBatch: %v", err)
	}
	if len(signed) != len(txs) {
		t.Fatalf("SignBatch returned %d results for %d inputs", len(signed), len(txs))
	}
	for i, st := range signed {
		if !st.HasSig {
			t.Fatalf("entry %d missing signature", i)
		}
		if !ed25519.Verify(s.PublicKey(), txn.BytesToSign(txs[i]), st.Sig[:]) {
			t.Fatalf("entry %d signature does not verify", i)
		}
	}
}

func TestBasicAccountSignerIdentityStable(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	s1, _ := NewBasicAccountSigner(priv)
	s2, _ := NewBasicAccountSigner(priv)
	if s1.Identity() != s2.Identity() {
		t.Fatalf("two signers over the same key should share an identity")
	}

	_, other, _ := ed25519.GenerateKey(nil)
	s3, _ := NewBasicAccountSigner(other)
	if s1.Identity() == s3.Identity() {
		t.Fatalf("signers over different keys should not share an identity")
	}
}

func TestMultisigSignBatchAndMerge(t *testing.T) {
	pub1, priv1, _ := ed25519.GenerateKey(nil)
	pub2, priv2, _ := ed25519.GenerateKey(nil)
	pub3, priv3, _ := ed25519.GenerateKey(nil)

	pubKeys := []ed25519.PublicKey{pub1, pub2, pub3}

	signerA, err := NewMultisigSigner(1, 2, pubKeys, []ed25519.PrivateKey{priv1, nil, nil})
	if err != nil {
		t.Fatalf("NewMultisigSigner (A): %v", err)
	}
	signerB, err := NewMultisigSigner(1, 2, pubKeys, []ed25519.PrivateKey{nil, priv2, nil})
	if err != nil {
		t.Fatalf("NewMultisigSigner (B): %v", err)
	}
	signerC, err := NewMultisigSigner(1, 2, pubKeys, []ed25519.PrivateKey{nil, nil, priv3})
	if err != nil {
		t.Fatalf("NewMultisigSigner (C): %v", err)
	}

	if signerA.Identity() != signerB.Identity() {
		t.Fatalf("co-signers over the same key set/threshold should share an identity")
	}

	tx := txn.Transaction{Type: txn.TypePayment, Fee: 1000}

	sigA, err := signerA.SignBatch([]txn.Transaction{tx})
	if err != nil {
		t.Fatalf("signerA.SignBatch: %v", err)
	}
	sigB, err := signerB.SignBatch([]txn.Transaction{tx})
	if err != nil {
		t.Fatalf("signerB.SignBatch: %v", err)
	}

	if MeetsThreshold(sigA[0].Msig) {
		t.Fatalf("one of two required signatures should not yet meet threshold")
	}

	merged, err := Merge(sigA[0].Msig, sigB[0].Msig)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !MeetsThreshold(merged) {
		t.Fatalf("merged envelope with 2 of 3 signatures should meet threshold 2")
	}
	if SignatureCount(merged) != 2 {
		t.Fatalf("SignatureCount(merged) = %d, want 2", SignatureCount(merged))
	}

	sigC, err := signerC.SignBatch([]txn.Transaction{tx})
	if err != nil {
		t.Fatalf("signerC.SignBatch: %v", err)
	}
	mergedAll, err := Merge(merged, sigC[0].Msig)
	if err != nil {
		t.Fatalf("Merge (all): %v", err)
	}
	if SignatureCount(mergedAll) != 3 {
		t.Fatalf("SignatureCount(mergedAll) = %d, want 3", SignatureCount(mergedAll))
	}
}

func TestFromKeystoreRoundTrips(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	original, err := NewBasicAccountSigner(priv)
	if err != nil {
		t.Fatalf("NewBasicAccountSigner: %v", err)
	}

	store, err := keystore.Open(keystore.OpenOptions{Path: filepath.Join(t.TempDir(), "keys")})
	if err != nil {
		t.Fatalf("keystore.Open: %v", err)
	}
	defer store.Close()

	if err := original.PersistToKeystore(store); err != nil {
		t.Fatalf("PersistToKeystore: %v", err)
	}

	loaded, err := FromKeystore(store, original.Identity())
	if err != nil {
		t.Fatalf("FromKeystore: %v", err)
	}
	if loaded.Identity() != original.Identity() {
		t.Fatalf("loaded signer identity %s, want %s", loaded.Identity(), original.Identity())
	}

	tx := txn.Transaction{Type: txn.TypePayment, Fee: 1000}
	signed, err := loaded.SignBatch([]txn.Transaction{tx})
	if err != nil {
		t.Fatalf("SignBatch: %v", err)
	}
	if !ed25519.Verify(original.PublicKey(), txn.BytesToSign(tx), signed[0].Sig[:]) {
		t.Fatalf("signature from loaded signer does not verify against original public key")
	}

	if _, err := FromKeystore(store, "basic:does-not-exist"); err == nil {
		t.Fatalf("expected an error loading an identity with no stored seed")
	}
}

func TestLogicSigContractAccountAddressStable(t *testing.T) {
	program := []byte{0x01, 0x20, 0x01, 0x01, 0x22}
	lsig := NewContractAccountLogicSig(program, nil)
	addr1 := lsig.Address()
	addr2 := NewContractAccountLogicSig(append([]byte(nil), program...), nil).Address()
	if !bytes.Equal(addr1[:], addr2[:]) {
		t.Fatalf("same program should derive the same contract account address")
	}
}

func TestLogicSigIdentityMatchesOnProgram(t *testing.T) {
	p1 := []byte{0x01, 0x20, 0x01, 0x01, 0x22}
	p2 := []byte{0x01, 0x20, 0x01, 0x02, 0x22}
	l1 := NewContractAccountLogicSig(p1, nil)
	l2 := NewContractAccountLogicSig(append([]byte(nil), p1...), nil)
	l3 := NewContractAccountLogicSig(p2, nil)
	if l1.Identity() != l2.Identity() {
		t.Fatalf("identical programs should share an identity")
	}
	if l1.Identity() == l3.Identity() {
		t.Fatalf("different programs should not share an identity")
	}
}
