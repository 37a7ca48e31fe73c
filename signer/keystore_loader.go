package signer

import (
	"fmt"

	"github.com/algopulse/algoabi/signer/keystore"
)

// PersistToKeystore stores s's private key material in store under s's own
// Identity, so a later FromKeystore call with that identity reconstructs an
// equivalent signer.
func (s *BasicAccountSigner) PersistToKeystore(store *keystore.Store) error {
	return store.PutSeed(s.Identity(), s.privateKey.Seed())
}

// FromKeystore reconstructs the basic account signer previously stored under
// identity (e.g. via BasicAccountSigner.PersistToKeystore), loading its
// Ed25519 seed from store.
func FromKeystore(store *keystore.Store, identity string) (*BasicAccountSigner, error) {
	seed, found, err := store.GetSeed(identity)
	if err != nil {
		return nil, fmt.Errorf("signer: loading keystore identity %s: %w", identity, err)
	}
	if !found {
		return nil, fmt.Errorf("signer: no key material stored for identity %s", identity)
	}
	s, err := NewBasicAccountSigner(keystore.PrivateKeyFromSeed(seed))
	if err != nil {
		return nil, err
	}
	if s.Identity() != identity {
		return nil, fmt.Errorf("signer: stored seed for %s reconstructs a different identity %s", identity, s.Identity())
	}
	return s, nil
}
