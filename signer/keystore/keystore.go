// Package keystore is a local store for signer key material: Ed25519 seeds
// keyed by the signer's Identity, encrypted at rest when opened with an
// encryption key. Adapted from pkg/secretstore's Badger-backed Store (see
// DESIGN.md); repurposed from an opaque string KV into a seed store with
// typed accessors for signer.BasicAccountSigner. It has no accessor for
// multisig subkey sets.
package keystore

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is a small KV wrapper over Badger, encrypted at rest when opened
// with an EncryptionKey.
type Store struct {
	db *badger.DB
}

// OpenOptions configures the on-disk store. EncryptionKey, when non-nil,
// must be exactly 32 bytes.
type OpenOptions struct {
	Path          string
	EncryptionKey []byte
	ReadOnly      bool
}

// Open opens (creating if absent) the badger-backed key store at opts.Path.
func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("keystore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func keyFor(identity string) []byte {
	return []byte("seed:" + identity)
}

// PutSeed stores an Ed25519 seed (32 bytes) under a signer identity, e.g.
// signer.BasicAccountSigner.Identity().
func (s *Store) PutSeed(identity string, seed []byte) error {
	if s == nil || s.db == nil {
		return errors.New("keystore: not opened")
	}
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("keystore: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(identity), seed)
	})
}

// GetSeed retrieves a previously stored Ed25519 seed.
func (s *Store) GetSeed(identity string) (seed []byte, found bool, err error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("keystore: not opened")
	}
	k := keyFor(identity)
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(k)
		if getErr != nil {
			if errors.Is(getErr, badger.ErrKeyNotFound) {
				return nil
			}
			return getErr
		}
		found = true
		return item.Value(func(val []byte) error {
			seed = append([]byte(nil), val...)
			return nil
		})
	})
	return seed, found, err
}

// PrivateKeyFromSeed reconstructs an Ed25519 private key from a stored seed.
func PrivateKeyFromSeed(seed []byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(seed)
}

// ParseEncryptionKey accepts a 32-byte key encoded as hex (optionally
// 0x-prefixed) or standard base64, matching pkg/secretstore's ParseKey.
func ParseEncryptionKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	hexCandidate := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(hexCandidate); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("keystore: decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("keystore: decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("keystore: encryption key must be hex(32 bytes) or base64(32 bytes)")
}
