package composer

import "github.com/algopulse/algoabi/txn"

// foreignArrays accumulates one pending application call's accounts/assets/
// apps reference lists, resolving dedup and implicit zeroth-slot addressing
// per spec.md section 4.D.
type foreignArrays struct {
	sender        [32]byte
	appID         uint64 // 0 when the call creates a new application
	accounts      [][32]byte
	assets        []uint64
	apps          []uint64
}

// addAccount resolves an account reference to its uint8 index: the sender
// occupies implicit index 0; otherwise the account is deduplicated against
// already-added accounts and appended if new.
func (f *foreignArrays) addAccount(addr [32]byte) uint8 {
	if addr == f.sender {
		return 0
	}
	for i, a := range f.accounts {
		if a == addr {
			return uint8(1 + i)
		}
	}
	f.accounts = append(f.accounts, addr)
	return uint8(1 + len(f.accounts) - 1)
}

// addApplication resolves an application reference to its uint8 index: the
// application being called occupies implicit index 0, except when appID == 0
// (the call is creating a new application, so there is no id yet to compare
// against -- the original implementation's special case, carried over per
// SPEC_FULL.md's supplemented-features section). Otherwise dedup as above.
func (f *foreignArrays) addApplication(id uint64) uint8 {
	if f.appID != 0 && id == f.appID {
		return 0
	}
	for i, a := range f.apps {
		if a == id {
			return uint8(1 + i)
		}
	}
	f.apps = append(f.apps, id)
	return uint8(1 + len(f.apps) - 1)
}

// addAsset resolves an asset reference to its uint8 index. Assets have no
// implicit zeroth element: indices start at 0 and deduplicate.
func (f *foreignArrays) addAsset(id uint64) uint8 {
	for i, a := range f.assets {
		if a == id {
			return uint8(i)
		}
	}
	f.assets = append(f.assets, id)
	return uint8(len(f.assets) - 1)
}

// apply writes the accumulated reference lists into the transaction being
// synthesized.
func (f *foreignArrays) apply(t *txn.Transaction) {
	t.Accounts = f.accounts
	t.ForeignAssets = f.assets
	t.ForeignApps = f.apps
}
