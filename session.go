// Package algoabi is this module's top-level entrypoint: it loads
// configuration, initializes logging, opens the signing keystore, and builds
// a node client, so a caller doesn't have to assemble internal/config,
// internal/logging, node/httpnode, and signer/keystore by hand before
// reaching for composer.Composer.
package algoabi

import (
	"fmt"

	"github.com/algopulse/algoabi/composer"
	"github.com/algopulse/algoabi/internal/config"
	"github.com/algopulse/algoabi/internal/logging"
	"github.com/algopulse/algoabi/node/httpnode"
	"github.com/algopulse/algoabi/signer"
	"github.com/algopulse/algoabi/signer/keystore"
)

// Session bundles the node client and keystore a composer-based workflow
// needs, all built from one Config.
type Session struct {
	Node     *httpnode.Client
	Keystore *keystore.Store

	confirmationRoundLimit int
}

// NewSession loads path (an optional YAML config file, environment
// overrides always applied on top, see internal/config.Load), initializes
// package-wide logging, opens the signer keystore, and constructs a node
// client, returning them bundled as a Session.
func NewSession(path string) (*Session, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("algoabi: loading config: %w", err)
	}
	return newSessionFromConfig(cfg)
}

func newSessionFromConfig(cfg *config.Config) (*Session, error) {
	if err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.OutputFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return nil, fmt.Errorf("algoabi: initializing logging: %w", err)
	}

	encryptionKey, err := keystore.ParseEncryptionKey(cfg.Keystore.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("algoabi: parsing keystore encryption key: %w", err)
	}
	store, err := keystore.Open(keystore.OpenOptions{
		Path:          cfg.Keystore.Path,
		EncryptionKey: encryptionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("algoabi: opening keystore: %w", err)
	}

	return &Session{
		Node:                   httpnode.New(cfg.Node.Host, cfg.Node.Token),
		Keystore:               store,
		confirmationRoundLimit: cfg.Composer.ConfirmationRoundLimit,
	}, nil
}

// NewComposer returns an empty composer preconfigured with the session's
// configured confirmation round limit, per spec.md section 4.F.
func (s *Session) NewComposer() *composer.Composer {
	return composer.New().WithConfirmationRoundLimit(s.confirmationRoundLimit)
}

// LoadSigner reconstructs a basic account signer previously persisted under
// identity via signer.BasicAccountSigner.PersistToKeystore.
func (s *Session) LoadSigner(identity string) (*signer.BasicAccountSigner, error) {
	return signer.FromKeystore(s.Keystore, identity)
}

// Close releases the session's keystore handle.
func (s *Session) Close() error {
	return s.Keystore.Close()
}
