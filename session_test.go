package algoabi

import (
	"path/filepath"
	"testing"

	"github.com/algopulse/algoabi/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Node: config.NodeConfig{Host: "https://testnet-api.algonode.cloud"},
		Keystore: config.KeystoreConfig{
			Path:          filepath.Join(t.TempDir(), "keys"),
			EncryptionKey: "",
		},
		Composer: config.ComposerConfig{ConfirmationRoundLimit: 7},
		Log:      config.LogConfig{Level: "warn"},
	}
}

func TestNewSessionFromConfigWiresNodeKeystoreAndComposer(t *testing.T) {
	cfg := testConfig(t)

	session, err := newSessionFromConfig(cfg)
	if err != nil {
		t.Fatalf("newSessionFromConfig: %v", err)
	}
	defer session.Close()

	if session.Node == nil {
		t.Fatalf("expected a node client")
	}
	if session.Keystore == nil {
		t.Fatalf("expected an open keystore")
	}

	c := session.NewComposer()
	if c.Status().String() != "Building" {
		t.Fatalf("expected a fresh composer in Building, got %s", c.Status())
	}
}

func TestSessionLoadSignerRejectsUnknownIdentity(t *testing.T) {
	cfg := testConfig(t)

	session, err := newSessionFromConfig(cfg)
	if err != nil {
		t.Fatalf("newSessionFromConfig: %v", err)
	}
	defer session.Close()

	if _, err := session.LoadSigner("basic:does-not-exist"); err == nil {
		t.Fatalf("expected an error loading an identity with no stored key material")
	}
}
