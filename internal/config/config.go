// Package config loads the settings this module's consumers need to stand
// up a node client, signer keystore, and composer: a YAML file overridden by
// environment variables, in the same priority order the teacher's own
// loader uses (pkg/config), narrowed to this library's surface.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// NodeConfig points at the node (or indexer) REST endpoint the client talks to.
type NodeConfig struct {
	Host  string `yaml:"host"`
	Token string `yaml:"token"`
}

// KeystoreConfig locates and unlocks the local signing-key store.
type KeystoreConfig struct {
	Path          string `yaml:"path"`
	EncryptionKey string `yaml:"encryption_key"`
}

// ComposerConfig tunes the atomic transaction composer's execution behavior.
type ComposerConfig struct {
	ConfirmationRoundLimit int `yaml:"confirmation_round_limit"`
}

// LogConfig mirrors logging.Config's fields for file-based loading.
type LogConfig struct {
	Level      string `yaml:"level"`
	OutputFile string `yaml:"output_file"`
	MaxSize    int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age_days"`
}

// Config is the fully resolved configuration: file values overridden by
// environment variables, overridden by nothing further (env always wins).
type Config struct {
	Node     NodeConfig
	Keystore KeystoreConfig
	Composer ComposerConfig
	Log      LogConfig
}

// Load reads an optional YAML file at path (skipped entirely if path is
// empty or missing) and layers environment variable overrides on top. A
// .env file in the working directory is loaded best-effort first, matching
// the teacher's cmd/ entrypoints.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Node: NodeConfig{
			Host:  firstNonEmpty(os.Getenv("ALGOABI_NODE_HOST"), file.Node.Host, "https://testnet-api.algonode.cloud"),
			Token: firstNonEmpty(os.Getenv("ALGOABI_NODE_TOKEN"), file.Node.Token, ""),
		},
		Keystore: KeystoreConfig{
			Path:          firstNonEmpty(os.Getenv("ALGOABI_KEYSTORE_PATH"), file.Keystore.Path, "keystore.badger"),
			EncryptionKey: firstNonEmpty(os.Getenv("ALGOABI_KEYSTORE_KEY"), file.Keystore.EncryptionKey, ""),
		},
		Composer: ComposerConfig{
			ConfirmationRoundLimit: firstPositiveInt(parseIntEnv("ALGOABI_CONFIRMATION_ROUND_LIMIT", 0), file.Composer.ConfirmationRoundLimit, 10),
		},
		Log: LogConfig{
			Level:      firstNonEmpty(os.Getenv("ALGOABI_LOG_LEVEL"), file.Log.Level, "info"),
			OutputFile: firstNonEmpty(os.Getenv("ALGOABI_LOG_FILE"), file.Log.OutputFile, ""),
			MaxSize:    firstPositiveInt(parseIntEnv("ALGOABI_LOG_MAX_SIZE_MB", 0), file.Log.MaxSize, 50),
			MaxBackups: firstPositiveInt(parseIntEnv("ALGOABI_LOG_MAX_BACKUPS", 0), file.Log.MaxBackups, 3),
			MaxAge:     firstPositiveInt(parseIntEnv("ALGOABI_LOG_MAX_AGE_DAYS", 0), file.Log.MaxAge, 7),
		},
	}

	if cfg.Keystore.EncryptionKey == "" {
		return nil, fmt.Errorf("config: ALGOABI_KEYSTORE_KEY (or keystore.encryption_key) is required")
	}

	return cfg, nil
}

// fileConfig is the on-disk YAML shape, kept separate from Config so env
// overrides never need zero-value/unset disambiguation against the file.
type fileConfig struct {
	Node     NodeConfig     `yaml:"node"`
	Keystore KeystoreConfig `yaml:"keystore"`
	Composer ComposerConfig `yaml:"composer"`
	Log      LogConfig      `yaml:"log"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositiveInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
