package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/fscache/internal/checksum"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "fscache.yaml"

// Snapshot store kinds.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type ChecksumConfig struct {
	Algorithm string `yaml:"algorithm"`
	BlockSize int64  `yaml:"block_size"`
}

type AttributesConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	DSN  string `yaml:"dsn,omitempty"`
	Name string `yaml:"name"`
	Keep int    `yaml:"keep"`
}

type Config struct {
	CacheFile  string           `yaml:"cache_file"`
	MaxDepth   int              `yaml:"max_depth"`
	Checksum   ChecksumConfig   `yaml:"checksum"`
	Attributes AttributesConfig `yaml:"attributes"`
	Store      StoreConfig      `yaml:"store"`
}

// Default returns the configuration used when no fscache.yaml exists.
func Default() *Config {
	return &Config{
		CacheFile: fscache.DefaultCacheFile,
		MaxDepth:  fscache.DefaultMaxDepth,
		Checksum: ChecksumConfig{
			Algorithm: checksum.AlgorithmXXHash,
			BlockSize: fscache.DefaultChecksumBlockSize,
		},
		Store: StoreConfig{
			Kind: StoreFile,
			Name: fscache.DefaultSnapshotName,
			Keep: fscache.DefaultSnapshotKeep,
		},
	}
}

// Load reads the config at path, or fscache.yaml inside path when path is a
// directory. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ConfigFileName)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s: %v", fscache.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FSCACHE_* environment variables.
// FSCACHE_DSN falls back to DATABASE_URL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FSCACHE_CACHE_FILE"); v != "" {
		c.CacheFile = v
	}
	if v := os.Getenv("FSCACHE_STORE"); v != "" {
		c.Store.Kind = v
	}
	if v := os.Getenv("FSCACHE_DSN"); v != "" {
		c.Store.DSN = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" && c.Store.DSN == "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("FSCACHE_STORE_NAME"); v != "" {
		c.Store.Name = v
	}
	if v := os.Getenv("FSCACHE_CHECKSUM"); v != "" {
		c.Checksum.Algorithm = v
	}
}

// Validate normalises names and rejects values the tool cannot run with.
func (c *Config) Validate() error {
	c.Checksum.Algorithm = strings.ToLower(strings.TrimSpace(c.Checksum.Algorithm))
	if c.Checksum.Algorithm == "" {
		c.Checksum.Algorithm = checksum.AlgorithmXXHash
	}
	if !slices.Contains(checksum.Algorithms(), c.Checksum.Algorithm) {
		return fmt.Errorf("%w: unsupported checksum algorithm %q (supported: %s)",
			fscache.ErrInvalidConfig, c.Checksum.Algorithm, strings.Join(checksum.Algorithms(), ", "))
	}
	if c.Checksum.BlockSize <= 0 {
		return fmt.Errorf("%w: checksum.block_size must be positive, got %d", fscache.ErrInvalidConfig, c.Checksum.BlockSize)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", fscache.ErrInvalidConfig, c.MaxDepth)
	}

	c.Store.Kind = strings.ToLower(strings.TrimSpace(c.Store.Kind))
	switch c.Store.Kind {
	case "", StoreFile:
		c.Store.Kind = StoreFile
		if c.CacheFile == "" {
			return fmt.Errorf("%w: cache_file is required for the file store", fscache.ErrInvalidConfig)
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn (or $FSCACHE_DSN) is required for the postgres store", fscache.ErrInvalidConfig)
		}
		if c.Store.Name == "" {
			c.Store.Name = fscache.DefaultSnapshotName
		}
		if c.Store.Keep < 1 {
			return fmt.Errorf("%w: store.keep must be at least 1, got %d", fscache.ErrInvalidConfig, c.Store.Keep)
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q (supported: %s, %s)",
			fscache.ErrInvalidConfig, c.Store.Kind, StoreFile, StorePostgres)
	}
	return nil
}

// Filter is the attribute selection scan and check use by default.
func (c *Config) Filter() fscache.AttributeFilter {
	return fscache.AttributeFilter{Include: c.Attributes.Include, Exclude: c.Attributes.Exclude}
}
