package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fscache/pkg/fscache"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `cache_file: /var/cache/data.yaml
max_depth: 12
checksum:
  algorithm: sha256
  block_size: 1048576
attributes:
  include: [size, checksum]
  exclude: [checksum]
store:
  kind: postgres
  dsn: postgres://localhost/cache
  name: nightly
  keep: 9
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/data.yaml", cfg.CacheFile)
	assert.Equal(t, 12, cfg.MaxDepth)
	assert.Equal(t, "sha256", cfg.Checksum.Algorithm)
	assert.Equal(t, int64(1048576), cfg.Checksum.BlockSize)
	assert.Equal(t, fscache.AttributeFilter{Include: []string{"size", "checksum"}, Exclude: []string{"checksum"}}, cfg.Filter())
	assert.Equal(t, StoreConfig{Kind: "postgres", DSN: "postgres://localhost/cache", Name: "nightly", Keep: 9}, cfg.Store)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := writeConfig(t, "max_depth: 3\n")

	cfg, err := Load(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxDepth)
}

func TestLoad_MissingKeysKeepDefaults(t *testing.T) {
	dir := writeConfig(t, "checksum:\n  algorithm: crc32\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	want := Default()
	want.Checksum.Algorithm = "crc32"
	assert.Equal(t, want, cfg)
	assert.Nil(t, cfg.Filter().Include, "no include list selects every attribute")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, fscache.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "cache_flie: typo.json\n"))
	assert.ErrorIs(t, err, fscache.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FSCACHE_CACHE_FILE", "env.yaml")
	t.Setenv("FSCACHE_STORE", "postgres")
	t.Setenv("FSCACHE_DSN", "postgres://env/db")
	t.Setenv("FSCACHE_STORE_NAME", "ci")
	t.Setenv("FSCACHE_CHECKSUM", "CRC32")

	cfg := Default()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "env.yaml", cfg.CacheFile)
	assert.Equal(t, StorePostgres, cfg.Store.Kind)
	assert.Equal(t, "postgres://env/db", cfg.Store.DSN)
	assert.Equal(t, "ci", cfg.Store.Name)
	assert.Equal(t, "crc32", cfg.Checksum.Algorithm)
}

func TestApplyEnv_DatabaseURLFallback(t *testing.T) {
	t.Setenv("FSCACHE_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://fallback/db")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://fallback/db", cfg.Store.DSN)

	cfg = Default()
	cfg.Store.DSN = "postgres://configured/db"
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://configured/db", cfg.Store.DSN, "DATABASE_URL must not override a configured dsn")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty algorithm selects xxhash", func(c *Config) { c.Checksum.Algorithm = "" }, false},
		{"unknown algorithm", func(c *Config) { c.Checksum.Algorithm = "md5" }, true},
		{"zero block size", func(c *Config) { c.Checksum.BlockSize = 0 }, true},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }, true},
		{"unknown store", func(c *Config) { c.Store.Kind = "s3" }, true},
		{"file store without file", func(c *Config) { c.CacheFile = "" }, true},
		{"postgres without dsn", func(c *Config) { c.Store.Kind = StorePostgres }, true},
		{"postgres keep zero", func(c *Config) {
			c.Store.Kind = StorePostgres
			c.Store.DSN = "postgres://x/y"
			c.Store.Keep = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, fscache.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
