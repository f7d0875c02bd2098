package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/geosuggest/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geosuggest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, source.DefaultURL, cfg.SourceURL)
	assert.Empty(t, cfg.SourceFile)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Zero(t, cfg.FetchTimeout)
	assert.Zero(t, cfg.PoolSize)
	assert.Empty(t, cfg.MetricsAddr)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithSourceURL("http://localhost:8080/countries.json"),
			WithSourceFile("countries.json"),
			WithDebounce(50*time.Millisecond),
			WithFetchTimeout(5*time.Second),
			WithPoolSize(4),
			WithMetricsAddr(":9090"),
		)

		assert.Equal(t, "http://localhost:8080/countries.json", cfg.SourceURL)
		assert.Equal(t, "countries.json", cfg.SourceFile)
		assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
		assert.Equal(t, 4, cfg.PoolSize)
		assert.Equal(t, ":9090", cfg.MetricsAddr)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "file only", opts: []ConfigOption{WithSourceURL(""), WithSourceFile("c.json")}},
		{name: "no source", opts: []ConfigOption{WithSourceURL("  ")}, wantErr: ErrSourceRequired},
		{name: "negative debounce", opts: []ConfigOption{WithDebounce(-1)}, wantErr: ErrInvalidDebounce},
		{name: "zero debounce", opts: []ConfigOption{WithDebounce(0)}},
		{name: "negative timeout", opts: []ConfigOption{WithFetchTimeout(-time.Second)}, wantErr: ErrInvalidFetchTimeout},
		{name: "negative pool size", opts: []ConfigOption{WithPoolSize(-2)}, wantErr: ErrInvalidPoolSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := NewConfig(
		WithSourceURL("  http://example.com/c.json \n"),
		WithSourceFile(" data.json "),
		WithMetricsAddr(" :9090 "),
	)
	cfg.Normalize()

	assert.Equal(t, "http://example.com/c.json", cfg.SourceURL)
	assert.Equal(t, "data.json", cfg.SourceFile)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadFile(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		path := writeConfig(t, `
source_url: http://localhost:8080/countries.json
source_file: ./countries.json
debounce: 150ms
fetch_timeout: 10s
pool_size: 8
metrics_addr: ":2112"
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080/countries.json", cfg.SourceURL)
		assert.Equal(t, "./countries.json", cfg.SourceFile)
		assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
		assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
		assert.Equal(t, 8, cfg.PoolSize)
		assert.Equal(t, ":2112", cfg.MetricsAddr)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		path := writeConfig(t, "pool_size: 2\n")
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, source.DefaultURL, cfg.SourceURL)
		assert.Equal(t, DefaultDebounce, cfg.Debounce)
		assert.Equal(t, 2, cfg.PoolSize)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadFile(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "sauce_url: http://x\n"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "debounce: soon\n"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "debounce: -5ms\n"))
		assert.ErrorIs(t, err, ErrInvalidDebounce)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
