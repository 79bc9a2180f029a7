package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "run", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterFlags(cmd)
	RegisterCrawlFlags(cmd)
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultSeedURL}, cfg.SeedURLs)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultMaxRequestRetries, cfg.MaxRequestRetries)
	assert.Equal(t, "a.product-name", cfg.LinkSelector)
	assert.Equal(t, "spa", cfg.Mode)
	assert.True(t, cfg.BrowserHeadless)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRAWL_SEED_URLS", "https://a.test/store, https://b.test/")
	t.Setenv("CRAWL_MAX_REQUEST_RETRIES", "5")
	t.Setenv("CRAWL_MODE", "static")
	t.Setenv("CRAWL_REQUEST_TIMEOUT", "15s")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.test/store", "https://b.test/"}, cfg.SeedURLs)
	assert.Equal(t, 5, cfg.MaxRequestRetries)
	assert.Equal(t, "static", cfg.Mode)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("CRAWL_MAX_CONCURRENCY", "many")

	_, err := Load(nil)
	assert.ErrorContains(t, err, "CRAWL_MAX_CONCURRENCY")
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("CRAWL_OUTPUT", "from-env.jsonl")

	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--output", "from-flag.csv",
		"--max-retries", "0",
		"--strategy", "same-domain",
		"--headful",
		"-v",
	}))

	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.csv", cfg.Output)
	assert.Equal(t, 0, cfg.MaxRequestRetries)
	assert.Equal(t, "same-domain", cfg.EnqueueStrategy)
	assert.False(t, cfg.BrowserHeadless)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.env")
	require.NoError(t, os.WriteFile(path, []byte("CRAWL_LINK_SELECTOR=a.next-page\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CRAWL_LINK_SELECTOR") })

	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", path}))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "a.next-page", cfg.LinkSelector)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"mode":     func(c *Config) { c.Mode = "turbo" },
		"seed":     func(c *Config) { c.SeedURLs = []string{"ftp://x"} },
		"retries":  func(c *Config) { c.MaxRequestRetries = -1 },
		"strategy": func(c *Config) { c.EnqueueStrategy = "anywhere" },
		"name":     func(c *Config) { c.NameSelector = "" },
		"pool":     func(c *Config) { c.BrowserPoolSize = DefaultMaxBrowserPoolSize + 1 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}

	assert.NoError(t, validate(Default()))
}
