package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("SENZING_ACCEPT_EULA", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultManifestURL, cfg.ManifestURL)
	assert.Empty(t, cfg.CollectionsURL)
	assert.Equal(t, "senzup", cfg.ArchivePrefix)
	assert.Equal(t, "senzing-network", cfg.Network)
	assert.Equal(t, []string{"8251:8251"}, cfg.DemoPorts)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AcceptEULA)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_FileEnvAndOverrides(t *testing.T) {
	dir := isolate(t)

	yaml := "network: lab-net\narchive_prefix: demo\nlog_level: warn\ndemo_ports:\n  - \"9000:8251\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "senzup.yaml"), []byte(yaml), 0o600))
	t.Setenv("SENZUP_LOG_LEVEL", "debug")

	cfg, err := Load("", map[string]any{"archive_prefix": "flagged"})
	require.NoError(t, err)

	assert.Equal(t, "lab-net", cfg.Network)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "flagged", cfg.ArchivePrefix)
	assert.Equal(t, []string{"9000:8251"}, cfg.DemoPorts)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collections_url: file:///tmp/c.txt\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/c.txt", cfg.CollectionsURL)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_SenzingEULAVariable(t *testing.T) {
	isolate(t)
	t.Setenv("SENZING_ACCEPT_EULA", EULAAcceptValue)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.AcceptEULA)
}

func TestLoad_DemoPortsFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SENZUP_DEMO_PORTS", "8251:8251, 8250:8250")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"8251:8251", "8250:8250"}, cfg.DemoPorts)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
