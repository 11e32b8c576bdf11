package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory so no stray .env or
// config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "pmdesk.log"), cfg.LogFile)
	assert.Equal(t, dir, cfg.ExportDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("PMDESK_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("PMDESK_BACKEND", "SQLite")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "pmdesk.log"), cfg.LogFile)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PMDESK_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PMDESK_LOG_LEVEL") })

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pmdesk.yaml")
	content := "data_dir: " + filepath.Join(dir, "store") + "\nbackend: sqlite\nexport_dir: /tmp/out\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "store"), cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestFlagsWin(t *testing.T) {
	dir := isolate(t)
	t.Setenv("PMDESK_BACKEND", "sqlite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	flags.String("backend", "", "")
	require.NoError(t, flags.Parse([]string{"--backend", "csv", "--data-dir", filepath.Join(dir, "flagged")}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "flagged"), cfg.DataDir)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PMDESK_BACKEND", "sqlite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "csv", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
}

func TestValidate(t *testing.T) {
	cfg := Config{DataDir: "/data", Backend: "csv"}
	assert.NoError(t, cfg.Validate())

	cfg.Backend = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = Config{Backend: "csv"}
	assert.Error(t, cfg.Validate())
}
