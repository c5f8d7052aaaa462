package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Shipping int    `json:"shipping"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(path, []byte(`{
		// comments are allowed
		username: "buyer",
		password: "secret",
		shipping: 200,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Username: "buyer", Password: "secret", Shipping: 200}, cfg)

	err = os.WriteFile(LocalPath(path), []byte(`{ password: "local-secret" }`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Username: "buyer", Password: "local-secret", Shipping: 200}, cfg)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "config.local.json5"), LocalPath(filepath.Join("a", "config.json5")))
	require.Equal(t, "telemetry.local.json5", LocalPath("telemetry.json5"))
	require.Equal(t, "config.local", LocalPath("config"))
}

func TestReadConfigLocalOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(LocalPath(path), []byte(`{ username: "buyer" }`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Username: "buyer"}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ username: `), 0600))

	_, err := ReadConfig[testConfig](path)
	require.ErrorContains(t, err, "parse")
}
