package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Portal struct {
		BaseUrl string `json:"base_url"`
		Timeout int    `json:"timeout_seconds"`
	} `json:"portal"`
	Verbose bool `json:"verbose"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// comments are allowed
		portal: { base_url: "https://portal.example.edu", timeout_seconds: 30 },
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		portal: { timeout_seconds: 5 },
		verbose: true,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.edu", cfg.Portal.BaseUrl)
	require.Equal(t, 5, cfg.Portal.Timeout)
	require.True(t, cfg.Verbose)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))

	cfg, err := ReadConfigOrDefault[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "", cfg.Portal.BaseUrl)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	err := os.WriteFile(envFile, []byte("DINEASSIST_TEST_PORT=9001\nDINEASSIST_TEST_TIMEOUT=3s\n"), 0600)
	require.NoError(t, err)

	t.Setenv("DINEASSIST_TEST_TIMEOUT", "7s")
	t.Cleanup(func() { os.Unsetenv("DINEASSIST_TEST_PORT") })

	require.NoError(t, LoadDotenv(envFile, filepath.Join(dir, "missing.env")))

	require.Equal(t, 9001, GetInt("DINEASSIST_TEST_PORT", 8000))
	// already set variables win over the .env file
	require.Equal(t, 7*time.Second, GetDuration("DINEASSIST_TEST_TIMEOUT", time.Second))
	require.Equal(t, "fallback", GetEnv("DINEASSIST_TEST_UNSET", "fallback"))
	require.False(t, GetBool("DINEASSIST_TEST_UNSET", false))
}
