package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// the portal of the main campus
		portal: {
			base_url: "https://dining.example.edu/NetNutrition/1",
			timeout_seconds: 20,
			requests_per_second: 5,
		},
		search: { max_concurrent_halls: 4 },
		log: { backend: "zap", format: "json" },
	}`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{ server: { port: 9000 } }`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv(envLogBackend, "slog")

	config, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://dining.example.edu/NetNutrition/1", config.Portal.BaseUrl)
	require.Equal(t, 20, config.Portal.TimeoutSeconds)
	require.Equal(t, 4, config.Search.MaxConcurrentHalls)
	require.Equal(t, 9000, config.Server.Port)
	require.Equal(t, 60, config.Server.RequestTimeoutSeconds)
	require.Equal(t, "slog", config.Log.Backend)
	require.Equal(t, "json", config.Log.Format)

	t.Setenv(envPortalUrl, "http://127.0.0.1:9999")
	t.Setenv(envPort, "7000")
	config, err = readConfig(filepath.Join(dir, "missing.json5"))
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9999", config.Portal.BaseUrl)
	require.Equal(t, 7000, config.Server.Port)
}
