package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/pkg/constants"
)

// chdirEmpty runs the test from an empty directory so no .env or
// .inventory.yaml in the working tree leaks in.
func chdirEmpty(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirEmpty(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultDataPath, config.Data)
	assert.Equal(t, "file", config.StoreBackend)
	assert.Equal(t, constants.DefaultStoreDir, config.StoreDir)
	assert.Equal(t, constants.EditsKey, config.StoreKey)
	assert.Equal(t, constants.DefaultHTTPTimeout, config.FetchTimeout)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("INVENTORY_DATA", "https://example.com/items.json")
	t.Setenv("INVENTORY_DATA_AUTH", "bearer")
	t.Setenv("INVENTORY_STORE_BACKEND", "badger")
	t.Setenv("INVENTORY_FETCH_TIMEOUT", "5s")
	t.Setenv("INVENTORY_FORMAT", "json")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/items.json", config.Data)
	assert.Equal(t, "bearer", config.DataAuth)
	assert.Equal(t, "badger", config.StoreBackend)
	assert.Equal(t, 5*time.Second, config.FetchTimeout)
	assert.Equal(t, "json", config.Format)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirEmpty(t)
	yaml := "data: site/items.json\nstore:\n  backend: memory\n  key: test_edits\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".inventory.yaml"), []byte(yaml), 0o600))

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "site/items.json", config.Data)
	assert.Equal(t, "memory", config.StoreBackend)
	assert.Equal(t, "test_edits", config.StoreKey)
	assert.NotEmpty(t, config.ConfigFile)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := chdirEmpty(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INVENTORY_DATA_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("INVENTORY_DATA_TOKEN") })

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.DataToken)
}

func TestLoadConfigNamedFileMustExist(t *testing.T) {
	dir := chdirEmpty(t)

	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Data: "from-file.json", StoreBackend: "file", Format: "yaml"}

	config.UpdateFromFlags(Flags{Verbose: true, StoreDir: "/tmp/edits"})
	assert.True(t, config.Verbose)
	assert.Equal(t, "from-file.json", config.Data, "empty flag keeps loaded value")
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "/tmp/edits", config.StoreDir)

	config.UpdateFromFlags(Flags{Data: "flag.json", Format: "json", StoreBackend: "memory"})
	assert.Equal(t, "flag.json", config.Data)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "memory", config.StoreBackend)
	assert.False(t, config.Verbose)
}
