package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.True(t, config.Demo())
	require.Equal(t, 30, config.RequestTimeout)
	require.NotEmpty(t, config.Chat.Database)

	// The default file should now exist on disk.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseMergesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	partial := map[string]any{
		"nhost": map[string]any{"subdomain": "myapp", "region": "eu-central-1"},
	}
	raw, err := json.Marshal(partial)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.False(t, config.Demo())
	require.Equal(t, "myapp", config.Nhost.Subdomain)
	require.Equal(t, 30, config.RequestTimeout)
	require.NotNil(t, config.Chat)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("NHOST_SUBDOMAIN", "envapp")
	t.Setenv("NHOST_REGION", "us-east-1")

	path := filepath.Join(t.TempDir(), "config.json")
	config, err := Parse(path)
	require.NoError(t, err)
	require.False(t, config.Demo())
	require.Equal(t, "envapp", config.Nhost.Subdomain)
	require.Equal(t, "us-east-1", config.Nhost.Region)
}

func TestDemoDetection(t *testing.T) {
	require.True(t, (&Config{}).Demo())
	require.True(t, (&Config{Nhost: &NhostConfig{Subdomain: "myapp"}}).Demo())
	require.False(t, (&Config{Nhost: &NhostConfig{Subdomain: "myapp", Region: "eu-central-1"}}).Demo())
}
