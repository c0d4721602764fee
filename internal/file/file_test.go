package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/.config/chatterbox/config.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config/chatterbox/config.json"), expanded)

	untouched, err := ExpandPath("/etc/passwd")
	require.NoError(t, err)
	require.Equal(t, "/etc/passwd", untouched)
}
