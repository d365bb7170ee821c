package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "mkfocus.yaml")

	require.NoError(t, writeDefault(dest, defaultYAML, false))
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), `expiry_delay:    "1m"`)

	err = writeDefault(dest, "x", false)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, writeDefault(dest, "x", true))
	b, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "mkfocus dev")
	assert.Contains(t, out.String(), "go version:")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["init"])
	assert.True(t, names["version"])
}
