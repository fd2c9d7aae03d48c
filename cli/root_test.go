package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	t.Run("Should register every subcommand", func(t *testing.T) {
		names := make([]string, 0)
		for _, c := range RootCmd().Commands() {
			names = append(names, c.Name())
		}
		assert.Subset(t, names, []string{"serve", "migrate", "config", "version"})
	})
	t.Run("Should print the version without loading configuration", func(t *testing.T) {
		out, err := execute(t, "version", "--config", "/nonexistent/orca.yaml", "--env-file", "")
		require.NoError(t, err)
		assert.Contains(t, out, "orca ")
	})
	t.Run("Should show configuration loaded from YAML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "orca.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: memory\n"), 0o600))
		out, err := execute(t, "config", "show", "--config", path, "--env-file", "", "--sources")
		require.NoError(t, err)
		assert.Regexp(t, `store\.driver\s+memory\s+yaml`, out)
	})
	t.Run("Should fail validation for invalid configuration", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "orca.yaml")
		require.NoError(t, os.WriteFile(path, []byte("history:\n  default_limit: 500\n"), 0o600))
		_, err := execute(t, "config", "validate", "--config", path, "--env-file", "")
		assert.Error(t, err)
	})
}
