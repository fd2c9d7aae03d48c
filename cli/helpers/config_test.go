package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orca-network/orca/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, configFile string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("config", configFile, "")
	cmd.Flags().String("env-file", "", "")
	cmd.Flags().String("store", "", "")
	cmd.Flags().Int("port", 0, "")
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("debug", false, "")
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Should let YAML override defaults", func(t *testing.T) {
		path := writeConfig(t, "store:\n  driver: memory\nserver:\n  port: 7001\n")
		cmd := newCommand(t, path)
		cfg, loader, err := LoadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Equal(t, 7001, cfg.Server.Port)
		assert.Equal(t, config.SourceYAML, loader.SourceOf("server.port"))
	})
	t.Run("Should let explicit flags override YAML", func(t *testing.T) {
		path := writeConfig(t, "store:\n  driver: memory\nserver:\n  port: 7001\n")
		cmd := newCommand(t, path)
		require.NoError(t, cmd.Flags().Set("port", "7002"))
		cfg, loader, err := LoadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 7002, cfg.Server.Port)
		assert.Equal(t, config.SourceCLI, loader.SourceOf("server.port"))
	})
	t.Run("Should ignore a missing config file", func(t *testing.T) {
		cmd := newCommand(t, filepath.Join(t.TempDir(), "missing.yaml"))
		cfg, _, err := LoadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, config.Default().Server.Port, cfg.Server.Port)
	})
	t.Run("Should fail on invalid values", func(t *testing.T) {
		path := writeConfig(t, "store:\n  driver: sqlite\n")
		_, _, err := LoadConfig(newCommand(t, path))
		assert.Error(t, err)
	})
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should only include flags that were set", func(t *testing.T) {
		cmd := newCommand(t, "")
		require.NoError(t, cmd.Flags().Set("store", "memory"))
		flags := ExtractCLIFlags(cmd)
		assert.Equal(t, map[string]any{"store": "memory"}, flags)
	})
	t.Run("Should map debug onto the log level", func(t *testing.T) {
		cmd := newCommand(t, "")
		require.NoError(t, cmd.Flags().Set("debug", "true"))
		flags := ExtractCLIFlags(cmd)
		assert.Equal(t, "debug", flags["log-level"])
	})
}

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should attach the configuration to the command context", func(t *testing.T) {
		path := writeConfig(t, "store:\n  driver: memory\n")
		cmd := newCommand(t, path)
		require.NoError(t, SetupGlobalConfig(cmd))
		assert.Equal(t, "memory", config.FromContext(cmd.Context()).Store.Driver)
	})
}
