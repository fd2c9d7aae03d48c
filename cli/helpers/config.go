package helpers

import (
	"context"
	"fmt"

	"github.com/orca-network/orca/pkg/config"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	DefaultConfigFile = "orca.yaml"
	DefaultEnvFile    = ".env"
)

// LoadConfig resolves the configuration for cmd from its env file, YAML file,
// environment and explicitly set flags.
func LoadConfig(cmd *cobra.Command) (*config.Config, *config.Loader, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	sources := []config.Source{config.NewCLIProvider(ExtractCLIFlags(cmd))}
	if configFile != "" {
		sources = append([]config.Source{config.NewYAMLProvider(configFile)}, sources...)
	}
	loader := config.NewLoader()
	cfg, err := loader.Load(contextOf(cmd), sources...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

// SetupGlobalConfig loads the configuration and attaches it, together with a
// logger built from it, to the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	cfg, _, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(logger.ParseLevel(cfg.Log.Level), cfg.Log.JSON, cfg.Log.Source)
	ctx := config.ContextWithConfig(contextOf(cmd), cfg)
	ctx = logger.ContextWithLogger(ctx, log)
	cmd.SetContext(ctx)
	return nil
}

// ExtractCLIFlags collects the flags the user set explicitly, so unset flags
// never shadow YAML or environment values. --debug forces the debug level.
func ExtractCLIFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		flags["log-level"] = string(logger.DebugLevel)
	}
	return flags
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
