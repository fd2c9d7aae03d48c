package cli

import (
	"github.com/orca-network/orca/cli/cmd/config"
	"github.com/orca-network/orca/cli/cmd/migrate"
	"github.com/orca-network/orca/cli/cmd/serve"
	"github.com/orca-network/orca/cli/cmd/version"
	"github.com/orca-network/orca/cli/helpers"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orca",
		Short:         "Orca agent orchestrator",
		Long:          "Orca exposes an agent registry, execution lifecycle and wallet lookups as MCP tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.SetupGlobalConfig(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", helpers.DefaultConfigFile, "Path to the YAML config file")
	flags.String("env-file", helpers.DefaultEnvFile, "Path to a dotenv file")
	flags.String("log-level", "", "Log level: debug, info, warn, error or disabled")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.Bool("debug", false, "Shorthand for --log-level=debug")

	root.AddCommand(
		serve.NewServeCommand(),
		migrate.NewMigrateCommand(),
		config.NewConfigCommand(),
		version.NewVersionCommand(),
	)
	return root
}
