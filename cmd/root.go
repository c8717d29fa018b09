package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/directord/a2dd/internal/config"
	"github.com/directord/a2dd/internal/logging"
)

var (
	cfgFile   string
	verbosity int
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "a2dd",
	Short: "Convert Ansible content into DirectorD orchestrations",
	Long: `a2dd converts Ansible playbooks, task files and roles into DirectorD
orchestration jobs.

Anything the converter recognizes but cannot translate is kept as a comment
above the job it belongs to, so the result can be audited by hand. Modules
without a translation become ECHO jobs.`,
	SilenceUsage: true, // Don't print usage on errors unrelated to flags
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
}

// GetConfigPath returns the configured config file path.
func GetConfigPath() string {
	return cfgFile
}

// loadConfig reads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("cmd")
	logger.Debug().Str("config", cfg.String()).Msg("Configuration loaded")
	return cfg, nil
}
