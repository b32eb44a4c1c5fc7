package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/config"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

var (
	// cfgFile will hold the path to the config file, bound to the persistent flag
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "actionfilter",
	Short: "Actionfilter selects and orders due action records",
	Long: `Actionfilter takes batches of action records, collapses duplicate
entities down to their most recent record, keeps the actions that are due
within the scheduling horizon and past their cooldown, and returns them
urgent-first.

The same pipeline is reachable three ways: 'filter' for one-shot batch
processing, 'serve' for a long-running HTTP service, and 'lambda' for an
AWS Lambda deployment. Run 'actionfilter help <command>' for details.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Define the persistent --config flag on the root command
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
}

// Helper function to get the config file path (used by commands)
func getConfigPath() string {
	// Cobra automatically parses the flag into the cfgFile variable
	return cfgFile
}

// loadConfigOrDefault resolves the effective configuration for a command.
// An explicitly passed --config must load or the command fails; the default
// path is allowed to be absent, falling back to built-in defaults so the
// one-shot commands work without any setup. The returned path is empty when
// defaults are in use.
func loadConfigOrDefault(cmd *cobra.Command) (*models.Config, string, error) {
	path := getConfigPath()

	if flag := cmd.Flag("config"); flag != nil && !flag.Changed {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
