package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/lambdafn"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda function",
	Long: `Starts the AWS Lambda runtime loop and serves filter invocations until
the execution environment is torn down. Use this as the entrypoint when
deploying to Lambda; it expects the runtime API environment variables the
execution environment provides, so it is not useful interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfigOrDefault(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		// CloudWatch works best with one JSON document per line, so JSON
		// logging is the default here unless the config says otherwise.
		settings := cfg.Application
		if settings.LogFormat == "" {
			settings.LogFormat = "json"
		}
		if err := logger.Init(settings, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
			os.Exit(1)
		}

		lambdafn.New(cfg).Start()
	},
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
