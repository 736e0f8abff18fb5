// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/config"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Snapshot string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the resolved application configuration, populated
	// before any subcommand runs.
	AppConfig *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "rent-match",
		Short: "Match noisy rent receipt OCR output against owner, customer and property records.",
		Long: `rent-match normalizes the raw fields extracted from rent payment receipts,
matches them against candidate owners, customers and properties using
weighted fuzzy criteria, validates the business rules and materializes
payment transactions.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to rent-match!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			AppConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			if SharedFlags.Snapshot == "" {
				SharedFlags.Snapshot = cfg.Snapshot.Directory
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific match command flags
	ExpectedAmount string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input receipt JSON file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (defaults to stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Snapshot, "snapshot", "s", "", "Candidate snapshot directory")
}
