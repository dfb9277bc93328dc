package main

import (
	"fmt"
	"os"

	"evaluation/internal/client"
	"evaluation/internal/config"
	applog "evaluation/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose   bool
	serverURL string

	cfg    *config.Config
	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "evaluation",
		Short: "Reviewer evaluation service and record editor",
		Long: `evaluation keeps one evaluation row per reviewer of an applicant.

"serve" runs the reviewer resource over HTTP. The other commands talk to a
running server: "evaluate" opens the interactive editor, the rest are one-shot.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			if serverURL != "" {
				c.ServerURL = serverURL
			}
			level := c.LogLevel
			if verbose {
				level = "debug"
			}
			l, err := applog.New(level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, logger = c, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (default from EVAL_SERVER_URL)")

	root.AddCommand(
		newServeCmd(),
		newEvaluateCmd(),
		newListCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newAverageCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newImportCmd(),
	)
	return root
}

func newClient() (*client.Client, error) {
	return client.New(cfg.ServerURL, client.WithTimeout(cfg.RequestTimeout), client.WithLogger(logger))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
