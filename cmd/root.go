package cmd

import (
	"fmt"
	"os"

	"feature-manifest/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var definitionPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "feature-manifest",
	Short: "Feature Manifest Service",
	Long: `Feature Manifest resolves which features are available for a request.
It evaluates availability rules over a feature dependency graph and serves
the resulting manifest over HTTP and on the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads best on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&definitionPath, "definition", "d", "", "Definition file (overrides DEFINITION_PATH and DEFINITION_OBJECT)")
}
