package cmd

import (
	"errors"
	"fmt"

	"feature-manifest/core/manifest"
	"feature-manifest/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidDefinition = errors.New("definition is not valid")

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the feature definition",
	Long: `Loads the feature definition and reports dependency cycles and features
without an availability rule. Missing rules only fail validation under the
"fail" missing rule policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		policy, err := manifest.ParsePolicy(rt.cfg.Manifest.MissingRulePolicy)
		if err != nil {
			return err
		}

		def, src, err := rt.loadDefinition(cmd.Context())
		if err != nil {
			return err
		}

		report, err := checks.CheckDefinition(def)
		if err != nil {
			return err
		}

		logg := rt.logger.With(zap.String("source", src.Describe()))
		if len(report.Cycle) > 0 {
			logg.Error("Dependency cycle detected", zap.Strings("cycle", report.Cycle))
		}
		if len(report.MissingRules) > 0 {
			logg.Warn("Features without availability rule",
				zap.Strings("features", report.MissingRules),
				zap.Stringer("policy", policy))
		}

		failed := len(report.Cycle) > 0 || (len(report.MissingRules) > 0 && policy == manifest.PolicyFail)
		if failed {
			return errInvalidDefinition
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Definition %s is valid: %d features, %d rules\n",
			report.Version, report.Features, report.Rules)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
