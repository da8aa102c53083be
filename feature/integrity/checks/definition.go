package checks

import (
	"errors"
	"fmt"

	"feature-manifest/core/definition"
	"feature-manifest/core/feature"
)

// DefinitionReport describes the health of the served definition.
type DefinitionReport struct {
	Version      string   `json:"version"`
	Features     int      `json:"features"`
	Rules        int      `json:"rules"`
	Cycle        []string `json:"cycle,omitempty"`
	MissingRules []string `json:"missing_rules"`
	Healthy      bool     `json:"healthy"`
}

// CheckDefinition inspects the dependency graph and rule set of def.
// A definition is healthy when its graph is acyclic and every feature has a rule.
func CheckDefinition(def *definition.Definition) (*DefinitionReport, error) {
	if def == nil {
		return nil, fmt.Errorf("no definition loaded")
	}

	report := &DefinitionReport{
		Version:      def.Version,
		Features:     def.Graph.Len(),
		Rules:        def.Rules.Len(),
		MissingRules: []string{},
	}

	if err := def.Graph.Validate(); err != nil {
		var cycle *feature.CycleError
		if !errors.As(err, &cycle) {
			return nil, err
		}
		for _, id := range cycle.Path {
			report.Cycle = append(report.Cycle, string(id))
		}
	}

	for _, id := range def.Rules.Missing(def.Graph) {
		report.MissingRules = append(report.MissingRules, string(id))
	}

	report.Healthy = len(report.Cycle) == 0 && len(report.MissingRules) == 0
	return report, nil
}
