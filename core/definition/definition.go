package definition

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"feature-manifest/core/feature"
	"feature-manifest/core/rule"
	"feature-manifest/core/settings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition indicates a malformed definition document.
var ErrInvalidDefinition = errors.New("invalid feature definition")

// Document is the YAML shape of a definition.
type Document struct {
	Version  string        `yaml:"version"`
	Features []FeatureSpec `yaml:"features"`
}

// FeatureSpec declares one feature.
type FeatureSpec struct {
	ID        string         `yaml:"id"`
	DependsOn []string       `yaml:"depends_on"`
	Settings  map[string]any `yaml:"settings"`
	Rule      *RuleSpec      `yaml:"rule"`
}

// Definition is a loaded, validated definition.
type Definition struct {
	// Version is the declared document version, or the rule set version when none is declared.
	Version string
	// Graph holds the features and their dependencies.
	Graph *feature.Graph
	// Rules holds the availability rule of every feature that declares one.
	Rules *rule.Set
	// Defaults holds the settings declared in the definition.
	Defaults map[feature.ID]settings.Settings
}

// Store returns a settings store serving the definition defaults.
func (d *Definition) Store() settings.Store {
	return settings.NewStaticStore(d.Defaults)
}

// Parse decodes and validates a YAML definition.
// The rule set version is the digest of data, prefixed by the declared version if any,
// so documents that differ in content never share a version.
func Parse(data []byte) (*Definition, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	sum := sha256.Sum256(data)
	version := hex.EncodeToString(sum[:])
	if doc.Version != "" {
		version = doc.Version + "@" + version
	}
	return Build(doc, version)
}

// Build turns a decoded document into a Definition whose rule set carries version.
func Build(doc Document, version string) (*Definition, error) {
	label := doc.Version
	if label == "" {
		label = version
	}
	def := &Definition{
		Version:  label,
		Graph:    feature.NewGraph(),
		Rules:    rule.NewSet(version),
		Defaults: make(map[feature.ID]settings.Settings, len(doc.Features)),
	}

	// Register every feature first so declaration order is the document order.
	for _, spec := range doc.Features {
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: feature without id", ErrInvalidDefinition)
		}
		id := feature.ID(spec.ID)
		if def.Graph.Has(id) {
			return nil, fmt.Errorf("%w: feature %q declared twice", ErrInvalidDefinition, spec.ID)
		}
		def.Graph.AddFeature(id)
	}

	for _, spec := range doc.Features {
		id := feature.ID(spec.ID)

		for _, dep := range spec.DependsOn {
			if !def.Graph.Has(feature.ID(dep)) {
				return nil, fmt.Errorf("%w: feature %q depends on undeclared feature %q", ErrInvalidDefinition, spec.ID, dep)
			}
			if err := def.Graph.AddDependency(id, feature.ID(dep)); err != nil {
				return nil, fmt.Errorf("feature %q: %w", spec.ID, err)
			}
		}

		values, err := settings.FromMap(spec.Settings)
		if err != nil {
			return nil, fmt.Errorf("%w: feature %q settings: %v", ErrInvalidDefinition, spec.ID, err)
		}
		def.Defaults[id] = values

		if spec.Rule != nil {
			r, err := spec.Rule.Build()
			if err != nil {
				return nil, fmt.Errorf("feature %q rule: %w", spec.ID, err)
			}
			def.Rules.Add(id, r)
		}
	}

	return def, nil
}
