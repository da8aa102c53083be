package manifest

import (
	"encoding/json"
	"slices"

	"feature-manifest/core/feature"
	"feature-manifest/core/settings"
)

// Descriptor is the resolved state of one feature. It is never modified after
// resolution; accessors return copies.
type Descriptor struct {
	available    bool
	dependencies []feature.ID
	settings     settings.Settings
}

// NewDescriptor builds a descriptor from copies of its inputs.
func NewDescriptor(available bool, dependencies []feature.ID, s settings.Settings) Descriptor {
	deps := slices.Clone(dependencies)
	if deps == nil {
		deps = []feature.ID{}
	}
	return Descriptor{
		available:    available,
		dependencies: deps,
		settings:     s.Clone(),
	}
}

// IsAvailable reports the final availability.
func (d Descriptor) IsAvailable() bool { return d.available }

// Dependencies returns the declared dependencies in declaration order.
func (d Descriptor) Dependencies() []feature.ID { return slices.Clone(d.dependencies) }

// Settings returns the feature's own settings.
func (d Descriptor) Settings() settings.Settings { return d.settings.Clone() }

type descriptorJSON struct {
	IsAvailable  bool              `json:"is_available"`
	Dependencies []feature.ID      `json:"dependencies"`
	Settings     settings.Settings `json:"settings"`
}

// MarshalJSON encodes availability, dependencies and settings.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(descriptorJSON{
		IsAvailable:  d.available,
		Dependencies: d.Dependencies(),
		Settings:     d.Settings(),
	})
}

// UnmarshalJSON decodes a descriptor written by MarshalJSON.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw descriptorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = NewDescriptor(raw.IsAvailable, raw.Dependencies, raw.Settings)
	return nil
}
