package manifest

import (
	"encoding/json"
	"fmt"
	"slices"

	"feature-manifest/core/feature"
	"feature-manifest/core/settings"
)

// Manifest is the complete set of resolved descriptors for one evaluation context.
// It is immutable and safe for concurrent reads.
type Manifest struct {
	order   []feature.ID
	entries map[feature.ID]Descriptor
}

func newManifest(capacity int) *Manifest {
	return &Manifest{
		order:   make([]feature.ID, 0, capacity),
		entries: make(map[feature.ID]Descriptor, capacity),
	}
}

func (m *Manifest) put(id feature.ID, d Descriptor) {
	if _, ok := m.entries[id]; !ok {
		m.order = append(m.order, id)
	}
	m.entries[id] = d
}

// IsEnabled reports whether id resolved available. Unknown features are disabled.
func (m *Manifest) IsEnabled(id feature.ID) bool {
	if m == nil {
		return false
	}
	return m.entries[id].available
}

// SettingsFor returns the settings of id, or an empty mapping for unknown features.
func (m *Manifest) SettingsFor(id feature.ID) settings.Settings {
	if m == nil {
		return settings.Settings{}
	}
	d, ok := m.entries[id]
	if !ok {
		return settings.Settings{}
	}
	return d.Settings()
}

// Descriptor returns the descriptor of id.
func (m *Manifest) Descriptor(id feature.ID) (Descriptor, error) {
	if m != nil {
		if d, ok := m.entries[id]; ok {
			return d, nil
		}
	}
	return Descriptor{}, &feature.UnknownFeatureError{ID: id}
}

// Features returns the feature ids in resolution order.
func (m *Manifest) Features() []feature.ID {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Len returns the number of descriptors.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

type entryJSON struct {
	ID feature.ID `json:"id"`
	descriptorJSON
}

// MarshalJSON encodes the manifest as an ordered list of descriptors.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	out := struct {
		Features []entryJSON `json:"features"`
	}{Features: make([]entryJSON, 0, m.Len())}

	for _, id := range m.Features() {
		d := m.entries[id]
		out.Features = append(out.Features, entryJSON{
			ID: id,
			descriptorJSON: descriptorJSON{
				IsAvailable:  d.available,
				Dependencies: d.Dependencies(),
				Settings:     d.Settings(),
			},
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a manifest written by MarshalJSON.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Features []entryJSON `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := newManifest(len(raw.Features))
	for _, e := range raw.Features {
		if _, dup := decoded.entries[e.ID]; dup {
			return fmt.Errorf("duplicate feature %q in manifest", string(e.ID))
		}
		decoded.put(e.ID, NewDescriptor(e.IsAvailable, e.Dependencies, e.Settings))
	}
	*m = *decoded
	return nil
}
