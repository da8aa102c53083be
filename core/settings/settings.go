package settings

import (
	"maps"
	"slices"

	"feature-manifest/core/feature"
)

// Settings is a string-keyed mapping of setting values.
type Settings map[string]Value

// Get returns the value for key, or Absent when the key is not present.
func (s Settings) Get(key string) Value {
	if v, ok := s[key]; ok {
		return v
	}
	return Absent
}

// Clone returns an independent copy. A nil mapping clones to an empty one.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	maps.Copy(out, s)
	return out
}

// Merge returns a new mapping with the keys of overlay written over s.
func (s Settings) Merge(overlay Settings) Settings {
	out := s.Clone()
	maps.Copy(out, overlay)
	return out
}

// Keys returns the keys in sorted order.
func (s Settings) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// FromMap converts a decoded map into Settings.
func FromMap(raw map[string]any) (Settings, error) {
	out := make(Settings, len(raw))
	for k, v := range raw {
		val, err := FromAny(v)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

// Snapshot is the settings input of one resolution pass.
type Snapshot struct {
	// Features holds the settings owned by each feature.
	Features map[feature.ID]Settings `json:"features"`
	// Context holds evaluation context values shared by every feature
	// (cookies, query parameters, environment).
	Context Settings `json:"context"`
}

// For returns the view a rule evaluates: context values overlaid by the
// feature's own settings.
func (s Snapshot) For(id feature.ID) Settings {
	return s.Context.Merge(s.Features[id])
}

// Own returns a copy of the settings owned by id, without context values.
func (s Snapshot) Own(id feature.ID) Settings {
	return s.Features[id].Clone()
}
