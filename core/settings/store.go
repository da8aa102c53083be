package settings

import (
	"context"
	"maps"

	"feature-manifest/core/feature"
)

// Store supplies raw per-feature settings. It is consulted before resolution,
// never during it.
type Store interface {
	Load(ctx context.Context) (map[feature.ID]Settings, error)
}

// StaticStore serves a fixed mapping, usually the defaults of a feature definition.
type StaticStore struct {
	values map[feature.ID]Settings
}

// NewStaticStore creates a store over a copy of values.
func NewStaticStore(values map[feature.ID]Settings) *StaticStore {
	return &StaticStore{values: cloneAll(values)}
}

// Load returns a copy of the static values.
func (s *StaticStore) Load(_ context.Context) (map[feature.ID]Settings, error) {
	return cloneAll(s.values), nil
}

// Layered merges several stores. Later stores override earlier ones key by key,
// so definition defaults can be overridden by database rows.
type Layered []Store

// Load reads every layer in order and merges the results.
func (l Layered) Load(ctx context.Context) (map[feature.ID]Settings, error) {
	out := make(map[feature.ID]Settings)
	for _, store := range l {
		if store == nil {
			continue
		}
		values, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		for id, s := range values {
			out[id] = out[id].Merge(s)
		}
	}
	return out, nil
}

func cloneAll(values map[feature.ID]Settings) map[feature.ID]Settings {
	out := make(map[feature.ID]Settings, len(values))
	for id, s := range values {
		out[id] = maps.Clone(s)
		if out[id] == nil {
			out[id] = Settings{}
		}
	}
	return out
}
