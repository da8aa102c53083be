// Package settings models per-feature configuration values and where they come from.
//
// A Value is a small tagged union (null, string, number, bool) so settings loaded from
// YAML, JSON, query strings or database rows keep their type. Reading a key that is not
// present yields the Absent sentinel instead of an error, which lets availability rules
// decide for themselves what a missing value means.
//
// # Stores
//
// The Store interface is the settings source consulted before resolution:
//   - StaticStore: defaults declared in the feature definition.
//   - DBStore: rows in the feature_settings table (GORM, MySQL or SQLite).
//   - Layered: combines stores; later stores override earlier ones key by key.
//
// # Snapshots
//
// A Snapshot is the immutable input of a single resolution pass: the per-feature
// settings plus the evaluation context (request cookies, query parameters, CLI flags).
//
//	snap := settings.Snapshot{
//	    Features: loaded,
//	    Context:  settings.Settings{"env": settings.String("staging")},
//	}
//	view := snap.For("checkout")
package settings
