// Package manifest resolves a feature graph, its settings and its availability
// rules into a Manifest: one immutable Descriptor per feature.
//
// # Resolution
//
// Resolver.Resolve walks the graph in topological order. Each feature first
// evaluates its own rule, then its availability is ANDed with the already resolved
// availability of every declared dependency, so a feature is never available while
// one of its dependencies is not. Resolution is all-or-nothing: any error yields no
// manifest at all.
//
// # Caching
//
// Cache memoizes manifests by a digest of their inputs (Key). Concurrent callers
// asking for the same key share a single computation. Archive stores manifests as
// JSON objects so other processes can reuse them.
//
// # Usage
//
//	resolver := manifest.NewResolver(manifest.WithLogger(logg))
//	key, _ := manifest.Key(graph, snap, rules)
//	m, err := cache.GetOrCompute(key, func() (*manifest.Manifest, error) {
//	    return resolver.Resolve(graph, snap, rules)
//	})
//	if m.IsEnabled("checkout") { ... }
package manifest
