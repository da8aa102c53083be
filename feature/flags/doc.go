// Package flags exposes resolved feature manifests to applications.
//
// The Service keeps the current feature definition as an immutable snapshot and
// swaps it atomically on reload, so an in-flight resolution never observes a
// half-updated graph. Manifests are cached by the digest of their inputs.
//
// Lookups through IsEnabled are fail-safe: any resolution error is logged and the
// feature is reported as disabled.
//
// # HTTP Endpoints
//
//   - GET /manifest : Resolves the manifest for the request context.
//   - GET /manifest/:feature : Returns one descriptor (404 for unknown features).
//   - GET /manifest/:feature/enabled : Fail-safe availability check.
//   - POST /manifest/reload : Reloads the definition and purges the cache.
//   - POST /manifest/archive : Resolves and stores the manifest in object storage.
//
// The evaluation context is built from query parameters and cookies; a cookie
// named "session" is visible to rules as "cookie.session".
//
// Collector exports cache hits, misses, resolutions and the served definition
// size to Prometheus.
package flags
