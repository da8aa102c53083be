package flags

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"feature-manifest/core/definition"
	"feature-manifest/core/feature"
	"feature-manifest/core/manifest"
	"feature-manifest/core/settings"

	"go.uber.org/zap"
)

var (
	// ErrNoSource is returned by Reload when the service has no definition source.
	ErrNoSource = errors.New("no definition source configured")
	// ErrNoArchive is returned by Archive when manifest archiving is not configured.
	ErrNoArchive = errors.New("manifest archive not configured")
)

// Options wires the collaborators of a Service. Only Resolver and Cache are required.
type Options struct {
	// Source reloads the definition. Nil disables Reload.
	Source definition.Source
	// Store supplies settings layered over the definition defaults. Nil means defaults only.
	Store settings.Store
	// Resolver resolves manifests.
	Resolver *manifest.Resolver
	// Cache memoizes manifests.
	Cache *manifest.Cache
	// Archive stores manifests in object storage. Nil disables Archive.
	Archive *manifest.Archive
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Service resolves manifests for evaluation contexts.
type Service struct {
	current  atomic.Pointer[definition.Definition]
	source   definition.Source
	store    settings.Store
	resolver *manifest.Resolver
	cache    *manifest.Cache
	archive  *manifest.Archive
	logger   *zap.Logger
}

// NewService creates a service serving def.
func NewService(def *definition.Definition, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		source:   opts.Source,
		store:    opts.Store,
		resolver: opts.Resolver,
		cache:    opts.Cache,
		archive:  opts.Archive,
		logger:   logger,
	}
	s.current.Store(def)
	return s
}

// Definition returns the definition currently served.
func (s *Service) Definition() *definition.Definition {
	return s.current.Load()
}

// CacheStats returns the manifest cache counters.
func (s *Service) CacheStats() manifest.Stats {
	return s.cache.Stats()
}

// CachedManifests returns the number of manifests currently cached.
func (s *Service) CachedManifests() int {
	return s.cache.Len()
}

// Manifest resolves (or fetches from cache) the manifest for evalCtx.
// It also returns the cache key identifying the inputs.
func (s *Service) Manifest(ctx context.Context, evalCtx settings.Settings) (*manifest.Manifest, string, error) {
	def := s.current.Load()

	values, err := settings.Layered{def.Store(), s.store}.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}
	snap := settings.Snapshot{Features: values, Context: evalCtx}

	key, err := manifest.Key(def.Graph, snap, def.Rules)
	if err != nil {
		return nil, "", err
	}

	m, err := s.cache.GetOrCompute(key, func() (*manifest.Manifest, error) {
		return s.resolver.Resolve(def.Graph, snap, def.Rules)
	})
	if err != nil {
		return nil, key, err
	}
	return m, key, nil
}

// IsEnabled reports whether id is available for evalCtx.
// Any resolution failure is logged and reported as disabled.
func (s *Service) IsEnabled(ctx context.Context, id feature.ID, evalCtx settings.Settings) bool {
	m, _, err := s.Manifest(ctx, evalCtx)
	if err != nil {
		s.logger.Error("Manifest resolution failed, reporting feature as disabled",
			zap.String("feature", string(id)),
			zap.Error(err))
		return false
	}
	return m.IsEnabled(id)
}

// Descriptor returns the resolved descriptor of id for evalCtx.
func (s *Service) Descriptor(ctx context.Context, id feature.ID, evalCtx settings.Settings) (manifest.Descriptor, error) {
	m, _, err := s.Manifest(ctx, evalCtx)
	if err != nil {
		return manifest.Descriptor{}, err
	}
	return m.Descriptor(id)
}

// SettingsFor returns the settings of id for evalCtx.
func (s *Service) SettingsFor(ctx context.Context, id feature.ID, evalCtx settings.Settings) (settings.Settings, error) {
	d, err := s.Descriptor(ctx, id, evalCtx)
	if err != nil {
		return nil, err
	}
	return d.Settings(), nil
}

// Reload loads the definition again from its source. On failure the current
// definition stays in place; on success cached manifests are dropped.
func (s *Service) Reload(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}

	def, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("Definition reload failed, keeping current definition",
			zap.String("source", s.source.Describe()),
			zap.Error(err))
		return err
	}

	if missing := def.Rules.Missing(def.Graph); len(missing) > 0 {
		s.logger.Warn("Features without availability rule",
			zap.Int("count", len(missing)),
			zap.Stringer("policy", s.resolver.Policy()))
	}

	s.current.Store(def)
	s.cache.Purge()
	s.logger.Info("Definition reloaded",
		zap.String("source", s.source.Describe()),
		zap.Int("features", def.Graph.Len()),
		zap.String("version", def.Version))
	return nil
}

// Archive resolves the manifest for evalCtx and stores it under its cache key.
func (s *Service) Archive(ctx context.Context, evalCtx settings.Settings) (string, error) {
	if s.archive == nil {
		return "", ErrNoArchive
	}

	m, key, err := s.Manifest(ctx, evalCtx)
	if err != nil {
		return "", err
	}
	if err := s.archive.Save(ctx, key, m); err != nil {
		return "", err
	}
	s.logger.Info("Manifest archived", zap.String("key", key), zap.String("object", s.archive.ObjectName(key)))
	return key, nil
}
