package cmd

import (
	"context"
	"fmt"
	"strings"

	"feature-manifest/core/config"
	"feature-manifest/core/database"
	"feature-manifest/core/definition"
	"feature-manifest/core/logger"
	"feature-manifest/core/manifest"
	"feature-manifest/core/settings"
	"feature-manifest/core/storage"
	"feature-manifest/feature/flags"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command builds from the configuration.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	db     *gorm.DB
	store  *settings.DBStore
}

// newRuntime loads configuration and the logger. Storage and the settings
// database are connected on demand.
func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if definitionPath != "" {
		cfg.Definition.Path = definitionPath
		cfg.Definition.Object = ""
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &runtime{cfg: cfg, logger: logg}, nil
}

// storage returns the storage client, creating it on first use.
func (r *runtime) storage() (storage.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	r.client = client
	return client, nil
}

// settingsStore connects the settings database and returns its store.
func (r *runtime) settingsStore() (*settings.DBStore, error) {
	if r.store != nil {
		return r.store, nil
	}
	db, err := database.Connect(r.cfg.Database)
	if err != nil {
		return nil, err
	}
	store := settings.NewDBStore(db)
	if r.cfg.Settings.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			return nil, err
		}
	}
	r.db = db
	r.store = store
	return store, nil
}

// source returns where the definition is read from.
func (r *runtime) source() (definition.Source, error) {
	if r.cfg.Definition.Object == "" {
		return definition.NewSource(r.cfg.Definition, nil, ""), nil
	}
	client, err := r.storage()
	if err != nil {
		return nil, err
	}
	return definition.NewSource(r.cfg.Definition, client, r.cfg.Storage.Bucket), nil
}

// loadDefinition reads the definition from its configured source.
func (r *runtime) loadDefinition(ctx context.Context) (*definition.Definition, definition.Source, error) {
	src, err := r.source()
	if err != nil {
		return nil, nil, err
	}
	def, err := src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("Definition loaded",
		zap.String("source", src.Describe()),
		zap.Int("features", def.Graph.Len()),
		zap.String("version", def.Version))
	return def, src, nil
}

// service wires the manifest service. The settings database is layered in
// when settings.use_database is on; archive enables manifest archiving.
func (r *runtime) service(ctx context.Context, archive bool) (*flags.Service, error) {
	def, src, err := r.loadDefinition(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := manifest.ParsePolicy(r.cfg.Manifest.MissingRulePolicy)
	if err != nil {
		return nil, err
	}
	cache, err := manifest.NewCache(r.cfg.Manifest.CacheCapacity)
	if err != nil {
		return nil, err
	}

	opts := flags.Options{
		Source:   src,
		Resolver: manifest.NewResolver(manifest.WithLogger(r.logger), manifest.WithMissingRulePolicy(policy)),
		Cache:    cache,
		Logger:   r.logger,
	}

	if r.cfg.Settings.UseDatabase {
		store, err := r.settingsStore()
		if err != nil {
			return nil, fmt.Errorf("settings database required: %w", err)
		}
		opts.Store = store
	}

	if archive {
		client, err := r.storage()
		if err != nil {
			return nil, err
		}
		opts.Archive = manifest.NewArchive(client, r.cfg.Storage.Bucket, r.cfg.Manifest.ArchivePrefix)
	}

	return flags.NewService(def, opts), nil
}

// parseAssignments turns key=value pairs into settings. Values are typed with settings.Parse.
func parseAssignments(pairs []string) (settings.Settings, error) {
	out := make(settings.Settings, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		out[key] = settings.Parse(value)
	}
	return out, nil
}

// staticDefinition serves a definition loaded once.
type staticDefinition struct {
	def *definition.Definition
}

func (s staticDefinition) Definition() *definition.Definition {
	return s.def
}
