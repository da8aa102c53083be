package integrity

import (
	"context"

	"feature-manifest/core/definition"
	"feature-manifest/core/storage"
	"feature-manifest/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefinitionProvider exposes the definition currently served.
type DefinitionProvider interface {
	Definition() *definition.Definition
}

// Layout names what the bucket is expected to hold.
type Layout struct {
	// Region is used when the bucket has to be created.
	Region string
	// Folders must exist as prefixes (e.g. the manifest archive prefix).
	Folders []string
	// Objects must exist (e.g. the definition object).
	Objects []string
}

// Service handles integrity checks.
type Service struct {
	client      storage.Client
	bucket      string
	layout      Layout
	logger      *zap.Logger
	db          *gorm.DB
	definitions DefinitionProvider
}

// NewService creates a new integrity service. client, db and definitions may be
// nil; the matching checks then report an error.
func NewService(client storage.Client, bucket string, layout Layout, logger *zap.Logger, db *gorm.DB, definitions DefinitionProvider) *Service {
	return &Service{
		client:      client,
		bucket:      bucket,
		layout:      layout,
		logger:      logger,
		db:          db,
		definitions: definitions,
	}
}

// CheckDefinition inspects the served definition.
func (s *Service) CheckDefinition() (*checks.DefinitionReport, error) {
	if s.definitions == nil {
		return checks.CheckDefinition(nil)
	}
	return checks.CheckDefinition(s.definitions.Definition())
}

// CheckStorage inspects the bucket layout.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, errNoStorage
	}
	return checks.CheckStorage(ctx, s.client, s.bucket, s.layout.Folders, s.layout.Objects)
}

// FixStorage creates what report found missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	if s.client == nil {
		return errNoStorage
	}
	return checks.FixStorage(ctx, s.client, report, s.layout.Region, s.logger)
}

// CheckDatabase inspects the settings table.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabase(s.db)
}
