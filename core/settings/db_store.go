package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feature-manifest/core/feature"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableName is the table holding persisted settings.
const TableName = "feature_settings"

// Row is one persisted setting. Value holds the JSON encoding of a Value.
type Row struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Feature   string    `gorm:"column:feature;size:128;not null;uniqueIndex:idx_feature_setting"`
	Key       string    `gorm:"column:setting_key;size:128;not null;uniqueIndex:idx_feature_setting"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName binds Row to the feature_settings table.
func (Row) TableName() string {
	return TableName
}

// Columns lists the columns the table is expected to have.
var Columns = []string{"id", "feature", "setting_key", "value", "updated_at"}

// DBStore reads and writes settings in the feature_settings table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a store over an open connection.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// AutoMigrate creates or updates the feature_settings table.
func (s *DBStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Row{})
}

// Load reads every row and groups it by feature.
func (s *DBStore) Load(ctx context.Context) (map[feature.ID]Settings, error) {
	rows, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make(map[feature.ID]Settings)
	for _, row := range rows {
		var v Value
		if err := json.Unmarshal([]byte(row.Value), &v); err != nil {
			return nil, fmt.Errorf("failed to decode setting %s.%s: %w", row.Feature, row.Key, err)
		}
		id := feature.ID(row.Feature)
		if out[id] == nil {
			out[id] = Settings{}
		}
		out[id][row.Key] = v
	}
	return out, nil
}

// List returns the raw rows, optionally restricted to one feature.
func (s *DBStore) List(ctx context.Context, id feature.ID) ([]Row, error) {
	var rows []Row
	q := s.db.WithContext(ctx).Order("feature, setting_key")
	if id != "" {
		q = q.Where("feature = ?", string(id))
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load feature settings: %w", err)
	}
	return rows, nil
}

// Put inserts or replaces one setting.
func (s *DBStore) Put(ctx context.Context, id feature.ID, key string, value Value) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s.%s: %w", id, key, err)
	}

	row := Row{
		Feature:   string(id),
		Key:       key,
		Value:     string(encoded),
		UpdatedAt: time.Now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feature"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store setting %s.%s: %w", id, key, err)
	}
	return nil
}

// Delete removes one setting. It reports whether a row was removed.
func (s *DBStore) Delete(ctx context.Context, id feature.ID, key string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("feature = ? AND setting_key = ?", string(id), key).
		Delete(&Row{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete setting %s.%s: %w", id, key, res.Error)
	}
	return res.RowsAffected > 0, nil
}
