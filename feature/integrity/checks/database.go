package checks

import (
	"fmt"

	"feature-manifest/core/database"
	"feature-manifest/core/settings"

	"gorm.io/gorm"
)

// DatabaseReport describes the schema of the settings table.
type DatabaseReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}

// CheckDatabase compares the settings table against the columns the settings store writes.
func CheckDatabase(db *gorm.DB) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &DatabaseReport{
		Table:          settings.TableName,
		MissingColumns: []string{},
		Errors:         []string{},
	}

	columns, err := database.GetTableColumns(db, settings.TableName)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", settings.TableName, err))
		return report, nil // Partial fail
	}

	if missing := database.MissingColumns(columns, settings.Columns); len(missing) > 0 {
		report.MissingColumns = missing
		return report, nil
	}

	report.Matched = true
	return report, nil
}
