// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration. The
// database holds the feature_settings table that overrides definition defaults.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect. The integrity
// feature uses it to verify the feature_settings table has the expected shape.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "feature_settings")
package database
