package cmd

import (
	"context"
	"errors"

	"feature-manifest/core/database"
	"feature-manifest/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

var errIntegrity = errors.New("integrity checks failed")

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the definition, storage and settings database",
	Long:  `Checks that the definition is acyclic with a rule per feature, that the bucket holds the archive folder and definition object, and that the settings table has the expected columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

var integrityDefinitionCmd = &cobra.Command{
	Use:   "definition",
	Short: "Check the feature definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

var integrityStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the storage bucket layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

var integrityDatabaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the settings table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(integrityDefinitionCmd, integrityStorageCmd, integrityDatabaseCmd)

	integrityStorageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")
}

func runIntegrityChecks(ctx context.Context, runDefinition, runStorage, runDatabase bool) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	logg := rt.logger

	client, err := rt.storage()
	if err != nil {
		return err
	}

	// The database is optional here; its check reports the missing connection.
	var db *gorm.DB
	if runDatabase {
		if conn, err := database.Connect(rt.cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
		}
	}

	layout := integrity.Layout{
		Region:  rt.cfg.Storage.Region,
		Folders: []string{rt.cfg.Manifest.ArchivePrefix},
	}
	if rt.cfg.Definition.Object != "" {
		layout.Objects = []string{rt.cfg.Definition.Object}
	}

	var definitions integrity.DefinitionProvider
	if runDefinition {
		def, _, err := rt.loadDefinition(ctx)
		if err != nil {
			logg.Error("Definition could not be loaded", zap.Error(err))
			return errIntegrity
		}
		definitions = staticDefinition{def}
	}

	svc := integrity.NewService(client, rt.cfg.Storage.Bucket, layout, logg, db, definitions)
	healthy := true

	if runDefinition {
		logg.Info("Checking feature definition...")
		report, err := svc.CheckDefinition()
		switch {
		case err != nil:
			logg.Error("Definition check failed", zap.Error(err))
			healthy = false
		case report.Healthy:
			logg.Info("Definition is valid.", zap.Int("features", report.Features), zap.String("version", report.Version))
		default:
			healthy = false
			if len(report.Cycle) > 0 {
				logg.Warn("Dependency cycle detected", zap.Strings("cycle", report.Cycle))
			}
			if len(report.MissingRules) > 0 {
				logg.Warn("Features without availability rule", zap.Strings("features", report.MissingRules))
			}
		}
	}

	if runStorage {
		logg.Info("Checking storage layout...", zap.String("bucket", rt.cfg.Storage.Bucket))
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Error("Storage check failed", zap.Error(err))
			healthy = false
		} else if report.Healthy() {
			logg.Info("Storage layout is intact.")
		} else {
			logg.Warn("Storage layout incomplete",
				zap.Bool("bucket_exists", report.BucketExists),
				zap.Strings("missing_folders", report.MissingFolders),
				zap.Strings("missing_objects", report.MissingObjects))

			if fixFlag {
				logg.Info("Fixing storage layout...")
				if err := svc.FixStorage(ctx, report); err != nil {
					logg.Error("Failed to fix storage", zap.Error(err))
					healthy = false
				} else {
					logg.Info("Storage layout fixed.")
					healthy = healthy && len(report.MissingObjects) == 0
				}
			} else {
				healthy = false
				logg.Info("Run 'integrity storage --fix' to create the bucket and missing folders.")
			}
		}
	}

	if runDatabase {
		logg.Info("Checking settings table...")
		report, err := svc.CheckDatabase()
		switch {
		case err != nil:
			logg.Error("Settings table check failed", zap.Error(err))
			healthy = false
		case report.Matched:
			logg.Info("Settings table matches the expected schema.", zap.String("table", report.Table))
		default:
			healthy = false
			if len(report.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", report.Table), zap.Strings("columns", report.MissingColumns))
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if !healthy {
		return errIntegrity
	}
	return nil
}
