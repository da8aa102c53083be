package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"feature-manifest/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the bucket.
type StorageReport struct {
	Bucket         string   `json:"bucket"`
	BucketExists   bool     `json:"bucket_exists"`
	MissingFolders []string `json:"missing_folders"`
	MissingObjects []string `json:"missing_objects"`
}

// Healthy reports whether nothing is missing.
func (r *StorageReport) Healthy() bool {
	return r.BucketExists && len(r.MissingFolders) == 0 && len(r.MissingObjects) == 0
}

// CheckStorage verifies that bucket exists and holds the given folders and objects.
// A missing bucket is reported, not returned as an error; every folder and
// object then counts as missing.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, folders, objects []string) (*StorageReport, error) {
	report := &StorageReport{
		Bucket:         bucket,
		MissingFolders: []string{},
		MissingObjects: []string{},
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.MissingFolders = append(report.MissingFolders, folders...)
		report.MissingObjects = append(report.MissingObjects, objects...)
		return report, nil
	}

	for _, folder := range folders {
		opts := minio.ListObjectsOptions{
			Prefix:    folderPath(folder),
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			found = obj.Err == nil
			break
		}
		if !found {
			report.MissingFolders = append(report.MissingFolders, folder)
		}
	}

	for _, name := range objects {
		if _, err := client.StatObject(ctx, bucket, name, minio.StatObjectOptions{}); err != nil {
			if minio.ToErrorResponse(err).Code != "NoSuchKey" {
				return nil, fmt.Errorf("failed to stat %s: %w", name, err)
			}
			report.MissingObjects = append(report.MissingObjects, name)
		}
	}

	return report, nil
}

// FixStorage creates the bucket when needed and a marker object for every missing folder.
// Missing objects are left alone; they hold content only an operator can provide.
func FixStorage(ctx context.Context, client storage.Client, report *StorageReport, region string, logger *zap.Logger) error {
	created, err := storage.EnsureBucket(ctx, client, report.Bucket, region)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
	}

	for _, folder := range report.MissingFolders {
		_, err := client.PutObject(ctx, report.Bucket, folderPath(folder), bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}

func folderPath(folder string) string {
	if strings.HasSuffix(folder, "/") {
		return folder
	}
	return folder + "/"
}
