package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// ErrObjectNotFound is returned by ReadObject when the object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ReadObject downloads an object fully into memory.
// A missing object is reported as ErrObjectNotFound.
func ReadObject(ctx context.Context, client Client, bucket, name string) ([]byte, error) {
	obj, err := client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapReadError(bucket, name, err)
	}
	defer obj.Close()

	// minio reports a missing object on the first read, not on GetObject.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, wrapReadError(bucket, name, err)
	}
	return data, nil
}

func wrapReadError(bucket, name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, name)
	}
	return fmt.Errorf("failed to read %s/%s: %w", bucket, name, err)
}

// EnsureBucket creates bucket when it does not exist yet.
// It reports whether the bucket had to be created.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) (bool, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return false, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return true, nil
}
