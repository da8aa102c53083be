package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"feature-manifest/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archive stores resolved manifests as JSON objects so they can be shared
// across processes. Objects are named <prefix>/<key>.json.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
}

// NewArchive creates an archive in bucket under prefix.
func NewArchive(client storage.Client, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// ObjectName returns the object name used for key.
func (a *Archive) ObjectName(key string) string {
	return path.Join(a.prefix, key+".json")
}

// Prefix returns the folder the archive writes to.
func (a *Archive) Prefix() string {
	return a.prefix
}

// Save uploads m under key, replacing any previous object.
func (a *Archive) Save(ctx context.Context, key string, m *Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, a.ObjectName(key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload manifest %s: %w", key, err)
	}
	return nil
}

// Load downloads the manifest stored under key. A missing object yields ErrNotFound.
func (a *Archive) Load(ctx context.Context, key string) (*Manifest, error) {
	data, err := storage.ReadObject(ctx, a.client, a.bucket, a.ObjectName(key))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download manifest %s: %w", key, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", key, err)
	}
	return &m, nil
}
