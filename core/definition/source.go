package definition

import (
	"context"
	"fmt"
	"os"

	"feature-manifest/core/storage"
)

// Source loads the current definition. Implementations are consulted on
// startup and on every reload.
type Source interface {
	Load(ctx context.Context) (*Definition, error)
	// Describe names the source for logs.
	Describe() string
}

// FileSource reads a definition from the local filesystem.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s FileSource) Load(_ context.Context) (*Definition, error) {
	return LoadFile(s.Path)
}

func (s FileSource) Describe() string { return "file:" + s.Path }

// ObjectSource reads a definition from an object in storage.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Name   string
}

// Load downloads and parses the object.
func (s ObjectSource) Load(ctx context.Context) (*Definition, error) {
	return LoadObject(ctx, s.Client, s.Bucket, s.Name)
}

func (s ObjectSource) Describe() string { return "object:" + s.Bucket + "/" + s.Name }

// NewSource picks the source described by cfg: the storage object when
// cfg.Object is set, the local file otherwise.
func NewSource(cfg Config, client storage.Client, bucket string) Source {
	if cfg.Object != "" && client != nil {
		return ObjectSource{Client: client, Bucket: bucket, Name: cfg.Object}
	}
	return FileSource{Path: cfg.Path}
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return Parse(data)
}

// LoadObject downloads and parses a definition stored in a bucket.
func LoadObject(ctx context.Context, client storage.Client, bucket, name string) (*Definition, error) {
	data, err := storage.ReadObject(ctx, client, bucket, name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
