package storage_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"feature-manifest/core/storage"
	"feature-manifest/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReadObject(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "b", "defs/features.yaml", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("features: []"))), nil)

		data, err := storage.ReadObject(context.Background(), client, "b", "defs/features.yaml")
		require.NoError(t, err)
		assert.Equal(t, "features: []", string(data))
	})

	t.Run("NotFound", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "b", "x", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		_, err := storage.ReadObject(context.Background(), client, "b", "x")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("OtherError", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "b", "x", mock.Anything).Return(nil, assert.AnError)

		_, err := storage.ReadObject(context.Background(), client, "b", "x")
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "")
		require.NoError(t, err)
		assert.False(t, created)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "b", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "eu-west-1")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, assert.AnError)

		_, err := storage.EnsureBucket(context.Background(), client, "b", "")
		assert.ErrorIs(t, err, assert.AnError)
	})
}
