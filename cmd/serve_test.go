package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubReloader struct {
	err   error
	calls int
}

func (s *stubReloader) Reload(context.Context) error {
	s.calls++
	return s.err
}

func TestReloadOnChange(t *testing.T) {
	t.Run("Failure", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := &stubReloader{err: errors.New("bad yaml")}

		reloadOnChange(context.Background(), r, zap.New(core))()

		assert.Equal(t, 1, r.calls)
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.DebugLevel, entry.Level)
		assert.Equal(t, "bad yaml", entry.ContextMap()["error"])
	})

	t.Run("Success", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := &stubReloader{}

		reloadOnChange(context.Background(), r, zap.New(core))()

		assert.Equal(t, 1, r.calls)
		assert.Zero(t, logs.Len())
	})
}
