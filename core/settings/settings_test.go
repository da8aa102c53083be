package settings

import (
	"context"
	"errors"
	"testing"

	"feature-manifest/core/feature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Get(t *testing.T) {
	s := Settings{"a": String("x")}
	assert.True(t, s.Get("a").Equal(String("x")))
	assert.True(t, s.Get("missing").IsAbsent())

	var empty Settings
	assert.True(t, empty.Get("a").IsAbsent())
}

func TestSettings_MergeDoesNotMutate(t *testing.T) {
	base := Settings{"a": Number(1), "b": Number(2)}
	merged := base.Merge(Settings{"b": Number(3), "c": Number(4)})

	assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
	assert.True(t, merged.Get("b").Equal(Number(3)))
	assert.True(t, base.Get("b").Equal(Number(2)))
	assert.True(t, base.Get("c").IsAbsent())
}

func TestSnapshot(t *testing.T) {
	snap := Snapshot{
		Features: map[feature.ID]Settings{
			"checkout": {"env": String("prod"), "theme": String("dark")},
		},
		Context: Settings{"env": String("staging"), "cookie.beta": String("1")},
	}

	view := snap.For("checkout")
	assert.True(t, view.Get("env").Equal(String("prod")))
	assert.True(t, view.Get("cookie.beta").Equal(String("1")))

	own := snap.Own("checkout")
	assert.Equal(t, []string{"env", "theme"}, own.Keys())
	own["theme"] = String("light")
	assert.True(t, snap.Features["checkout"].Get("theme").Equal(String("dark")))

	assert.Empty(t, snap.Own("unknown"))
	assert.True(t, snap.For("unknown").Get("env").Equal(String("staging")))
}

type failingStore struct{}

func (failingStore) Load(context.Context) (map[feature.ID]Settings, error) {
	return nil, errors.New("unreachable")
}

func TestLayered(t *testing.T) {
	defaults := NewStaticStore(map[feature.ID]Settings{
		"checkout": {"theme": String("dark"), "limit": Number(5)},
		"search":   {"engine": String("basic")},
	})
	overrides := NewStaticStore(map[feature.ID]Settings{
		"checkout": {"limit": Number(10)},
	})

	got, err := Layered{defaults, nil, overrides}.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, got["checkout"].Get("theme").Equal(String("dark")))
	assert.True(t, got["checkout"].Get("limit").Equal(Number(10)))
	assert.True(t, got["search"].Get("engine").Equal(String("basic")))

	_, err = Layered{defaults, failingStore{}}.Load(context.Background())
	assert.Error(t, err)
}

func TestStaticStore_ReturnsCopies(t *testing.T) {
	store := NewStaticStore(map[feature.ID]Settings{"a": {"k": Bool(true)}})

	first, _ := store.Load(context.Background())
	first["a"]["k"] = Bool(false)

	second, _ := store.Load(context.Background())
	assert.True(t, second["a"].Get("k").Equal(Bool(true)))
}
