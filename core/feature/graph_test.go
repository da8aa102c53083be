package feature_test

import (
	"errors"
	"testing"

	"feature-manifest/core/feature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDependency(t *testing.T) {
	t.Run("RegistersBothEnds", func(t *testing.T) {
		g := feature.NewGraph()
		require.NoError(t, g.AddDependency("checkout", "payments"))

		assert.True(t, g.Has("checkout"))
		assert.True(t, g.Has("payments"))
		assert.Equal(t, []feature.ID{"checkout", "payments"}, g.Features())

		deps, err := g.DependenciesOf("checkout")
		require.NoError(t, err)
		assert.Equal(t, []feature.ID{"payments"}, deps)
	})

	t.Run("DuplicateEdgeIsNoop", func(t *testing.T) {
		g := feature.NewGraph()
		require.NoError(t, g.AddDependency("b", "a"))
		require.NoError(t, g.AddDependency("b", "a"))

		deps, err := g.DependenciesOf("b")
		require.NoError(t, err)
		assert.Len(t, deps, 1)
	})

	t.Run("SelfEdge", func(t *testing.T) {
		g := feature.NewGraph()
		err := g.AddDependency("a", "a")

		var cycle *feature.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []feature.ID{"a", "a"}, cycle.Path)
		assert.False(t, g.Has("a"))
	})

	t.Run("TwoNodeCycle", func(t *testing.T) {
		g := feature.NewGraph()
		require.NoError(t, g.AddDependency("a", "b"))

		err := g.AddDependency("b", "a")
		assert.ErrorIs(t, err, feature.ErrCycle)

		var cycle *feature.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []feature.ID{"b", "a", "b"}, cycle.Path)
	})

	t.Run("CycleLeavesGraphUnchanged", func(t *testing.T) {
		g := feature.NewGraph()
		require.NoError(t, g.AddDependency("b", "a"))
		require.NoError(t, g.AddDependency("c", "b"))
		before := g.Fingerprint()

		err := g.AddDependency("a", "c")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a -> c -> b -> a")

		assert.Equal(t, before, g.Fingerprint())
		deps, err := g.DependenciesOf("a")
		require.NoError(t, err)
		assert.Empty(t, deps)
	})
}

func TestGraph_DependenciesOf(t *testing.T) {
	g := feature.NewGraph()
	g.AddFeature("standalone")

	deps, err := g.DependenciesOf("standalone")
	require.NoError(t, err)
	assert.NotNil(t, deps)
	assert.Empty(t, deps)

	_, err = g.DependenciesOf("missing")
	assert.ErrorIs(t, err, feature.ErrUnknownFeature)

	var unknown *feature.UnknownFeatureError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, feature.ID("missing"), unknown.ID)
}

func TestGraph_DependenciesOfReturnsCopy(t *testing.T) {
	g := feature.NewGraph()
	require.NoError(t, g.AddDependency("b", "a"))

	deps, _ := g.DependenciesOf("b")
	deps[0] = "tampered"

	again, _ := g.DependenciesOf("b")
	assert.Equal(t, []feature.ID{"a"}, again)
}

func TestGraph_TopologicalOrder(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		order, err := feature.NewGraph().TopologicalOrder()
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("DependenciesFirst", func(t *testing.T) {
		g := feature.NewGraph()
		g.AddFeature("checkout")
		g.AddFeature("search")
		require.NoError(t, g.AddDependency("checkout", "payments"))
		require.NoError(t, g.AddDependency("payments", "accounts"))
		require.NoError(t, g.AddDependency("checkout", "accounts"))

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []feature.ID{"search", "accounts", "payments", "checkout"}, order)
	})

	t.Run("TiesKeepDeclarationOrder", func(t *testing.T) {
		g := feature.NewGraph()
		for _, id := range []feature.ID{"zeta", "alpha", "mid"} {
			g.AddFeature(id)
		}

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []feature.ID{"zeta", "alpha", "mid"}, order)
	})

	t.Run("EveryFeatureAfterItsDependencies", func(t *testing.T) {
		g := feature.NewGraph()
		edges := [][2]feature.ID{
			{"f", "e"}, {"e", "d"}, {"d", "a"}, {"c", "b"}, {"b", "a"}, {"f", "c"}, {"e", "b"},
		}
		for _, e := range edges {
			require.NoError(t, g.AddDependency(e[0], e[1]))
		}

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		require.Len(t, order, g.Len())

		pos := make(map[feature.ID]int)
		for i, id := range order {
			pos[id] = i
		}
		for _, e := range edges {
			assert.Less(t, pos[e[1]], pos[e[0]], "%s must come before %s", e[1], e[0])
		}
	})
}

func TestGraph_CloneAndFingerprint(t *testing.T) {
	g := feature.NewGraph()
	require.NoError(t, g.AddDependency("b", "a"))

	c := g.Clone()
	assert.Equal(t, g.Fingerprint(), c.Fingerprint())

	require.NoError(t, c.AddDependency("c", "b"))
	assert.NotEqual(t, g.Fingerprint(), c.Fingerprint())
	assert.False(t, g.Has("c"))
	assert.NoError(t, c.Validate())
}
