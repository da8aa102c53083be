package manifest

import (
	"testing"

	"feature-manifest/core/feature"
	"feature-manifest/core/rule"
	"feature-manifest/core/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// chain builds {A: [], B: [A]}.
func chain(t *testing.T) *feature.Graph {
	t.Helper()
	g := feature.NewGraph()
	g.AddFeature("A")
	require.NoError(t, g.AddDependency("B", "A"))
	return g
}

func TestResolve_Scenarios(t *testing.T) {
	t.Run("BothAvailable", func(t *testing.T) {
		rules := rule.NewSet("v1").
			Add("A", rule.AlwaysAvailable()).
			Add("B", rule.AlwaysAvailable())

		m, err := NewResolver().Resolve(chain(t), settings.Snapshot{}, rules)
		require.NoError(t, err)
		assert.True(t, m.IsEnabled("A"))
		assert.True(t, m.IsEnabled("B"))
	})

	t.Run("DependencyForcesUnavailable", func(t *testing.T) {
		rules := rule.NewSet("v1").
			Add("A", rule.AlwaysUnavailable()).
			Add("B", rule.AlwaysAvailable())

		m, err := NewResolver().Resolve(chain(t), settings.Snapshot{}, rules)
		require.NoError(t, err)
		assert.False(t, m.IsEnabled("A"))
		assert.False(t, m.IsEnabled("B"))
	})

	t.Run("EmptyGraph", func(t *testing.T) {
		m, err := NewResolver().Resolve(feature.NewGraph(), settings.Snapshot{}, rule.NewSet(""))
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})
}

func TestResolve_OneDescriptorPerFeature(t *testing.T) {
	g := feature.NewGraph()
	g.AddFeature("search")
	require.NoError(t, g.AddDependency("checkout", "payments"))
	require.NoError(t, g.AddDependency("checkout", "accounts"))
	require.NoError(t, g.AddDependency("payments", "accounts"))

	rules := rule.NewSet("v1")
	for _, id := range g.Features() {
		rules.Add(id, rule.AlwaysAvailable())
	}

	m, err := NewResolver().Resolve(g, settings.Snapshot{}, rules)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), m.Len())
	assert.Equal(t, []feature.ID{"search", "accounts", "payments", "checkout"}, m.Features())

	d, err := m.Descriptor("checkout")
	require.NoError(t, err)
	assert.Equal(t, []feature.ID{"payments", "accounts"}, d.Dependencies())
}

func TestResolve_TransitiveUnavailability(t *testing.T) {
	g := feature.NewGraph()
	require.NoError(t, g.AddDependency("c", "b"))
	require.NoError(t, g.AddDependency("b", "a"))
	g.AddFeature("d")

	rules := rule.NewSet("v1").
		Add("a", rule.SettingEquals("env", settings.String("prod"))).
		Add("b", rule.AlwaysAvailable()).
		Add("c", rule.AlwaysAvailable()).
		Add("d", rule.AlwaysAvailable())

	prod := settings.Snapshot{Context: settings.Settings{"env": settings.String("prod")}}
	m, err := NewResolver().Resolve(g, prod, rules)
	require.NoError(t, err)
	assert.True(t, m.IsEnabled("c"))

	dev := settings.Snapshot{Context: settings.Settings{"env": settings.String("dev")}}
	m, err = NewResolver().Resolve(g, dev, rules)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled("a"))
	assert.False(t, m.IsEnabled("b"))
	assert.False(t, m.IsEnabled("c"))
	assert.True(t, m.IsEnabled("d"))

	// Absent setting is indeterminate, which counts as unavailable.
	m, err = NewResolver().Resolve(g, settings.Snapshot{}, rules)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled("a"))
	assert.False(t, m.IsEnabled("c"))
}

func TestResolve_Deterministic(t *testing.T) {
	g := chain(t)
	rules := rule.NewSet("v1").
		Add("A", rule.SettingIn("tier", settings.String("gold"))).
		Add("B", rule.AlwaysAvailable())
	snap := settings.Snapshot{
		Features: map[feature.ID]settings.Settings{"B": {"limit": settings.Number(3)}},
		Context:  settings.Settings{"tier": settings.String("gold")},
	}

	first, err := NewResolver().Resolve(g, snap, rules)
	require.NoError(t, err)
	second, err := NewResolver().Resolve(g, snap, rules)
	require.NoError(t, err)

	a, err := first.MarshalJSON()
	require.NoError(t, err)
	b, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestResolve_DescriptorSettingsAreOwn(t *testing.T) {
	snap := settings.Snapshot{
		Features: map[feature.ID]settings.Settings{"A": {"theme": settings.String("dark")}},
		Context:  settings.Settings{"cookie.session": settings.String("s1")},
	}
	rules := rule.NewSet("v1").Add("A", rule.AlwaysAvailable()).Add("B", rule.AlwaysAvailable())

	m, err := NewResolver().Resolve(chain(t), snap, rules)
	require.NoError(t, err)

	own := m.SettingsFor("A")
	assert.Equal(t, []string{"theme"}, own.Keys())
	assert.Empty(t, m.SettingsFor("B"))

	own["theme"] = settings.String("light")
	assert.True(t, m.SettingsFor("A").Get("theme").Equal(settings.String("dark")))
}

func TestResolve_MissingRule(t *testing.T) {
	rules := rule.NewSet("v1").Add("B", rule.AlwaysAvailable())

	t.Run("FailPolicy", func(t *testing.T) {
		m, err := NewResolver().Resolve(chain(t), settings.Snapshot{}, rules)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrMissingRule)

		var missing *MissingRuleError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, feature.ID("A"), missing.ID)
	})

	t.Run("UnavailablePolicy", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		r := NewResolver(WithLogger(zap.New(core)), WithMissingRulePolicy(PolicyUnavailable))

		m, err := r.Resolve(chain(t), settings.Snapshot{}, rules)
		require.NoError(t, err)
		assert.False(t, m.IsEnabled("A"))
		assert.False(t, m.IsEnabled("B"))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "A", logs.All()[0].ContextMap()["feature"])
	})

	t.Run("NilRule", func(t *testing.T) {
		withNil := rule.NewSet("v1").Add("A", nil).Add("B", rule.AlwaysAvailable())
		assert.NotPanics(t, func() {
			_, err := NewResolver().Resolve(chain(t), settings.Snapshot{}, withNil)
			assert.ErrorIs(t, err, ErrMissingRule)
		})
	})

	t.Run("NilRuleSet", func(t *testing.T) {
		_, err := NewResolver().Resolve(chain(t), settings.Snapshot{}, nil)
		assert.ErrorIs(t, err, ErrMissingRule)
	})
}

func TestResolve_OrderingInvariant(t *testing.T) {
	rules := rule.NewSet("v1").Add("A", rule.AlwaysAvailable()).Add("B", rule.AlwaysAvailable())

	m, err := NewResolver().resolveOrder(chain(t), []feature.ID{"B", "A"}, settings.Snapshot{}, rules)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrOrderingInvariant)

	var ordering *OrderingInvariantError
	require.ErrorAs(t, err, &ordering)
	assert.Equal(t, feature.ID("B"), ordering.Feature)
	assert.Equal(t, feature.ID("A"), ordering.Dependency)
}

func TestResolve_DebugTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rules := rule.NewSet("v1").Add("A", rule.AlwaysUnavailable()).Add("B", rule.AlwaysAvailable())

	_, err := NewResolver(WithLogger(zap.New(core))).Resolve(chain(t), settings.Snapshot{}, rules)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].ContextMap()["feature"])
	assert.Equal(t, "B", entries[1].ContextMap()["feature"])
	assert.Equal(t, "A", entries[1].ContextMap()["blocked_by"])
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFail, p)

	p, err = ParsePolicy("Unavailable")
	require.NoError(t, err)
	assert.Equal(t, PolicyUnavailable, p)

	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}
