package definition

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"feature-manifest/core/feature"
	"feature-manifest/core/manifest"
	"feature-manifest/core/rule"
	"feature-manifest/core/settings"
	"feature-manifest/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sample = `
version: "2024-10-01"
features:
  - id: payments
    rule: {always: true}
    settings:
      provider: stripe
      retries: 3
  - id: checkout
    depends_on: [payments]
    settings:
      theme: dark
      beta: true
      banner: null
    rule:
      any:
        - setting_equals: {key: cookie.beta, value: "1"}
        - percentage: {key: cookie.session, percent: 100}
  - id: search
    rule:
      all:
        - setting_in: {key: region, values: [eu, us]}
        - not: {always: false}
  - id: legacy
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []feature.ID{"payments", "checkout", "search", "legacy"}, def.Graph.Features())
	deps, err := def.Graph.DependenciesOf("checkout")
	require.NoError(t, err)
	assert.Equal(t, []feature.ID{"payments"}, deps)

	assert.Equal(t, "2024-10-01", def.Version)
	assert.True(t, strings.HasPrefix(def.Rules.Version, "2024-10-01@"), def.Rules.Version)
	assert.Equal(t, 3, def.Rules.Len())
	assert.Equal(t, []feature.ID{"legacy"}, def.Rules.Missing(def.Graph))

	payments := def.Defaults["payments"]
	assert.True(t, payments.Get("provider").Equal(settings.String("stripe")))
	assert.True(t, payments.Get("retries").Equal(settings.Number(3)))
	assert.True(t, def.Defaults["checkout"].Get("banner").Equal(settings.Null()))
	assert.True(t, def.Defaults["checkout"].Get("beta").Equal(settings.Bool(true)))

	checkout, ok := def.Rules.Lookup("checkout")
	require.True(t, ok)
	assert.Equal(t, rule.Available, checkout.Evaluate("checkout", settings.Settings{"cookie.beta": settings.String("1")}))
	assert.Equal(t, rule.Available, checkout.Evaluate("checkout", settings.Settings{"cookie.session": settings.String("abc")}))
	assert.Equal(t, rule.Indeterminate, checkout.Evaluate("checkout", settings.Settings{}))

	search, ok := def.Rules.Lookup("search")
	require.True(t, ok)
	assert.Equal(t, rule.Available, search.Evaluate("search", settings.Settings{"region": settings.String("eu")}))
	assert.Equal(t, rule.Unavailable, search.Evaluate("search", settings.Settings{"region": settings.String("ap")}))

	loaded, err := def.Store().Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 4)
}

func TestParse_VersionDefaultsToDigest(t *testing.T) {
	doc := []byte("features:\n  - id: a\n    rule: {always: true}\n")

	first, err := Parse(doc)
	require.NoError(t, err)
	assert.Len(t, first.Rules.Version, 64)
	assert.Equal(t, first.Rules.Version, first.Version)

	second, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, first.Rules.Version, second.Rules.Version)

	changed, err := Parse([]byte("features:\n  - id: a\n    rule: {always: false}\n"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Rules.Version, changed.Rules.Version)
}

func TestParse_DeclaredVersionKeepsDigest(t *testing.T) {
	enabled, err := Parse([]byte("version: v1\nfeatures:\n  - id: a\n    rule: {always: true}\n"))
	require.NoError(t, err)
	disabled, err := Parse([]byte("version: v1\nfeatures:\n  - id: a\n    rule: {always: false}\n"))
	require.NoError(t, err)

	assert.Equal(t, "v1", enabled.Version)
	assert.Equal(t, enabled.Version, disabled.Version)
	assert.NotEqual(t, enabled.Rules.Version, disabled.Rules.Version)

	snap := settings.Snapshot{Context: settings.Settings{}}
	first, err := manifest.Key(enabled.Graph, snap, enabled.Rules)
	require.NoError(t, err)
	second, err := manifest.Key(disabled.Graph, snap, disabled.Rules)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestParse_Errors(t *testing.T) {
	t.Run("Cycle", func(t *testing.T) {
		doc := `
features:
  - id: A
    depends_on: [B]
  - id: B
    depends_on: [A]
`
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, feature.ErrCycle)

		var cycle *feature.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []feature.ID{"B", "A", "B"}, cycle.Path)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"Malformed", "features: [\n"},
		{"MissingID", "features:\n  - depends_on: [a]\n"},
		{"Duplicate", "features:\n  - id: a\n  - id: a\n"},
		{"UndeclaredDependency", "features:\n  - id: a\n    depends_on: [ghost]\n"},
		{"NestedSetting", "features:\n  - id: a\n    settings: {nested: {x: 1}}\n"},
		{"EmptyRule", "features:\n  - id: a\n    rule: {}\n"},
		{"TwoRules", "features:\n  - id: a\n    rule: {always: true, not: {always: true}}\n"},
		{"BadPercentage", "features:\n  - id: a\n    rule: {percentage: {key: user, percent: 150}}\n"},
		{"KeylessEquals", "features:\n  - id: a\n    rule: {setting_equals: {value: 1}}\n"},
		{"NestedInvalid", "features:\n  - id: a\n    rule: {all: [{always: true}, {}]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	def, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, def.Graph.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestObjectSource(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "bucket", "defs/features.yaml", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(sample))), nil)

	src := NewSource(Config{Path: "ignored.yaml", Object: "defs/features.yaml"}, client, "bucket")
	assert.Equal(t, "object:bucket/defs/features.yaml", src.Describe())

	def, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, def.Graph.Len())

	assert.Equal(t, "file:features.yaml", NewSource(Config{Path: "features.yaml"}, client, "bucket").Describe())
}
