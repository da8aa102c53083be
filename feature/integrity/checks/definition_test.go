package checks

import (
	"testing"

	"feature-manifest/core/definition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDefinition(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		def, err := definition.Parse([]byte(`
version: v3
features:
  - id: a
    rule: {always: true}
  - id: b
    depends_on: [a]
    rule: {always: false}
`))
		require.NoError(t, err)

		report, err := CheckDefinition(def)
		require.NoError(t, err)
		assert.True(t, report.Healthy)
		assert.Equal(t, "v3", report.Version)
		assert.Equal(t, 2, report.Features)
		assert.Equal(t, 2, report.Rules)
		assert.Empty(t, report.Cycle)
		assert.Empty(t, report.MissingRules)
	})

	t.Run("MissingRules", func(t *testing.T) {
		def, err := definition.Parse([]byte(`
features:
  - id: a
  - id: b
    rule: {always: true}
  - id: c
`))
		require.NoError(t, err)

		report, err := CheckDefinition(def)
		require.NoError(t, err)
		assert.False(t, report.Healthy)
		assert.Equal(t, []string{"a", "c"}, report.MissingRules)
	})

	t.Run("NoDefinition", func(t *testing.T) {
		_, err := CheckDefinition(nil)
		assert.Error(t, err)
	})
}
