package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_LoadsBuiltins(t *testing.T) {
	reg := NewRegistry()

	for _, ver := range []string{"1.0.0", "1.1.0", "1.2.0", "1.3.0", "2.0.0"} {
		assert.NotNil(t, reg.Get(ver), "builtin schema %s should be registered", ver)
	}
	assert.Nil(t, reg.Get("9.9.9"))
}

func TestRegistry_GetNormalizesVersion(t *testing.T) {
	reg := NewRegistry()
	assert.NotNil(t, reg.Get("1.0"))
}

func TestRegistry_RegisterAndVersions(t *testing.T) {
	reg := NewEmptyRegistry()

	require.NoError(t, reg.Register("1.4", map[string]any{"type": "object"}))
	require.NoError(t, reg.Register("1.2.0", map[string]any{"type": "object"}))
	assert.Error(t, reg.Register("not-a-version", map[string]any{}))

	versions := reg.Versions()
	require.Len(t, versions, 2)
	assert.Equal(t, "1.2.0", versions[0].String())
	assert.Equal(t, "1.4.0", versions[1].String())
}

func TestVersionFromDoc(t *testing.T) {
	doc := map[string]any{
		"properties": map[string]any{
			"specVersion": map[string]any{"const": "2.0.0"},
		},
	}
	assert.Equal(t, "2.0.0", versionFromDoc(doc))
	assert.Empty(t, versionFromDoc(map[string]any{}))
}
