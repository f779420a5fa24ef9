package schemas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-embed/internal/types"
)

func testLegacyRecord(version string) types.Record {
	return types.Record{
		"schema_version": version,
		"personal_information": map[string]any{
			"name": "Ada Lovelace",
		},
	}
}

func TestResolve_ExactLocalMatch(t *testing.T) {
	r := NewResolver(nil)

	resolved, err := r.Resolve(context.Background(), testLegacyRecord("1.0.0"), "1.0.0", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceRegistry, resolved.Source)
	assert.Equal(t, "1.0.0", resolved.Version)
	assert.False(t, resolved.Relaxed)
	assert.NotNil(t, resolved.Compiled)
}

func TestResolve_NearestWithinMajor(t *testing.T) {
	r := NewResolver(nil)

	// 1.2.5 is unknown; 1.2.0 is the nearest registered schema.
	resolved, err := r.Resolve(context.Background(), testLegacyRecord("1.2.5"), "1.2.5", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceNearest, resolved.Source)
	assert.Equal(t, "1.2.0", resolved.Version)
	assert.Equal(t, "1.2.5", resolved.Requested)
	assert.True(t, resolved.Relaxed)
}

func TestResolve_NeverCrossesMajor(t *testing.T) {
	r := NewResolver(nil)

	// Major 3 has no registered schemas; nearest must not reach into 2.x.
	resolved, err := r.Resolve(context.Background(), types.Record{"specVersion": "3.0.0", "resume": map[string]any{}}, "3.0.0", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resolved.Source)
}

func TestResolve_StrictSkipsNearest(t *testing.T) {
	r := NewResolver(nil)

	resolved, err := r.Resolve(context.Background(), testLegacyRecord("1.2.5"), "1.2.5", Options{Mode: ModeStrict})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resolved.Source)
}

func TestResolve_FallbackMatchesEnvelope(t *testing.T) {
	r := NewResolver(NewEmptyRegistry())

	legacy, err := r.Resolve(context.Background(), testLegacyRecord("1.0.0"), "1.0.0", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, legacy.Source)
	required, _ := legacy.Document["required"].([]any)
	assert.Contains(t, required, "schema_version")

	namespaced, err := r.Resolve(context.Background(), types.Record{"specVersion": "2.0.0", "resume": map[string]any{}}, "2.0.0", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, namespaced.Source)
	required, _ = namespaced.Document["required"].([]any)
	assert.Contains(t, required, "specVersion")
}

func TestResolve_UnknownVersionNeverFails(t *testing.T) {
	r := NewResolver(nil)

	resolved, err := r.Resolve(context.Background(), types.Record{"schema_version": "not-a-version"}, "not-a-version", Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resolved.Source)
}

func TestRelaxVersionConstants(t *testing.T) {
	reg := NewRegistry()
	original := reg.Get("1.0.0")

	relaxed := relaxVersionConstants(original)

	// The relaxed copy widens the marker to any string.
	prop, _ := relaxed["properties"].(map[string]any)["schema_version"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, prop)

	// The registered document is never mutated.
	origProp, _ := original["properties"].(map[string]any)["schema_version"].(map[string]any)
	assert.Equal(t, "1.0.0", origProp["const"])
}

func TestResolve_RelaxedSchemaAcceptsFutureMinor(t *testing.T) {
	r := NewResolver(nil)

	rec := testLegacyRecord("1.2.5")
	resolved, err := r.Resolve(context.Background(), rec, "1.2.5", Options{})
	require.NoError(t, err)

	issues, err := ValidateDocument(resolved.Compiled, rec)
	require.NoError(t, err)
	assert.Empty(t, issues, "structurally compatible future minor must not be rejected on the version literal")
}

func TestResolve_CompiledCacheIsReused(t *testing.T) {
	r := NewResolver(nil)

	first, err := r.Resolve(context.Background(), testLegacyRecord("1.0.0"), "1.0.0", Options{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), testLegacyRecord("1.0.0"), "1.0.0", Options{})
	require.NoError(t, err)
	assert.Same(t, first.Compiled, second.Compiled)
}
