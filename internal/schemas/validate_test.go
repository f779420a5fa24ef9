package schemas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-embed/internal/types"
)

func TestValidateDocument_ValidRecord(t *testing.T) {
	r := NewResolver(nil)
	resolved, err := r.Resolve(context.Background(), testLegacyRecord("1.0.0"), "1.0.0", Options{})
	require.NoError(t, err)

	issues, err := ValidateDocument(resolved.Compiled, testLegacyRecord("1.0.0"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateDocument_ReportsFieldPaths(t *testing.T) {
	r := NewResolver(nil)
	resolved, err := r.Resolve(context.Background(), nil, "1.0.0", Options{})
	require.NoError(t, err)

	rec := types.Record{
		"schema_version":       "1.0.0",
		"personal_information": map[string]any{"email": "ada@example.com"},
		"skills":               "not-a-list",
	}
	issues, err := ValidateDocument(resolved.Compiled, rec)
	require.NoError(t, err)
	require.NotEmpty(t, issues)

	paths := make([]string, 0, len(issues))
	for _, is := range issues {
		assert.Equal(t, types.KindSchema, is.Kind)
		assert.Equal(t, types.SeverityError, is.Severity)
		paths = append(paths, is.Path)
	}
	assert.Contains(t, paths, "personal_information")
	assert.Contains(t, paths, "skills")
}

func TestValidateDocument_WrongVersionConstant(t *testing.T) {
	r := NewResolver(nil)
	resolved, err := r.Resolve(context.Background(), nil, "1.0.0", Options{})
	require.NoError(t, err)

	rec := testLegacyRecord("1.1.0")
	issues, err := ValidateDocument(resolved.Compiled, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, issues, "exact schema keeps its version constant")
}
