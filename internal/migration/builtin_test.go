package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-embed/internal/types"
)

func fullLegacyFixture() types.Record {
	return types.Record{
		"schema_version": "1.3.0",
		"personal_information": map[string]any{
			"name":     "Ada Lovelace",
			"email":    "ada@example.com",
			"phone":    "+44 20 0000 0000",
			"location": "London",
		},
		"work_experience": []any{
			map[string]any{
				"company":    "Analytical Engines Ltd",
				"title":      "Engineer",
				"start_date": "2020-01",
				"end_date":   "2023-06",
				"highlights": []any{"shipped the difference engine"},
			},
		},
		"education": []any{
			map[string]any{
				"institution": "University of London",
				"degree":      "BSc",
				"start_date":  "2014-09",
				"end_date":    "2018-06",
			},
		},
		"skills": []any{"mathematics", "go"},
		"links":  map[string]any{},
		"custom_section": map[string]any{
			"note": "kept as-is",
		},
	}
}

func TestLegacyToNamespaced(t *testing.T) {
	out, err := legacyToNamespaced(fullLegacyFixture())
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", out["specVersion"])
	assert.NotContains(t, out, "schema_version")
	assert.NotContains(t, out, "personal_information")

	assert.Equal(t, "Ada Lovelace", out.LookupString("resume", "basics", "name"))
	assert.Equal(t, "ada@example.com", out.LookupString("resume", "basics", "email"))
	loc, _ := out.Lookup("resume", "basics", "location")
	assert.Equal(t, map[string]any{"address": "London"}, loc)

	v, _ := out.Lookup("resume", "experience")
	exp, _ := v.([]any)
	require.Len(t, exp, 1)
	entry := exp[0].(map[string]any)
	assert.Equal(t, "Engineer", entry["position"])
	assert.Equal(t, "2020-01", entry["startDate"])
	assert.NotContains(t, entry, "title")
	assert.NotContains(t, entry, "start_date")

	v, _ = out.Lookup("resume", "education")
	edu, _ := v.([]any)
	require.Len(t, edu, 1)
	assert.Equal(t, "BSc", edu[0].(map[string]any)["studyType"])

	v, _ = out.Lookup("resume", "skills")
	skills, _ := v.(map[string]any)
	assert.Equal(t, []any{"mathematics", "go"}, skills["general"])

	// Fields the mapping does not know survive at the top level.
	assert.Contains(t, out, "custom_section")
}

func TestNamespacedToLegacy(t *testing.T) {
	up, err := legacyToNamespaced(fullLegacyFixture())
	require.NoError(t, err)

	down, err := namespacedToLegacy(up)
	require.NoError(t, err)

	assert.Equal(t, "1.3.0", down["schema_version"])
	pi, _ := down["personal_information"].(map[string]any)
	require.NotNil(t, pi)
	assert.Equal(t, "Ada Lovelace", pi["name"])

	work, _ := down["work_experience"].([]any)
	require.Len(t, work, 1)
	entry := work[0].(map[string]any)
	assert.Equal(t, "Engineer", entry["title"])
	assert.Equal(t, "2020-01", entry["start_date"])

	assert.Equal(t, []any{"mathematics", "go"}, down["skills"])
}

func TestNamespacedToLegacy_FlattensSkillGroupsDeterministically(t *testing.T) {
	rec := types.Record{
		"specVersion": "2.0.0",
		"resume": map[string]any{
			"basics": map[string]any{"name": "Ada"},
			"skills": map[string]any{
				"tools":     []any{"git"},
				"languages": []any{"go", "python"},
			},
		},
	}
	out, err := namespacedToLegacy(rec)
	require.NoError(t, err)
	assert.Equal(t, []any{"go", "python", "git"}, out["skills"], "groups flatten in sorted group-name order")
}

func TestBuiltinSteps_EmptySectionsAreTolerated(t *testing.T) {
	minimal := types.Record{
		"schema_version":       "1.3.0",
		"personal_information": map[string]any{"name": "Ada"},
	}
	out, err := legacyToNamespaced(minimal)
	require.NoError(t, err)

	v, _ := out.Lookup("resume", "experience")
	assert.Equal(t, []any{}, v)
	v, _ = out.Lookup("resume", "skills")
	assert.Equal(t, map[string]any{}, v)
}
