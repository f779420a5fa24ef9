package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-embed/internal/types"
)

func noopChecker() Checker {
	return CheckFunc(func(types.Record) ([]types.Issue, error) { return nil, nil })
}

func TestRule_Applies(t *testing.T) {
	tests := []struct {
		name      string
		appliesTo string
		version   string
		want      bool
	}{
		{"empty applies to everything", "", "1.0.0", true},
		{"major line match", "1", "1.2.0", true},
		{"major line mismatch", "1", "2.0.0", false},
		{"exact version match", "1.2.0", "1.2.0", true},
		{"exact version normalized", "1.2", "1.2.0", true},
		{"exact version mismatch", "1.2.0", "1.3.0", false},
		{"major line with unparseable version", "1", "garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{ID: "x", AppliesTo: tt.appliesTo, Checker: noopChecker()}
			assert.Equal(t, tt.want, r.Applies(tt.version))
		})
	}
}

func TestRule_Defaults(t *testing.T) {
	r := Rule{ID: "x", Checker: noopChecker()}
	assert.Equal(t, DefaultPriority, r.EffectivePriority())
	assert.Equal(t, types.SeverityError, r.EffectiveSeverity())

	r = Rule{ID: "y", Priority: 5, Severity: types.SeverityWarning, Checker: noopChecker()}
	assert.Equal(t, 5, r.EffectivePriority())
	assert.Equal(t, types.SeverityWarning, r.EffectiveSeverity())
}

func TestRegistry_PreservesOrderAndAllowsDuplicateIDs(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Rule{ID: "dup", Checker: noopChecker()}))
	require.NoError(t, reg.Register(Rule{ID: "other", Checker: noopChecker()}))
	require.NoError(t, reg.Register(Rule{ID: "dup", Checker: noopChecker()}))

	got := reg.Rules()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"dup", "other", "dup"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestRegistry_RejectsIncompleteRules(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register(Rule{Checker: noopChecker()}))
	assert.Error(t, reg.Register(Rule{ID: "no-checker"}))
}

func TestRegistry_RulesReturnsSnapshot(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Rule{ID: "a", Checker: noopChecker()}))

	snap := reg.Rules()
	require.NoError(t, reg.Register(Rule{ID: "b", Checker: noopChecker()}))
	assert.Len(t, snap, 1)
	assert.Len(t, reg.Rules(), 2)
}

func TestDefault_ContainsBuiltins(t *testing.T) {
	ids := map[string]bool{}
	for _, r := range Default().Rules() {
		ids[r.ID] = true
	}
	for _, want := range []string{"legacy-name-required", "legacy-email-format", "basics-name-required", "experience-dates"} {
		assert.True(t, ids[want], "builtin %s should be preregistered", want)
	}
}

func runRuleByID(t *testing.T, id string, rec types.Record) []types.Issue {
	t.Helper()
	for _, r := range BuiltinRules() {
		if r.ID == id {
			issues, err := r.Checker.Check(rec)
			require.NoError(t, err)
			return issues
		}
	}
	t.Fatalf("no builtin rule %s", id)
	return nil
}

func TestBuiltin_LegacyNameRequired(t *testing.T) {
	missing := types.Record{"schema_version": "1.0.0", "personal_information": map[string]any{}}
	issues := runRuleByID(t, "legacy-name-required", missing)
	require.Len(t, issues, 1)
	assert.Equal(t, "personal_information.name", issues[0].Path)
	assert.Equal(t, types.SeverityError, issues[0].Severity)

	ok := types.Record{"personal_information": map[string]any{"name": "Ada"}}
	assert.Empty(t, runRuleByID(t, "legacy-name-required", ok))
}

func TestBuiltin_EmailFormat(t *testing.T) {
	bad := types.Record{"personal_information": map[string]any{"email": "not-an-email"}}
	issues := runRuleByID(t, "legacy-email-format", bad)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not-an-email")

	// Absent email is not this rule's concern.
	assert.Empty(t, runRuleByID(t, "legacy-email-format", types.Record{}))

	good := types.Record{"resume": map[string]any{"basics": map[string]any{"email": "ada@example.com"}}}
	assert.Empty(t, runRuleByID(t, "basics-email-format", good))
}

func TestBuiltin_ExperienceDates(t *testing.T) {
	rec := types.Record{
		"work_experience": []any{
			map[string]any{"start_date": "2020-01", "end_date": "2021-06"},
			map[string]any{"start_date": "2022-01", "end_date": "2021-06"},
			map[string]any{"start_date": "2023-01"},
		},
	}
	issues := runRuleByID(t, "legacy-experience-dates", rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "work_experience.1", issues[0].Path)

	ns := types.Record{
		"resume": map[string]any{
			"experience": []any{
				map[string]any{"startDate": "2022-01", "endDate": "2020-01"},
			},
		},
	}
	issues = runRuleByID(t, "experience-dates", ns)
	require.Len(t, issues, 1)
	assert.Equal(t, "resume.experience.0", issues[0].Path)
}

func TestBuiltin_SkillsPresentIsWarningOnly(t *testing.T) {
	rec := types.Record{"skills": []any{}}
	issues := runRuleByID(t, "legacy-skills-present", rec)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)

	// A missing skills section is the schema's concern, not this rule's.
	assert.Empty(t, runRuleByID(t, "legacy-skills-present", types.Record{}))
}

func TestBuiltin_MetaLanguageTag(t *testing.T) {
	bad := types.Record{"meta": map[string]any{"language": "english"}}
	issues := runRuleByID(t, "meta-language-tag", bad)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)

	for _, lang := range []string{"en", "en-US"} {
		rec := types.Record{"meta": map[string]any{"language": lang}}
		assert.Empty(t, runRuleByID(t, "meta-language-tag", rec), lang)
	}
}
