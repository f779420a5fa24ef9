package rules

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-embed/internal/types"
)

var fieldValidator = validator.New()

// BuiltinRules returns the core rule catalogue. Rules for the legacy line
// carry AppliesTo "1", rules for the namespaced line "2".
func BuiltinRules() []Rule {
	return []Rule{
		{
			ID:        "legacy-name-required",
			Category:  "identity",
			AppliesTo: "1",
			Priority:  10,
			Checker: CheckFunc(func(rec types.Record) ([]types.Issue, error) {
				if rec.LookupString("personal_information", "name") == "" {
					return []types.Issue{{
						Kind:     types.KindRule,
						Severity: types.SeverityError,
						Message:  "personal_information.name is required",
						Path:     "personal_information.name",
					}}, nil
				}
				return nil, nil
			}),
		},
		{
			ID:        "legacy-email-format",
			Category:  "identity",
			AppliesTo: "1",
			Priority:  20,
			Severity:  types.SeverityError,
			Checker:   CheckFunc(emailCheck("personal_information", "email")),
		},
		{
			ID:        "legacy-experience-dates",
			Category:  "consistency",
			AppliesTo: "1",
			Checker:   CheckFunc(dateOrderCheck("work_experience", "start_date", "end_date")),
		},
		{
			ID:        "legacy-skills-present",
			Category:  "completeness",
			AppliesTo: "1",
			Severity:  types.SeverityWarning,
			Priority:  200,
			Checker: CheckFunc(func(rec types.Record) ([]types.Issue, error) {
				v, ok := rec.Lookup("skills")
				if !ok {
					return nil, nil
				}
				if list, _ := v.([]any); list != nil && len(list) == 0 {
					return []types.Issue{{
						Kind:     types.KindRule,
						Severity: types.SeverityWarning,
						Message:  "skills list is empty",
						Path:     "skills",
					}}, nil
				}
				return nil, nil
			}),
		},
		{
			ID:        "basics-name-required",
			Category:  "identity",
			AppliesTo: "2",
			Priority:  10,
			Checker: CheckFunc(func(rec types.Record) ([]types.Issue, error) {
				if rec.LookupString("resume", "basics", "name") == "" {
					return []types.Issue{{
						Kind:     types.KindRule,
						Severity: types.SeverityError,
						Message:  "resume.basics.name is required",
						Path:     "resume.basics.name",
					}}, nil
				}
				return nil, nil
			}),
		},
		{
			ID:        "basics-email-format",
			Category:  "identity",
			AppliesTo: "2",
			Priority:  20,
			Checker:   CheckFunc(emailCheck("resume", "basics", "email")),
		},
		{
			ID:        "experience-dates",
			Category:  "consistency",
			AppliesTo: "2",
			Checker:   CheckFunc(namespacedDateOrderCheck()),
		},
		{
			ID:        "meta-language-tag",
			Category:  "metadata",
			AppliesTo: "2",
			Severity:  types.SeverityWarning,
			Priority:  200,
			Checker: CheckFunc(func(rec types.Record) ([]types.Issue, error) {
				lang := rec.LookupString("meta", "language")
				if lang == "" {
					return nil, nil
				}
				if len(lang) != 2 && len(lang) != 5 {
					return []types.Issue{{
						Kind:     types.KindRule,
						Severity: types.SeverityWarning,
						Message:  fmt.Sprintf("meta.language %q does not look like a language tag", lang),
						Path:     "meta.language",
					}}, nil
				}
				return nil, nil
			}),
		},
	}
}

// emailCheck validates an email field at the given path when present.
func emailCheck(path ...string) func(types.Record) ([]types.Issue, error) {
	return func(rec types.Record) ([]types.Issue, error) {
		email := rec.LookupString(path...)
		if email == "" {
			return nil, nil
		}
		if err := fieldValidator.Var(email, "email"); err != nil {
			return []types.Issue{{
				Kind:     types.KindRule,
				Severity: types.SeverityError,
				Message:  fmt.Sprintf("%q is not a valid email address", email),
				Path:     joinPath(path),
			}}, nil
		}
		return nil, nil
	}
}

// dateOrderCheck flags entries whose end date sorts before their start
// date. Dates are compared lexically, which is correct for the ISO-style
// date strings both envelopes use.
func dateOrderCheck(listField, startKey, endKey string) func(types.Record) ([]types.Issue, error) {
	return func(rec types.Record) ([]types.Issue, error) {
		entries, _ := rec[listField].([]any)
		var issues []types.Issue
		for i, e := range entries {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			start, _ := m[startKey].(string)
			end, _ := m[endKey].(string)
			if start != "" && end != "" && end < start {
				issues = append(issues, types.Issue{
					Kind:     types.KindRule,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("entry %d ends (%s) before it starts (%s)", i, end, start),
					Path:     fmt.Sprintf("%s.%d", listField, i),
				})
			}
		}
		return issues, nil
	}
}

func namespacedDateOrderCheck() func(types.Record) ([]types.Issue, error) {
	return func(rec types.Record) ([]types.Issue, error) {
		v, _ := rec.Lookup("resume", "experience")
		entries, _ := v.([]any)
		var issues []types.Issue
		for i, e := range entries {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			start, _ := m["startDate"].(string)
			end, _ := m["endDate"].(string)
			if start != "" && end != "" && end < start {
				issues = append(issues, types.Issue{
					Kind:     types.KindRule,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("entry %d ends (%s) before it starts (%s)", i, end, start),
					Path:     fmt.Sprintf("resume.experience.%d", i),
				})
			}
		}
		return issues, nil
	}
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
