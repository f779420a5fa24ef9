package migration

import (
	"sort"

	"github.com/jonathan/resume-embed/internal/types"
)

// BuiltinSteps returns the core migration catalogue: the legacy 1.x chain,
// the 1.3.0 -> 2.0.0 envelope restructure, and its explicit downgrade.
func BuiltinSteps() []Step {
	return []Step{
		{
			From:        "1.0.0",
			To:          "1.1.0",
			Description: "introduce certifications list",
			Transform: func(rec types.Record) (types.Record, error) {
				if _, ok := rec["certifications"]; !ok {
					rec["certifications"] = []any{}
				}
				rec["schema_version"] = "1.1.0"
				return rec, nil
			},
		},
		{
			From:        "1.1.0",
			To:          "1.2.0",
			Description: "introduce languages and projects lists",
			Transform: func(rec types.Record) (types.Record, error) {
				if _, ok := rec["languages"]; !ok {
					rec["languages"] = []any{}
				}
				if _, ok := rec["projects"]; !ok {
					rec["projects"] = []any{}
				}
				rec["schema_version"] = "1.2.0"
				return rec, nil
			},
		},
		{
			From:        "1.2.0",
			To:          "1.3.0",
			Description: "introduce links map",
			Transform: func(rec types.Record) (types.Record, error) {
				if _, ok := rec["links"]; !ok {
					rec["links"] = map[string]any{}
				}
				rec["schema_version"] = "1.3.0"
				return rec, nil
			},
		},
		{
			From:        "1.3.0",
			To:          "2.0.0",
			Description: "restructure legacy flat envelope into namespaced shape",
			Transform:   legacyToNamespaced,
		},
		{
			From:        "2.0.0",
			To:          "1.3.0",
			Description: "downgrade namespaced envelope to the legacy flat shape",
			Transform:   namespacedToLegacy,
		},
	}
}

func legacyToNamespaced(rec types.Record) (types.Record, error) {
	basics := map[string]any{}
	if pi, _ := rec["personal_information"].(map[string]any); pi != nil {
		for from, to := range map[string]string{
			"name": "name", "email": "email", "phone": "phone",
		} {
			if v, ok := pi[from]; ok {
				basics[to] = v
			}
		}
		if loc, ok := pi["location"]; ok {
			basics["location"] = map[string]any{"address": loc}
		}
	}

	experience := []any{}
	if work, _ := rec["work_experience"].([]any); work != nil {
		for _, e := range work {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			entry := map[string]any{}
			for from, to := range map[string]string{
				"company": "company", "title": "position",
				"start_date": "startDate", "end_date": "endDate",
				"highlights": "highlights",
			} {
				if v, ok := m[from]; ok {
					entry[to] = v
				}
			}
			experience = append(experience, entry)
		}
	}

	education := []any{}
	if edu, _ := rec["education"].([]any); edu != nil {
		for _, e := range edu {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			entry := map[string]any{}
			for from, to := range map[string]string{
				"institution": "institution", "degree": "studyType",
				"start_date": "startDate", "end_date": "endDate",
			} {
				if v, ok := m[from]; ok {
					entry[to] = v
				}
			}
			education = append(education, entry)
		}
	}

	skills := map[string]any{}
	if flat, _ := rec["skills"].([]any); len(flat) > 0 {
		skills["general"] = flat
	}

	out := types.Record{
		"specVersion": "2.0.0",
		"meta":        map[string]any{},
		"resume": map[string]any{
			"basics":     basics,
			"experience": experience,
			"education":  education,
			"skills":     skills,
		},
	}
	// Unknown top-level fields are preserved for forward compatibility.
	for k, v := range rec {
		switch k {
		case "schema_version", "personal_information", "work_experience",
			"education", "skills", "certifications", "languages", "projects", "links":
		default:
			out[k] = v
		}
	}
	return out, nil
}

func namespacedToLegacy(rec types.Record) (types.Record, error) {
	pi := map[string]any{}
	if basics, _ := rec.Lookup("resume", "basics"); basics != nil {
		m, _ := basics.(map[string]any)
		for from, to := range map[string]string{
			"name": "name", "email": "email", "phone": "phone",
		} {
			if v, ok := m[from]; ok {
				pi[to] = v
			}
		}
	}

	work := []any{}
	if v, _ := rec.Lookup("resume", "experience"); v != nil {
		entries, _ := v.([]any)
		for _, e := range entries {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			entry := map[string]any{}
			for from, to := range map[string]string{
				"company": "company", "position": "title",
				"startDate": "start_date", "endDate": "end_date",
				"highlights": "highlights",
			} {
				if val, ok := m[from]; ok {
					entry[to] = val
				}
			}
			work = append(work, entry)
		}
	}

	edu := []any{}
	if v, _ := rec.Lookup("resume", "education"); v != nil {
		entries, _ := v.([]any)
		for _, e := range entries {
			m, _ := e.(map[string]any)
			if m == nil {
				continue
			}
			entry := map[string]any{}
			for from, to := range map[string]string{
				"institution": "institution", "studyType": "degree",
				"startDate": "start_date", "endDate": "end_date",
			} {
				if val, ok := m[from]; ok {
					entry[to] = val
				}
			}
			edu = append(edu, entry)
		}
	}

	flatSkills := []any{}
	if v, _ := rec.Lookup("resume", "skills"); v != nil {
		groups, _ := v.(map[string]any)
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			list, _ := groups[name].([]any)
			flatSkills = append(flatSkills, list...)
		}
	}

	return types.Record{
		"schema_version":       "1.3.0",
		"personal_information": pi,
		"work_experience":      work,
		"education":            edu,
		"skills":               flatSkills,
		"links":                map[string]any{},
	}, nil
}
