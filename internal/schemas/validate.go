package schemas

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-embed/internal/types"
)

// ValidateDocument runs structural validation of a record against a
// compiled schema and converts the engine's findings into issues, in
// engine-reported order.
func ValidateDocument(compiled *gojsonschema.Schema, rec types.Record) ([]types.Issue, error) {
	result, err := compiled.Validate(gojsonschema.NewGoLoader(map[string]any(rec)))
	if err != nil {
		return nil, &SchemaLoadError{Message: "structural validation could not run", Cause: err}
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]types.Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, types.Issue{
			Kind:     types.KindSchema,
			Severity: types.SeverityError,
			Message:  desc.Description(),
			Path:     field,
			Context: map[string]any{
				"keyword": desc.Type(),
			},
		})
	}
	return issues, nil
}
