//nolint:revive // types is a standard Go package name pattern
package types

// Issue severities. An error-severity issue fails the overall result;
// warnings are informational only.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue kinds. Schema issues come from structural validation, rule issues
// from the business-rule pipeline.
const (
	KindSchema = "schema"
	KindRule   = "rule"
)

// Issue represents a single validation finding against a record.
type Issue struct {
	Kind     string         `json:"kind"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Path     string         `json:"path,omitempty"`
	RuleID   string         `json:"rule_id,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// HasErrors reports whether any issue in the list carries error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidationResult is the outcome of running the full validation pipeline
// against a record.
type ValidationResult struct {
	OK          bool    `json:"ok"`
	SchemaValid bool    `json:"schema_valid"`
	RulesValid  bool    `json:"rules_valid"`
	Version     string  `json:"version"`
	Issues      []Issue `json:"issues"`

	// SchemaSource records how the schema was obtained (registry, remote,
	// nearest, fallback). Informational.
	SchemaSource string `json:"schema_source,omitempty"`

	// SchemaVersion is the version of the schema actually used, which may
	// differ from Version in compatibility mode.
	SchemaVersion string `json:"schema_version,omitempty"`

	// Truncated is set when the issue list was cut to the configured
	// maximum. A view-layer concern, never a failure.
	Truncated bool `json:"truncated,omitempty"`
}
