package schemas

import "fmt"

// SchemaLoadError represents errors compiling or parsing a schema document.
type SchemaLoadError struct {
	Version string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Version, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Version, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// FetchError represents a failed remote schema fetch. Fetch failures are
// recovered by falling back to local resolution; the error is carried for
// diagnostics only.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema fetch failed for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema fetch failed for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
