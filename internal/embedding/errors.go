// Package embedding implements the protocol for storing a structured
// resume record inside a container and recovering it later: triple
// metadata, checksums, compression policy, and idempotent replacement.
package embedding

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-embed/internal/types"
)

// ErrArtifactNotFound reports that the container carries no embedded
// record under the reserved name. A normal outcome, not a processing
// failure; callers distinguish it with errors.Is.
var ErrArtifactNotFound = errors.New("no embedded resume artifact found")

// PayloadError reports an artifact whose stored bytes could not be
// recovered into a record. A hard failure for extraction.
type PayloadError struct {
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("payload error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("payload error: %s", e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}

// ValidationFailedError reports that embedding was refused because the
// record failed validation. The full issue list is carried so callers can
// render field-level feedback.
type ValidationFailedError struct {
	Result *types.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	n := 0
	if e.Result != nil {
		n = len(e.Result.Issues)
	}
	return fmt.Sprintf("record failed validation with %d issue(s); refusing to embed", n)
}
