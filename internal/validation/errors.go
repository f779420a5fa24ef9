// Package validation runs structural and business-rule validation of
// resume records through a single ordered pipeline.
package validation

import "fmt"

// Error represents a pipeline failure that prevented validation from
// producing a result at all. Individual rule failures never surface here;
// they are isolated into issues.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
