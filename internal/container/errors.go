package container

import (
	"errors"
	"fmt"
)

// ErrFileNotFound reports that no attachment exists under the requested
// logical name. A normal outcome for containers that simply carry no
// embedded record.
var ErrFileNotFound = errors.New("embedded file not found")

// CorruptError reports a container that could not be parsed at all.
type CorruptError struct {
	Message string
	Cause   error
}

func (e *CorruptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt container: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt container: %s", e.Message)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}

// EncryptedError reports a container that requires credentials this
// system does not handle.
type EncryptedError struct {
	Message string
}

func (e *EncryptedError) Error() string {
	return fmt.Sprintf("encrypted container: %s", e.Message)
}

// OversizeError reports a container exceeding the configured size limit.
type OversizeError struct {
	Size  int64
	Limit int64
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("container size %d exceeds limit %d", e.Size, e.Limit)
}
