// Package rules defines pluggable business rules for resume records and
// the registry they are collected in.
package rules

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/version"
)

// DefaultPriority is the mid-value priority assigned to rules that do not
// specify one. Lower priorities run first.
const DefaultPriority = 100

// Checker is the single capability a rule needs: inspect a record and emit
// zero or more issues. A non-nil error (or a panic) is converted by the
// pipeline into one error-severity issue naming the rule.
type Checker interface {
	Check(rec types.Record) ([]types.Issue, error)
}

// CheckFunc adapts a plain function to the Checker interface.
type CheckFunc func(rec types.Record) ([]types.Issue, error)

// Check implements Checker.
func (f CheckFunc) Check(rec types.Record) ([]types.Issue, error) {
	return f(rec)
}

// Rule couples a checker with its metadata.
type Rule struct {
	// ID identifies the rule in issues and skip lists. Duplicate IDs across
	// sources are not deduplicated; both rules run.
	ID string

	// Severity is the default severity for issues this rule emits when the
	// checker leaves it empty. Defaults to error.
	Severity string

	// Priority orders execution, ascending. Zero means DefaultPriority.
	Priority int

	// Category is a free-form grouping label, informational only.
	Category string

	// AppliesTo constrains the rule to a version line: a bare major
	// ("1"), a full version ("1.2.0"), or empty for all versions.
	AppliesTo string

	// Checker performs the inspection.
	Checker Checker
}

// EffectivePriority returns the rule's priority with the default applied.
func (r Rule) EffectivePriority() int {
	if r.Priority == 0 {
		return DefaultPriority
	}
	return r.Priority
}

// EffectiveSeverity returns the rule's default severity with the fallback
// applied.
func (r Rule) EffectiveSeverity() string {
	if r.Severity == "" {
		return types.SeverityError
	}
	return r.Severity
}

// Applies reports whether the rule applies to a record of version ver.
func (r Rule) Applies(ver string) bool {
	if r.AppliesTo == "" {
		return true
	}
	if !strings.Contains(r.AppliesTo, ".") {
		v, err := version.Parse(version.Normalize(ver))
		if err != nil {
			return false
		}
		return r.AppliesTo == fmt.Sprintf("%d", v.Major)
	}
	return version.Normalize(r.AppliesTo) == version.Normalize(ver)
}
