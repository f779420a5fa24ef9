package validation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/resume-embed/internal/rules"
	"github.com/jonathan/resume-embed/internal/schemas"
	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/version"
)

// Options provides optional parameters for a single validation run.
type Options struct {
	// Version overrides version detection. Empty means detect from the
	// record, falling back to the current version.
	Version string

	// Mode is one of schemas.ModeStrict, ModeCompat, ModePermissive.
	// Permissive skips business rules entirely.
	Mode string

	// Rules are per-call custom rules, merged with the registry's rules.
	// Duplicate IDs are not deduplicated; both run.
	Rules []rules.Rule

	// Skip lists rule IDs to exclude, regardless of which source
	// registered them.
	Skip []string

	// MaxIssues truncates the final issue list when positive. Truncation
	// is a view-layer concern, never a failure.
	MaxIssues int

	// Remote schema resolution controls, passed through to the resolver.
	AllowRemote  bool
	RemoteURL    string
	FetchTimeout time.Duration
}

// Pipeline validates records: structural schema checks first, then the
// ordered business-rule batch.
type Pipeline struct {
	resolver *schemas.Resolver
	registry *rules.Registry
}

// NewPipeline creates a pipeline over the given resolver and rule
// registry. Nil arguments get the defaults.
func NewPipeline(resolver *schemas.Resolver, registry *rules.Registry) *Pipeline {
	if resolver == nil {
		resolver = schemas.NewResolver(nil)
	}
	if registry == nil {
		registry = rules.Default()
	}
	return &Pipeline{resolver: resolver, registry: registry}
}

// Resolver exposes the pipeline's schema resolver.
func (p *Pipeline) Resolver() *schemas.Resolver {
	return p.resolver
}

// Validate runs the full pipeline against a record. Unknown versions never
// fail the call; they degrade through the resolver's fallback chain. A
// returned error means the pipeline itself could not run.
func (p *Pipeline) Validate(ctx context.Context, rec types.Record, opts Options) (*types.ValidationResult, error) {
	ver := opts.Version
	if ver == "" {
		ver = version.Detect(rec, version.Current)
	}
	ver = version.Normalize(ver)

	resolved, err := p.resolver.Resolve(ctx, rec, ver, schemas.Options{
		Mode:         opts.Mode,
		AllowRemote:  opts.AllowRemote,
		RemoteURL:    opts.RemoteURL,
		FetchTimeout: opts.FetchTimeout,
	})
	if err != nil {
		return nil, &Error{Message: "schema resolution failed", Cause: err}
	}

	schemaIssues, err := schemas.ValidateDocument(resolved.Compiled, rec)
	if err != nil {
		return nil, &Error{Message: "structural validation failed", Cause: err}
	}

	// In strict mode a version we had to substitute or synthesize a schema
	// for is itself an error.
	if opts.Mode == schemas.ModeStrict &&
		(resolved.Source == schemas.SourceNearest || resolved.Source == schemas.SourceFallback) {
		schemaIssues = append([]types.Issue{{
			Kind:     types.KindSchema,
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("unsupported schema version %s", ver),
			Context:  map[string]any{"requested": ver, "resolved": resolved.Version},
		}}, schemaIssues...)
	}

	var ruleIssues []types.Issue
	if opts.Mode != schemas.ModePermissive {
		ruleIssues = p.runRules(rec, ver, opts)
	}

	issues := append(schemaIssues, ruleIssues...)

	result := &types.ValidationResult{
		SchemaValid:   !hasErrorsOfKind(issues, types.KindSchema),
		RulesValid:    !hasErrorsOfKind(issues, types.KindRule),
		Version:       ver,
		Issues:        issues,
		SchemaSource:  resolved.Source,
		SchemaVersion: resolved.Version,
	}
	if opts.MaxIssues > 0 && len(result.Issues) > opts.MaxIssues {
		result.Issues = result.Issues[:opts.MaxIssues]
		result.Truncated = true
	}
	result.OK = !types.HasErrors(issues)
	return result, nil
}

// runRules gathers, orders, and executes the applicable rules. One failing
// rule never aborts the batch.
func (p *Pipeline) runRules(rec types.Record, ver string, opts Options) []types.Issue {
	skip := map[string]bool{}
	for _, id := range opts.Skip {
		skip[id] = true
	}

	var batch []rules.Rule
	for _, r := range append(p.registry.Rules(), opts.Rules...) {
		if skip[r.ID] || !r.Applies(ver) {
			continue
		}
		batch = append(batch, r)
	}

	// Ascending priority; registration order is the tiebreak, which a
	// stable sort preserves.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].EffectivePriority() < batch[j].EffectivePriority()
	})

	var issues []types.Issue
	for _, r := range batch {
		issues = append(issues, runRule(r, rec)...)
	}
	return issues
}

// runRule executes one rule in isolation. A panic or returned error
// becomes exactly one error-severity issue naming the rule.
func runRule(r rules.Rule, rec types.Record) (issues []types.Issue) {
	defer func() {
		if p := recover(); p != nil {
			issues = []types.Issue{{
				Kind:     types.KindRule,
				Severity: types.SeverityError,
				Message:  fmt.Sprintf("rule %s panicked: %v", r.ID, p),
				RuleID:   r.ID,
			}}
		}
	}()

	found, err := r.Checker.Check(rec)
	if err != nil {
		return []types.Issue{{
			Kind:     types.KindRule,
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("rule %s failed: %v", r.ID, err),
			RuleID:   r.ID,
		}}
	}

	for _, is := range found {
		if is.Kind == "" {
			is.Kind = types.KindRule
		}
		if is.Severity == "" {
			is.Severity = r.EffectiveSeverity()
		}
		if is.RuleID == "" {
			is.RuleID = r.ID
		}
		issues = append(issues, is)
	}
	return issues
}

func hasErrorsOfKind(issues []types.Issue, kind string) bool {
	for _, is := range issues {
		if is.Kind == kind && is.Severity == types.SeverityError {
			return true
		}
	}
	return false
}
