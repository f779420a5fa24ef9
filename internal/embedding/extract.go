package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-embed/internal/container"
	"github.com/jonathan/resume-embed/internal/migration"
	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/validation"
	"github.com/jonathan/resume-embed/internal/version"
)

// ExtractOptions provides optional parameters for one extract call.
type ExtractOptions struct {
	// Mode is the validation mode. Empty means the configured default.
	Mode string

	// Skip lists rule IDs to exclude from validation.
	Skip []string

	// MigrateToLatest migrates the recovered record to the current
	// version when it is older. A failed migration degrades to a warning;
	// the pre-migration data is still returned.
	MigrateToLatest bool
}

// ExtractResult carries everything recovered from a container.
type ExtractResult struct {
	// Data is the recovered record, post-migration when migration ran and
	// succeeded.
	Data types.Record `json:"data"`

	// Version is the version the record declared when stored (before any
	// migration).
	Version string `json:"version"`

	// Descriptor is the technical descriptor read from the attachment.
	Descriptor *types.Descriptor `json:"descriptor,omitempty"`

	// Tag is the discovery tag, when present and well-formed. Advisory
	// only.
	Tag *types.DiscoveryTag `json:"tag,omitempty"`

	// Validation is the pipeline result for the recovered record.
	Validation *types.ValidationResult `json:"validation,omitempty"`

	// Issues collects extraction-level findings: checksum mismatches and
	// migration failures, all warnings.
	Issues []types.Issue `json:"issues,omitempty"`

	// Migrated is set when migration ran and succeeded.
	Migrated bool `json:"migrated,omitempty"`

	// MigrationSteps is the applied step trail when migration ran.
	MigrationSteps []migration.StepInfo `json:"migration_steps,omitempty"`
}

// Extract recovers the embedded record from a container. Absence of an
// artifact is reported with ErrArtifactNotFound; an undecodable payload is
// a hard failure; checksum mismatches and migration failures degrade to
// warnings.
func (e *Embedder) Extract(ctx context.Context, c container.Container, opts ExtractOptions) (*ExtractResult, error) {
	result := &ExtractResult{}

	// The discovery tag is optional; a missing or malformed tag is never
	// fatal.
	result.Tag = types.TagFromMap(metadataMap(c))

	f, err := c.EmbeddedFile(ReservedFileName)
	if err != nil {
		if errors.Is(err, container.ErrFileNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}

	result.Descriptor = types.DescriptorFromMap(f.Params)

	// The descriptor's compression flag is authoritative: the protocol may
	// store already-compressed bytes verbatim, so container-level filters
	// say nothing about the payload.
	payload := f.Data
	if result.Descriptor != nil && result.Descriptor.Compressed {
		payload, err = decompress(payload)
		if err != nil {
			return nil, err
		}
	}

	var rec types.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &PayloadError{Message: "stored payload is not a valid record", Cause: err}
	}
	result.Data = rec

	// Re-saved containers can shift surrounding bytes without changing
	// payload semantics, so a fingerprint mismatch warns instead of
	// failing.
	if result.Descriptor != nil && result.Descriptor.Checksum != "" {
		canonical, err := CanonicalBytes(rec)
		if err == nil && Fingerprint(canonical) != result.Descriptor.Checksum {
			result.Issues = append(result.Issues, types.Issue{
				Kind:     types.KindSchema,
				Severity: types.SeverityWarning,
				Message:  "payload checksum does not match the stored descriptor",
				Context: map[string]any{
					"expected": result.Descriptor.Checksum,
					"actual":   Fingerprint(canonical),
				},
			})
		}
	}

	result.Version = version.Detect(rec, e.cfg.CurrentVersion)

	mode := opts.Mode
	if mode == "" {
		mode = e.cfg.Mode
	}
	vres, err := e.pipeline.Validate(ctx, rec, validation.Options{
		Mode:         mode,
		Skip:         opts.Skip,
		MaxIssues:    e.cfg.MaxIssues,
		AllowRemote:  e.cfg.RemoteSchemas,
		FetchTimeout: e.cfg.FetchTimeout,
	})
	if err != nil {
		return nil, err
	}
	result.Validation = vres

	if opts.MigrateToLatest && result.Version != version.Normalize(e.cfg.CurrentVersion) {
		mres := e.engine.Migrate(rec, e.cfg.CurrentVersion)
		result.MigrationSteps = mres.Steps
		if mres.OK {
			result.Data = mres.Data
			result.Migrated = true
		} else {
			// Extraction degrades gracefully: keep the pre-migration data.
			result.Issues = append(result.Issues, types.Issue{
				Kind:     types.KindSchema,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("migration to %s failed: %v", e.cfg.CurrentVersion, mres.Err),
				Context: map[string]any{
					"from": mres.FromVersion,
					"to":   mres.ToVersion,
				},
			})
		}
	}

	return result, nil
}
