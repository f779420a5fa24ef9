package embedding

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-embed/internal/config"
	"github.com/jonathan/resume-embed/internal/container"
	"github.com/jonathan/resume-embed/internal/migration"
	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/validation"
	"github.com/jonathan/resume-embed/internal/version"
)

// ReservedFileName is the single logical name a record artifact is stored
// under. At most one artifact with this name exists in a container.
const ReservedFileName = "resume.json"

// MetadataKey is the catalog metadata key the discovery tag lives under.
const MetadataKey = "OpenResume"

// Compression policies.
const (
	CompressAuto = "auto"
	CompressOn   = "on"
	CompressOff  = "off"
)

// Embedder orchestrates the embed and extract paths. Construct with New;
// the zero value is not usable.
type Embedder struct {
	pipeline *validation.Pipeline
	engine   *migration.Engine
	cfg      *config.Config

	// now and newID are swappable for tests.
	now   func() time.Time
	newID func() string
}

// New creates an embedder. Nil arguments get the package defaults.
func New(pipeline *validation.Pipeline, engine *migration.Engine, cfg *config.Config) *Embedder {
	if pipeline == nil {
		pipeline = validation.NewPipeline(nil, nil)
	}
	if engine == nil {
		engine = migration.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Embedder{
		pipeline: pipeline,
		engine:   engine,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// EmbedOptions provides optional parameters for one embed call.
type EmbedOptions struct {
	// Validate runs the validation pipeline first and refuses to embed a
	// record with error-severity issues.
	Validate bool

	// Mode is the validation mode used when Validate is set. Empty means
	// the configured default.
	Mode string

	// Compress is the compression policy: CompressAuto, CompressOn, or
	// CompressOff. Empty means the configured default.
	Compress string

	// SkipDiscoveryTag leaves the catalog metadata untouched.
	SkipDiscoveryTag bool

	// ResumeID fixes the discovery tag's resumeId. Empty reuses the
	// container's existing tag ID, or generates a fresh one.
	ResumeID string
}

// EmbedResult reports what was written.
type EmbedResult struct {
	Version        string                  `json:"version"`
	Checksum       string                  `json:"checksum"`
	Compressed     bool                    `json:"compressed"`
	OriginalSize   int                     `json:"original_size"`
	CompressedSize int                     `json:"compressed_size"`
	ResumeID       string                  `json:"resume_id,omitempty"`
	Validation     *types.ValidationResult `json:"validation,omitempty"`
}

// Embed stores a record inside the container, replacing any previous
// artifact under the reserved name. The input record is not mutated.
func (e *Embedder) Embed(ctx context.Context, c container.Container, rec types.Record, opts EmbedOptions) (*EmbedResult, error) {
	result := &EmbedResult{}

	// Never embed admittedly invalid data silently.
	if opts.Validate {
		mode := opts.Mode
		if mode == "" {
			mode = e.cfg.Mode
		}
		vres, err := e.pipeline.Validate(ctx, rec, validation.Options{
			Mode:         mode,
			MaxIssues:    e.cfg.MaxIssues,
			AllowRemote:  e.cfg.RemoteSchemas,
			FetchTimeout: e.cfg.FetchTimeout,
		})
		if err != nil {
			return nil, err
		}
		result.Validation = vres
		if !vres.OK {
			return nil, &ValidationFailedError{Result: vres}
		}
	}

	// Stamp the version marker if absent.
	work := rec.DeepCopy()
	ver := version.Detect(work, e.cfg.CurrentVersion)
	if work.SpecVersion() == "" && work.SchemaVersion() == "" {
		work.SetVersion(ver)
	}
	result.Version = ver

	payload, err := CanonicalBytes(work)
	if err != nil {
		return nil, err
	}

	// The fingerprint is always computed over the uncompressed canonical
	// bytes, so it stays stable across compression policy changes.
	result.Checksum = Fingerprint(payload)
	result.OriginalSize = len(payload)

	stored := payload
	if e.shouldCompress(opts.Compress, len(payload)) {
		stored, err = compress(payload)
		if err != nil {
			return nil, err
		}
		result.Compressed = true
	}
	result.CompressedSize = len(stored)

	descriptor := &types.Descriptor{
		Version:        ver,
		Checksum:       result.Checksum,
		Created:        e.now().UTC(),
		Compressed:     result.Compressed,
		OriginalSize:   result.OriginalSize,
		CompressedSize: result.CompressedSize,
	}

	// Idempotent replace: drop any previous artifact, then write payload
	// and descriptor.
	if err := c.RemoveEmbeddedFile(ReservedFileName); err != nil {
		return nil, err
	}
	if err := c.PutEmbeddedFile(&container.EmbeddedFile{
		Name:   ReservedFileName,
		Data:   stored,
		Params: descriptor.ToMap(),
	}); err != nil {
		return nil, err
	}

	if !opts.SkipDiscoveryTag {
		result.ResumeID = e.writeDiscoveryTag(c, work, descriptor, opts.ResumeID)
	}

	return result, nil
}

func (e *Embedder) shouldCompress(policy string, size int) bool {
	if policy == "" {
		policy = e.cfg.CompressMode
	}
	switch policy {
	case CompressOn:
		return true
	case CompressOff:
		return false
	default:
		return size > e.cfg.CompressionThreshold
	}
}

// writeDiscoveryTag writes the lightweight presence marker into the
// catalog metadata. Identity fields are best-effort and advisory.
func (e *Embedder) writeDiscoveryTag(c container.Container, rec types.Record, d *types.Descriptor, resumeID string) string {
	if resumeID == "" {
		if prev := types.TagFromMap(metadataMap(c)); prev != nil && prev.ResumeID != "" {
			resumeID = prev.ResumeID
		} else {
			resumeID = e.newID()
		}
	}

	tag := &types.DiscoveryTag{
		HasStructuredData: true,
		SpecVersion:       d.Version,
		CandidateName:     rec.Name(),
		CandidateEmail:    rec.Email(),
		Checksum:          d.Checksum,
		LastModified:      d.Created,
		ResumeID:          resumeID,
	}
	c.SetMetadataEntry(MetadataKey, tag.ToMap())
	return resumeID
}

func metadataMap(c container.Container) map[string]any {
	m, _ := c.Metadata()[MetadataKey].(map[string]any)
	return m
}
