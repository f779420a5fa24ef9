package schemas

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/version"
)

// Validation modes. Compat is the default: unseen minor versions within a
// known major resolve to the nearest local schema with version literals
// widened. Strict refuses substitution; permissive behaves like compat for
// schema resolution (rule handling differs upstream).
const (
	ModeStrict     = "strict"
	ModeCompat     = "compat"
	ModePermissive = "permissive"
)

// Schema sources reported in resolution metadata.
const (
	SourceRegistry = "registry"
	SourceRemote   = "remote"
	SourceNearest  = "nearest"
	SourceFallback = "fallback"
)

// Options controls a single schema resolution.
type Options struct {
	// Mode is one of ModeStrict, ModeCompat, ModePermissive.
	// Empty means ModeCompat.
	Mode string

	// AllowRemote enables fetching the record's declared schema URL
	// (or RemoteURL) when it passes the allow-list.
	AllowRemote bool

	// RemoteURL overrides the record's declared schema reference.
	RemoteURL string

	// FetchTimeout bounds the remote fetch. Zero means DefaultFetchTimeout.
	FetchTimeout time.Duration
}

func (o Options) mode() string {
	if o.Mode == "" {
		return ModeCompat
	}
	return o.Mode
}

// Resolved is the outcome of schema resolution. Resolution never fails for
// an unknown version; the caller learns what happened from Source.
type Resolved struct {
	// Requested is the version resolution was asked for.
	Requested string

	// Version is the version of the schema actually used.
	Version string

	// Source is one of the Source* constants.
	Source string

	// Relaxed is set when version-constant fields were widened because the
	// resolved schema version differs from the requested one.
	Relaxed bool

	// Document is the schema document (never mutated after resolution).
	Document map[string]any

	// Compiled is the ready-to-run validator for Document.
	Compiled *gojsonschema.Schema
}

// Resolver turns record versions into compiled schemas. It owns the
// process-wide compiled-schema cache; cached values are pure functions of
// their key, so duplicate concurrent population is harmless.
type Resolver struct {
	registry *Registry
	fetcher  *Fetcher

	mu       sync.RWMutex
	compiled map[string]*gojsonschema.Schema
}

// NewResolver creates a resolver over the given registry. A nil registry
// gets the built-in one.
func NewResolver(registry *Registry) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Resolver{
		registry: registry,
		fetcher:  NewFetcher(0),
		compiled: map[string]*gojsonschema.Schema{},
	}
}

// Registry exposes the resolver's schema registry for registration calls.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve finds the schema to check a record of the given version against.
// The chain is: remote (if enabled and allow-listed), exact local match,
// nearest local within the same major (non-strict modes), synthesized
// minimal fallback. Cross-major substitution is never attempted.
func (r *Resolver) Resolve(ctx context.Context, rec types.Record, requested string, opts Options) (*Resolved, error) {
	requested = version.Normalize(requested)

	// Remote resolution, when enabled and trusted.
	if opts.AllowRemote {
		url := opts.RemoteURL
		if url == "" && rec != nil {
			url = rec.SchemaRef()
		}
		if url != "" && URLAllowed(url) {
			if res := r.resolveRemote(ctx, url, requested, opts); res != nil {
				return res, nil
			}
			// Fetch failures degrade to local resolution.
		}
	}

	// Exact local match.
	if doc := r.registry.Get(requested); doc != nil {
		compiled, err := r.compile(cacheKey(requested, SourceRegistry, false), doc)
		if err != nil {
			return nil, err
		}
		return &Resolved{
			Requested: requested,
			Version:   requested,
			Source:    SourceRegistry,
			Document:  doc,
			Compiled:  compiled,
		}, nil
	}

	// Nearest known version within the same major line.
	if opts.mode() != ModeStrict {
		if target, err := version.Parse(requested); err == nil {
			if near, ok := version.Nearest(target, r.registry.Versions()); ok {
				doc := relaxVersionConstants(r.registry.Get(near.String()))
				compiled, err := r.compile(cacheKey(near.String(), SourceNearest, true), doc)
				if err != nil {
					return nil, err
				}
				return &Resolved{
					Requested: requested,
					Version:   near.String(),
					Source:    SourceNearest,
					Relaxed:   true,
					Document:  doc,
					Compiled:  compiled,
				}, nil
			}
		}
	}

	// Synthesized minimal fallback reflecting the record's evident shape.
	envelope := types.EnvelopeLegacy
	if rec != nil {
		if e := rec.Envelope(); e != types.EnvelopeUnknown {
			envelope = e
		}
	}
	doc := fallbackSchema(envelope)
	compiled, err := r.compile(cacheKey(string(envelope), SourceFallback, false), doc)
	if err != nil {
		return nil, err
	}
	return &Resolved{
		Requested: requested,
		Version:   requested,
		Source:    SourceFallback,
		Document:  doc,
		Compiled:  compiled,
	}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, url, requested string, opts Options) *Resolved {
	timeout := opts.FetchTimeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc, err := r.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		return nil
	}

	ver := versionFromDoc(doc)
	relaxed := false
	if ver == "" {
		ver = requested
	}
	if ver != requested {
		doc = relaxVersionConstants(doc)
		relaxed = true
	}
	compiled, err := r.compile(cacheKey(url, SourceRemote, relaxed), doc)
	if err != nil {
		return nil
	}
	return &Resolved{
		Requested: requested,
		Version:   ver,
		Source:    SourceRemote,
		Relaxed:   relaxed,
		Document:  doc,
		Compiled:  compiled,
	}
}

func cacheKey(id, source string, relaxed bool) string {
	return fmt.Sprintf("%s|%s|%t", id, source, relaxed)
}

func (r *Resolver) compile(key string, doc map[string]any) (*gojsonschema.Schema, error) {
	r.mu.RLock()
	compiled, ok := r.compiled[key]
	r.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &SchemaLoadError{Version: key, Message: "schema failed to compile", Cause: err}
	}

	r.mu.Lock()
	r.compiled[key] = compiled
	r.mu.Unlock()
	return compiled, nil
}

// relaxVersionConstants deep-copies a schema document and widens any
// const/enum/pattern constraints on the version marker fields to plain
// strings, so structurally compatible minor versions are not rejected on
// the version literal alone.
func relaxVersionConstants(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := deepCopy(doc).(map[string]any)
	props, _ := out["properties"].(map[string]any)
	if props == nil {
		return out
	}
	for _, field := range []string{types.FieldSchemaVersion, types.FieldSpecVersion} {
		if _, ok := props[field]; ok {
			props[field] = map[string]any{"type": "string"}
		}
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// fallbackSchema synthesizes a minimal schema covering only the mandatory
// fields of the given envelope shape.
func fallbackSchema(envelope types.Envelope) map[string]any {
	if envelope == types.EnvelopeNamespaced {
		return map[string]any{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type":    "object",
			"required": []any{
				types.FieldSpecVersion,
				"resume",
			},
			"properties": map[string]any{
				types.FieldSpecVersion: map[string]any{"type": "string"},
				"resume":               map[string]any{"type": "object"},
			},
		}
	}
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []any{
			types.FieldSchemaVersion,
		},
		"properties": map[string]any{
			types.FieldSchemaVersion: map[string]any{"type": "string"},
			"personal_information":   map[string]any{"type": "object"},
		},
	}
}
