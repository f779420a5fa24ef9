// Package schemas resolves record versions to JSON Schema documents and
// runs structural validation against them.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/jonathan/resume-embed/internal/version"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Registry holds locally known schema documents keyed by version.
// Documents are immutable once registered; callers needing a relaxed
// variant receive a deep copy.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewRegistry returns a registry preloaded with the built-in schemas.
func NewRegistry() *Registry {
	r := &Registry{docs: map[string]map[string]any{}}
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		panic(fmt.Sprintf("schemas: reading builtin dir: %v", err))
	}
	for _, e := range entries {
		data, err := fs.ReadFile(builtinFS, "builtin/"+e.Name())
		if err != nil {
			panic(fmt.Sprintf("schemas: reading builtin schema %s: %v", e.Name(), err))
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			panic(fmt.Sprintf("schemas: parsing builtin schema %s: %v", e.Name(), err))
		}
		ver := versionFromDoc(doc)
		if ver == "" {
			panic(fmt.Sprintf("schemas: builtin schema %s has no version constant", e.Name()))
		}
		r.docs[ver] = doc
	}
	return r
}

// NewEmptyRegistry returns a registry with no schemas, for tests.
func NewEmptyRegistry() *Registry {
	return &Registry{docs: map[string]map[string]any{}}
}

// Register adds a schema document for a version. Registering the same
// version twice replaces the document; last write wins.
func (r *Registry) Register(ver string, doc map[string]any) error {
	v, err := version.Parse(ver)
	if err != nil {
		return fmt.Errorf("cannot register schema: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[v.String()] = doc
	return nil
}

// Get returns the schema document registered for ver, or nil.
func (r *Registry) Get(ver string) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.docs[version.Normalize(ver)]
}

// Versions lists all registered versions in ascending order.
func (r *Registry) Versions() []version.Version {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]version.Version, 0, len(r.docs))
	for k := range r.docs {
		if v, err := version.Parse(k); err == nil {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// versionFromDoc extracts the version constant a schema document declares
// for either marker convention.
func versionFromDoc(doc map[string]any) string {
	props, _ := doc["properties"].(map[string]any)
	for _, field := range []string{"specVersion", "schema_version"} {
		p, _ := props[field].(map[string]any)
		if p == nil {
			continue
		}
		if c, _ := p["const"].(string); c != "" {
			return version.Normalize(c)
		}
	}
	return ""
}
