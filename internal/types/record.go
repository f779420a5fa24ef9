// Package types provides type definitions for structured resume records and
// the validation results produced while processing them.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Envelope identifies which of the two known record shapes a record uses.
type Envelope string

const (
	// EnvelopeLegacy is the flat shape: schema_version, personal_information,
	// work_experience, education, skills.
	EnvelopeLegacy Envelope = "legacy"

	// EnvelopeNamespaced is the nested shape: $schema, specVersion, meta,
	// resume{basics, experience, education, skills}.
	EnvelopeNamespaced Envelope = "namespaced"

	// EnvelopeUnknown is used for records that match neither convention.
	EnvelopeUnknown Envelope = "unknown"
)

// Field names recognized on records.
const (
	FieldSchemaVersion = "schema_version"
	FieldSpecVersion   = "specVersion"
	FieldSchemaRef     = "$schema"
)

// Record is a structured resume document. Records are duck-typed: unknown
// fields are preserved so future minor versions round-trip unchanged.
type Record map[string]any

// Envelope detects which shape convention the record follows.
// A record carrying both markers is treated as namespaced, since the
// namespaced convention is the newer of the two.
func (r Record) Envelope() Envelope {
	if r == nil {
		return EnvelopeUnknown
	}
	if _, ok := r[FieldSpecVersion]; ok {
		return EnvelopeNamespaced
	}
	if _, ok := r["resume"].(map[string]any); ok {
		return EnvelopeNamespaced
	}
	if _, ok := r[FieldSchemaVersion]; ok {
		return EnvelopeLegacy
	}
	if _, ok := r["personal_information"].(map[string]any); ok {
		return EnvelopeLegacy
	}
	return EnvelopeUnknown
}

// SpecVersion returns the namespaced dotted version marker, or "".
func (r Record) SpecVersion() string {
	s, _ := r[FieldSpecVersion].(string)
	return s
}

// SchemaVersion returns the legacy flat version marker, or "".
func (r Record) SchemaVersion() string {
	s, _ := r[FieldSchemaVersion].(string)
	return s
}

// SchemaRef returns the declared external schema URL, or "".
func (r Record) SchemaRef() string {
	s, _ := r[FieldSchemaRef].(string)
	return s
}

// SetVersion overwrites the record's version marker in place, using
// whichever convention the record already follows. Records of unknown
// shape receive the legacy flat marker.
func (r Record) SetVersion(version string) {
	if r == nil {
		return
	}
	switch r.Envelope() {
	case EnvelopeNamespaced:
		r[FieldSpecVersion] = version
	default:
		r[FieldSchemaVersion] = version
	}
}

// DeepCopy returns a structurally independent copy of the record.
// Only JSON-shaped values (maps, slices, scalars) are copied deeply;
// anything else is carried over by assignment.
func (r Record) DeepCopy() Record {
	if r == nil {
		return nil
	}
	return Record(deepCopyMap(map[string]any(r)))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case Record:
		return deepCopyMap(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// Lookup walks a path of keys through nested maps and returns the value at
// the end of the path. Missing keys or non-map intermediates yield (nil,
// false); Lookup never panics on malformed records.
func (r Record) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LookupString is Lookup restricted to string values.
func (r Record) LookupString(path ...string) string {
	v, ok := r.Lookup(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Name extracts the candidate name from either envelope shape.
// Best-effort: returns "" when no recognizable field is present.
func (r Record) Name() string {
	if s := r.LookupString("resume", "basics", "name"); s != "" {
		return s
	}
	return r.LookupString("personal_information", "name")
}

// Email extracts the candidate email from either envelope shape.
// Best-effort: returns "" when no recognizable field is present.
func (r Record) Email() string {
	if s := r.LookupString("resume", "basics", "email"); s != "" {
		return s
	}
	return r.LookupString("personal_information", "email")
}
