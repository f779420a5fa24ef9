//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DescriptorType is the fixed value of the descriptor's Type key.
const DescriptorType = "resume"

// SpecNamespace identifies the embedding convention in the technical
// descriptor's Spec key.
const SpecNamespace = "org.openresume.record"

// Descriptor is the technical descriptor attached to the embedded file's
// attachment specification. Key names are part of the on-disk convention
// and must not change.
type Descriptor struct {
	Version        string
	Checksum       string
	Created        time.Time
	Compressed     bool
	OriginalSize   int
	CompressedSize int
}

// ToMap renders the descriptor with its exact wire keys.
func (d *Descriptor) ToMap() map[string]any {
	return map[string]any{
		"Type":           DescriptorType,
		"Spec":           SpecNamespace,
		"Version":        d.Version,
		"Checksum":       d.Checksum,
		"Created":        d.Created.UTC().Format(time.RFC3339),
		"Compressed":     d.Compressed,
		"OriginalSize":   d.OriginalSize,
		"CompressedSize": d.CompressedSize,
	}
}

// DescriptorFromMap parses a descriptor from attachment-specification
// params. Returns nil if the map does not carry a resume descriptor.
func DescriptorFromMap(m map[string]any) *Descriptor {
	if m == nil {
		return nil
	}
	if t, _ := m["Type"].(string); t != DescriptorType {
		return nil
	}
	d := &Descriptor{}
	d.Version, _ = m["Version"].(string)
	d.Checksum, _ = m["Checksum"].(string)
	d.Compressed, _ = m["Compressed"].(bool)
	d.OriginalSize = asInt(m["OriginalSize"])
	d.CompressedSize = asInt(m["CompressedSize"])
	if s, _ := m["Created"].(string); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			d.Created = t
		}
	}
	return d
}

// DiscoveryTag is the lightweight presence marker written into the
// container's top-level metadata. All fields except HasStructuredData are
// best-effort and advisory; a mismatch with the payload is never fatal.
type DiscoveryTag struct {
	HasStructuredData bool
	SpecVersion       string
	CandidateName     string
	CandidateEmail    string
	Checksum          string
	LastModified      time.Time
	ResumeID          string
}

// ToMap renders the tag with its exact wire keys, omitting empty
// informational fields.
func (t *DiscoveryTag) ToMap() map[string]any {
	m := map[string]any{
		"hasStructuredData": t.HasStructuredData,
		"specVersion":       t.SpecVersion,
	}
	if t.CandidateName != "" {
		m["candidateName"] = t.CandidateName
	}
	if t.CandidateEmail != "" {
		m["candidateEmail"] = t.CandidateEmail
	}
	if t.Checksum != "" {
		m["checksum"] = t.Checksum
	}
	if !t.LastModified.IsZero() {
		m["lastModified"] = t.LastModified.UTC().Format(time.RFC3339)
	}
	if t.ResumeID != "" {
		m["resumeId"] = t.ResumeID
	}
	return m
}

// TagFromMap parses a discovery tag from container metadata. Returns nil
// when the map is absent or does not look like a tag; malformed fields are
// skipped rather than reported.
func TagFromMap(m map[string]any) *DiscoveryTag {
	if m == nil {
		return nil
	}
	has, ok := m["hasStructuredData"].(bool)
	if !ok {
		return nil
	}
	t := &DiscoveryTag{HasStructuredData: has}
	t.SpecVersion, _ = m["specVersion"].(string)
	t.CandidateName, _ = m["candidateName"].(string)
	t.CandidateEmail, _ = m["candidateEmail"].(string)
	t.Checksum, _ = m["checksum"].(string)
	t.ResumeID, _ = m["resumeId"].(string)
	if s, _ := m["lastModified"].(string); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			t.LastModified = ts
		}
	}
	return t
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
