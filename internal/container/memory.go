package container

import (
	"encoding/json"
	"io"
	"sort"
)

// DefaultMaxContainerBytes bounds how large a container ReadMemory will
// accept.
const DefaultMaxContainerBytes = 64 << 20

// Memory is an in-memory container object model. It stands in for a
// parsed PDF document: a catalog metadata dictionary plus a named
// embedded-file directory. ReadMemory and WriteTo round-trip it through a
// deterministic JSON envelope so tooling and tests can persist fixtures.
type Memory struct {
	metadata map[string]any
	files    map[string]*EmbeddedFile

	// Encrypted marks a container whose payloads are unavailable without
	// credentials. ReadMemory surfaces it as an EncryptedError.
	Encrypted bool
}

type memoryEnvelope struct {
	Metadata  map[string]any  `json:"metadata"`
	Files     []*EmbeddedFile `json:"files"`
	Encrypted bool            `json:"encrypted,omitempty"`
}

// NewMemory returns an empty container.
func NewMemory() *Memory {
	return &Memory{
		metadata: map[string]any{},
		files:    map[string]*EmbeddedFile{},
	}
}

// ReadMemory parses a container from its serialized form. Size and
// encryption problems are reported with the package's typed errors; maxBytes
// of zero means DefaultMaxContainerBytes.
func ReadMemory(r io.Reader, maxBytes int64) (*Memory, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxContainerBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, &CorruptError{Message: "reading container", Cause: err}
	}
	if int64(len(data)) > maxBytes {
		return nil, &OversizeError{Size: int64(len(data)), Limit: maxBytes}
	}

	var env memoryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &CorruptError{Message: "container is not parseable", Cause: err}
	}
	if env.Encrypted {
		return nil, &EncryptedError{Message: "container payloads require credentials"}
	}

	m := NewMemory()
	if env.Metadata != nil {
		m.metadata = env.Metadata
	}
	for _, f := range env.Files {
		if f != nil && f.Name != "" {
			m.files[f.Name] = f
		}
	}
	return m, nil
}

// WriteTo serializes the container. File entries are emitted in sorted
// name order so output is deterministic.
func (m *Memory) WriteTo(w io.Writer) error {
	env := memoryEnvelope{
		Metadata:  m.metadata,
		Encrypted: m.Encrypted,
	}
	for _, name := range m.EmbeddedFileNames() {
		env.Files = append(env.Files, m.files[name])
	}
	enc := json.NewEncoder(w)
	return enc.Encode(env)
}

// Metadata implements Container.
func (m *Memory) Metadata() map[string]any {
	return m.metadata
}

// SetMetadataEntry implements Container.
func (m *Memory) SetMetadataEntry(key string, value any) {
	m.metadata[key] = value
}

// DeleteMetadataEntry implements Container.
func (m *Memory) DeleteMetadataEntry(key string) {
	delete(m.metadata, key)
}

// EmbeddedFile implements Container.
func (m *Memory) EmbeddedFile(name string) (*EmbeddedFile, error) {
	f, ok := m.files[name]
	if !ok {
		return nil, ErrFileNotFound
	}
	return f, nil
}

// PutEmbeddedFile implements Container. Storing a file under an existing
// name replaces the previous entry.
func (m *Memory) PutEmbeddedFile(f *EmbeddedFile) error {
	if f == nil || f.Name == "" {
		return &CorruptError{Message: "embedded file must have a name"}
	}
	m.files[f.Name] = f
	return nil
}

// RemoveEmbeddedFile implements Container.
func (m *Memory) RemoveEmbeddedFile(name string) error {
	delete(m.files, name)
	return nil
}

// EmbeddedFileNames implements Container.
func (m *Memory) EmbeddedFileNames() []string {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
