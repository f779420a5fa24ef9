// Package container abstracts the PDF object model the embedding protocol
// operates on. Byte-level container parsing and writing belong to an
// external PDF library; this package defines only the surface the protocol
// consumes, plus an in-memory implementation used by tests and tooling.
package container

// EmbeddedFile is one named attachment inside a container: the raw stream
// bytes plus the params map of its attachment specification object.
type EmbeddedFile struct {
	// Name is the logical file name the attachment is stored under.
	Name string `json:"name"`

	// Data is the raw stream content, stored verbatim. The protocol may
	// store already-compressed bytes here; the container never second-
	// guesses them.
	Data []byte `json:"data"`

	// Params is the attachment specification's parameter dictionary.
	Params map[string]any `json:"params,omitempty"`
}

// Container is the surface the embedding protocol needs from a PDF
// document: the catalog-level metadata dictionary and the named
// embedded-file directory.
type Container interface {
	// Metadata returns the catalog-level metadata dictionary. The returned
	// map is live; SetMetadataEntry and DeleteMetadataEntry are the write
	// path.
	Metadata() map[string]any

	// SetMetadataEntry writes one key of the catalog metadata dictionary.
	SetMetadataEntry(key string, value any)

	// DeleteMetadataEntry removes one key of the catalog metadata
	// dictionary. Removing an absent key is a no-op.
	DeleteMetadataEntry(key string)

	// EmbeddedFile looks up an attachment by logical name. Absence is
	// reported with ErrFileNotFound.
	EmbeddedFile(name string) (*EmbeddedFile, error)

	// PutEmbeddedFile stores an attachment under its logical name,
	// replacing any existing attachment with that name.
	PutEmbeddedFile(f *EmbeddedFile) error

	// RemoveEmbeddedFile deletes the attachment with the given name.
	// Removing an absent attachment is a no-op.
	RemoveEmbeddedFile(name string) error

	// EmbeddedFileNames lists attachment names in sorted order.
	EmbeddedFileNames() []string
}
