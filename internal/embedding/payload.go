package embedding

import (
	"bytes"
	"compress/zlib"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/jonathan/resume-embed/internal/types"
)

// CanonicalBytes serializes a record deterministically: encoding/json
// emits object keys in sorted order, so equal records always produce equal
// bytes. The fingerprint is computed over this form, before any
// compression.
func CanonicalBytes(rec types.Record) ([]byte, error) {
	data, err := json.Marshal(map[string]any(rec))
	if err != nil {
		return nil, &PayloadError{Message: "record is not serializable", Cause: err}
	}
	return data, nil
}

// Fingerprint returns the hex SHA-256 digest of the canonical payload
// bytes.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// compress deflates the payload.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, &PayloadError{Message: "compressing payload", Cause: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &PayloadError{Message: "compressing payload", Cause: err}
	}
	return buf.Bytes(), nil
}

// decompress inflates a stored payload.
func decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &PayloadError{Message: "payload is not valid compressed data", Cause: err}
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &PayloadError{Message: "decompressing payload", Cause: err}
	}
	return out, nil
}
