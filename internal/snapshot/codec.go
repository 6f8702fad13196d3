package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath selects the format from the file extension: .yaml and .yml
// select YAML, anything else JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes snap to w.
func Encode(w io.Writer, snap *fscache.Snapshot, format Format) error {
	if snap == nil {
		return fmt.Errorf("cannot encode a nil snapshot")
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot as yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot as json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// Marshal encodes snap into a byte slice.
func Marshal(snap *fscache.Snapshot, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a snapshot from r. Unknown fields are rejected, and numbers in
// attribute values come back as int64 when whole and float64 otherwise.
// Malformed input yields a *fscache.SerializationFormatError.
func Decode(r io.Reader, format Format) (*fscache.Snapshot, error) {
	snap := fscache.NewSnapshot()

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(snap); err != nil && err != io.EOF {
			return nil, &fscache.SerializationFormatError{Reason: "decode yaml", Err: err}
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(snap); err != nil {
			return nil, &fscache.SerializationFormatError{Reason: "decode json", Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	if snap.Files == nil {
		snap.Files = make(map[string]fscache.FileRecord)
	}
	if snap.Dirs == nil {
		snap.Dirs = make(map[string]fscache.DirRecord)
	}
	for path, rec := range snap.Files {
		for name, value := range rec.Attributes {
			rec.Attributes[name] = normalize(value)
		}
		snap.Files[path] = rec
	}
	return snap, nil
}

// Unmarshal decodes a snapshot from data.
func Unmarshal(data []byte, format Format) (*fscache.Snapshot, error) {
	return Decode(bytes.NewReader(data), format)
}

// normalize maps decoder-specific number types onto int64 and float64.
func normalize(v fscache.Value) fscache.Value {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return int64(n)
	case uint64:
		if i, ok := fscache.Int64(n); ok {
			return i
		}
		return n
	case map[string]interface{}:
		for k, item := range n {
			n[k] = normalize(item)
		}
		return n
	case []interface{}:
		for i, item := range n {
			n[i] = normalize(item)
		}
		return n
	}
	return v
}
