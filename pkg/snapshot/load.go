package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flatcar/nebraska-sub000/pkg/verbose"
	"github.com/flatcar/nebraska-sub000/pkg/warnings"
)

// Encoding is the serialization of a snapshot file.
type Encoding string

const (
	// EncodingYAML is used for .yml, .yaml and anything unrecognized.
	EncodingYAML Encoding = "yaml"
	// EncodingJSON is used for .json files.
	EncodingJSON Encoding = "json"
)

// StdinPath makes Load read the snapshot from standard input.
const StdinPath = "-"

// EncodingForPath picks the encoding from a file extension.
//
// Parameters:
//   - path: Snapshot file path
//
// Returns:
//   - Encoding: EncodingJSON for ".json", EncodingYAML otherwise
func EncodingForPath(path string) Encoding {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return EncodingJSON
	}
	return EncodingYAML
}

// Load reads, decodes and validates a snapshot file.
//
// It performs the following operations:
//   - Step 1: Rejects files larger than maxSize before reading them
//   - Step 2: Decodes JSON or YAML depending on the extension, rejecting unknown keys
//   - Step 3: Validates the decoded snapshot
//   - Step 4: Prints non-fatal warnings through the warnings package
//
// Parameters:
//   - path: Snapshot file path, or StdinPath
//   - maxSize: Maximum accepted size in bytes
//
// Returns:
//   - *Snapshot: The validated snapshot
//   - error: read, size, parse or *errors.ValidationError failures
func Load(path string, maxSize int64) (*Snapshot, error) {
	var (
		data []byte
		err  error
	)

	if path == StdinPath {
		data, err = readLimited(os.Stdin, maxSize)
	} else {
		data, err = readFile(path, maxSize)
	}
	if err != nil {
		return nil, err
	}

	snap, err := Parse(data, EncodingForPath(path))
	if err != nil {
		return nil, err
	}

	verbose.SnapshotLoaded(path, len(snap.Groups))
	warnings.Print(snap.Warnings())
	return snap, nil
}

func readFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("snapshot file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}
	return os.ReadFile(path)
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("snapshot input too large: more than %d bytes", maxSize)
	}
	return data, nil
}

// Parse decodes and validates snapshot data.
//
// Parameters:
//   - data: Encoded snapshot
//   - encoding: How data is encoded
//
// Returns:
//   - *Snapshot: The validated snapshot
//   - error: parse failure or *errors.ValidationError
func Parse(data []byte, encoding Encoding) (*Snapshot, error) {
	var snap Snapshot

	switch encoding {
	case EncodingJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&snap); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse snapshot YAML: %w", err)
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}
