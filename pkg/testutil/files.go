package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSnapshotYAML is a small two-group snapshot used by command tests.
//
// The stable group has percentage shares, classified instances and hourly
// samples; the beta group has only instances.
const SampleSnapshotYAML = `generated_at: 2024-03-01T12:00:00Z
groups:
  - id: stable
    name: Stable
    channel:
      name: stable
      version: 3.0.0
    versions:
      - {version: 3.0.0, percentage: 60}
      - {version: 2.9.0, percentage: 25}
      - {version: 2.8.0, percentage: 10}
      - {version: 2.7.0, percentage: 5}
    instances:
      - {id: a, status: 4, version: 3.0.0}
      - {id: b, status: 3, version: 2.7.0, error_code: 1073741833}
      - {id: c, status: 8, version: 2.9.0}
    samples:
      - 2024-03-01T12:00:00Z
      - 2024-03-01T12:20:00Z
      - 2024-03-01T12:40:00Z
      - 2024-03-01T13:00:00Z
  - id: beta
    channel:
      name: beta
    instances:
      - {id: e, status: 6, version: 3.1.0}
`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the file path.
//
// Parameters:
//   - t: Testing instance; the directory is removed when the test ends
//   - name: File name, may include subdirectories
//   - content: File content
//
// Returns:
//   - string: Absolute path of the written file
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	return WriteFileIn(t, t.TempDir(), name, content)
}

// WriteFileIn writes content to name inside dir and returns the file path.
func WriteFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
