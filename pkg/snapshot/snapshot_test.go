package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/versions"
	"github.com/flatcar/nebraska-sub000/pkg/warnings"
)

const fixtureYAML = `
generated_at: 2024-03-01T12:00:00Z
groups:
  - id: stable
    name: Stable
    channel:
      name: stable
      version: 3.0.0
    versions:
      - version: 3.0.0
        percentage: 70
      - version: 2.9.0
        percentage: 25
      - version: 2.8.0
        percentage: 5
    instances:
      - id: a
        status: 4
        version: 3.0.0
      - id: b
        status: 3
        version: 2.9.0
        error_code: 1073741833
    samples:
      - 2024-03-01T11:00:00Z
      - 2024-03-01T11:30:00Z
      - 2024-03-01T12:00:00Z
  - id: beta
    channel:
      name: beta
    instances:
      - id: c
        status: 6
        version: 3.1.0
      - id: d
        status: 6
        version: 3.1.0
      - id: e
        status: 2
        version: 3.0.0
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestParse_YAML tests decoding of a complete YAML snapshot.
//
// It verifies:
//   - Groups, channels, instances and samples are decoded
//   - Optional error codes stay nil when absent
func TestParse_YAML(t *testing.T) {
	snap, err := Parse([]byte(fixtureYAML), EncodingYAML)
	require.NoError(t, err)

	require.Len(t, snap.Groups, 2)
	assert.True(t, snap.GeneratedAt.Equal(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)))

	stable := snap.Groups[0]
	assert.Equal(t, "Stable", stable.DisplayName())
	assert.Equal(t, "3.0.0", stable.Channel.Version)
	require.Len(t, stable.Instances, 2)
	assert.Nil(t, stable.Instances[0].ErrorCode)
	require.NotNil(t, stable.Instances[1].ErrorCode)
	assert.Equal(t, 1073741833, *stable.Instances[1].ErrorCode)
	assert.Len(t, stable.Samples, 3)

	beta := snap.Groups[1]
	assert.Equal(t, "beta", beta.DisplayName())
	assert.Empty(t, beta.Channel.Version)
}

// TestParse_JSON tests decoding of a JSON snapshot and rejection of unknown keys.
func TestParse_JSON(t *testing.T) {
	data := `{"groups":[{"id":"g","channel":{"version":"1.0.0"},"versions":[{"version":"1.0.0","count":3}]}]}`

	snap, err := Parse([]byte(data), EncodingJSON)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 1)
	require.NotNil(t, snap.Groups[0].Versions[0].Count)
	assert.Equal(t, 3, *snap.Groups[0].Versions[0].Count)

	_, err = Parse([]byte(`{"groups":[{"id":"g","colour":"red"}]}`), EncodingJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse snapshot JSON")
}

// TestParse_UnknownYAMLKey tests that unknown YAML keys are parse errors.
func TestParse_UnknownYAMLKey(t *testing.T) {
	_, err := Parse([]byte("groups:\n  - id: g\n    channnel: {}\n"), EncodingYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse snapshot YAML")
}

// TestValidate tests the behavior of Snapshot.Validate.
//
// It verifies:
//   - Each structural problem is reported as a snapshot validation error
//   - The field path points at the offending element
func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			name:  "no groups",
			yaml:  "groups: []\n",
			field: "groups",
		},
		{
			name:  "missing group id",
			yaml:  "groups:\n  - name: x\n",
			field: "groups[0].id",
		},
		{
			name:  "percentage above 100",
			yaml:  "groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, percentage: 120}\n",
			field: "groups[0].versions[0].percentage",
		},
		{
			name:  "negative percentage",
			yaml:  "groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, percentage: -1}\n",
			field: "groups[0].versions[0].percentage",
		},
		{
			name:  "negative count",
			yaml:  "groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, count: -2}\n",
			field: "groups[0].versions[0].count",
		},
		{
			name:  "missing version",
			yaml:  "groups:\n  - id: g\n    versions:\n      - {percentage: 10}\n",
			field: "groups[0].versions[0].version",
		},
		{
			name:  "missing instance id",
			yaml:  "groups:\n  - id: g\n    instances:\n      - {status: 4}\n",
			field: "groups[0].instances[0].id",
		},
		{
			name:  "mixed share kinds",
			yaml:  "groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, percentage: 50}\n      - {version: 0.9.0, count: 5}\n",
			field: "groups[0].versions[1]",
		},
		{
			name:  "duplicate group id",
			yaml:  "groups:\n  - id: g\n  - id: h\n  - id: g\n",
			field: "groups[2].id",
		},
		{
			name:  "decreasing samples",
			yaml:  "groups:\n  - id: g\n    samples: [2024-01-01T10:00:00Z, 2024-01-01T09:00:00Z]\n",
			field: "groups[0].samples[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), EncodingYAML)
			require.Error(t, err)

			ve, ok := errors.IsValidationError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, errors.ValidationCategorySnapshot, ve.Category)
			assert.Equal(t, tt.field, ve.Field)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid snapshot: "))
		})
	}
}

// TestValidate_ShareKind tests that a version share sets exactly one of percentage and count.
func TestValidate_ShareKind(t *testing.T) {
	for name, share := range map[string]string{
		"neither": "{version: 1.0.0}",
		"both":    "{version: 1.0.0, percentage: 10, count: 1}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte("groups:\n  - id: g\n    versions:\n      - "+share+"\n"), EncodingYAML)
			require.Error(t, err)

			ve, ok := errors.IsValidationError(err)
			require.True(t, ok)
			assert.Contains(t, ve.Field, "versions[0]")
			assert.Equal(t, "exactly one of percentage and count must be set", ve.Message)
		})
	}
}

// TestGroup_Entries tests the conversion of a group's shares into breakdown entries.
//
// It verifies:
//   - Percentages are passed through
//   - Counts are converted to percentages
//   - Without shares, instances are counted per version in first-seen order
func TestGroup_Entries(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	cnt := func(v int) *int { return &v }

	t.Run("percentages", func(t *testing.T) {
		g := Group{ID: "g", Versions: []VersionShare{
			{Version: "1.0.0", Percentage: pct(60)},
			{Version: "0.9.0", Percentage: pct(40)},
		}}
		entries, err := g.Entries()
		require.NoError(t, err)
		assert.Equal(t, []versions.Entry{{Version: "1.0.0", Percentage: 60}, {Version: "0.9.0", Percentage: 40}}, entries)
	})

	t.Run("counts", func(t *testing.T) {
		g := Group{ID: "g", Versions: []VersionShare{
			{Version: "1.0.0", Count: cnt(3)},
			{Version: "0.9.0", Count: cnt(1)},
		}}
		entries, err := g.Entries()
		require.NoError(t, err)
		assert.Equal(t, []versions.Entry{{Version: "1.0.0", Percentage: 75}, {Version: "0.9.0", Percentage: 25}}, entries)
	})

	t.Run("from instances", func(t *testing.T) {
		snap, err := Parse([]byte(fixtureYAML), EncodingYAML)
		require.NoError(t, err)

		entries, err := snap.Groups[1].Entries()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "3.1.0", entries[0].Version)
		assert.InDelta(t, 200.0/3, entries[0].Percentage, 1e-9)
		assert.Equal(t, "3.0.0", entries[1].Version)
		assert.InDelta(t, 100.0/3, entries[1].Percentage, 1e-9)
	})

	t.Run("empty group", func(t *testing.T) {
		entries, err := (&Group{ID: "g"}).Entries()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// TestGroup_Helpers tests Reports and SamplesIn.
func TestGroup_Helpers(t *testing.T) {
	snap, err := Parse([]byte(fixtureYAML), EncodingYAML)
	require.NoError(t, err)
	g := snap.Groups[0]

	reports := g.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, 4, reports[0].Code)
	assert.Equal(t, "2.9.0", reports[1].Version)
	assert.Equal(t, g.Instances[1].ErrorCode, reports[1].ErrorCode)

	berlin := time.FixedZone("CET", 60*60)
	samples := g.SamplesIn(berlin)
	require.Len(t, samples, 3)
	assert.Equal(t, 12, samples[0].Hour())
	assert.True(t, samples[0].Equal(g.Samples[0]))
	assert.Equal(t, time.UTC, g.Samples[0].Location())

	assert.Equal(t, g.Samples, g.SamplesIn(nil))
}

// TestLoad tests the behavior of Load with files on disk.
//
// It verifies:
//   - YAML and JSON files are decoded by extension
//   - Oversized files are rejected before parsing
//   - Missing files are reported
func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		snap, err := Load(writeFixture(t, "snap.yaml", fixtureYAML), 1<<20)
		require.NoError(t, err)
		assert.Len(t, snap.Groups, 2)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFixture(t, "snap.JSON", `{"groups":[{"id":"g"}]}`)
		snap, err := Load(path, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "g", snap.Groups[0].ID)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Load(writeFixture(t, "snap.yml", fixtureYAML), 16)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), 1<<20)
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("stdin", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		old := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = old }()

		_, _ = w.WriteString("groups:\n  - id: piped\n")
		require.NoError(t, w.Close())

		snap, err := Load(StdinPath, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "piped", snap.Groups[0].ID)
	})
}

// TestWarnings tests the behavior of Snapshot.Warnings.
//
// It verifies:
//   - A consistent snapshot has no warnings
//   - Shares off 100, repeated versions and failed instances without a code are reported
//   - Error codes with an unknown primary cause are reported; flag bits alone are not
//   - Load prints the warnings through the warnings package
func TestWarnings(t *testing.T) {
	clean, err := Parse([]byte("groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, percentage: 99.5}\n"), EncodingYAML)
	require.NoError(t, err)
	assert.Nil(t, clean.Warnings())

	data := `groups:
  - id: g
    versions:
      - {version: 1.0.0, percentage: 60}
      - {version: 1.0.0, percentage: 30}
    instances:
      - {id: a, status: 3}
      - {id: b, status: 3, error_code: 9}
      - {id: c, status: 3, error_code: 49}
      - {id: d, status: 3, error_code: 2147483657}
  - id: h
    versions:
      - {version: 1.0.0, count: 3}
`
	snap, err := Parse([]byte(data), EncodingYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`group "g": version shares sum to 90%`,
		`group "g": version "1.0.0" is listed more than once`,
		`group "g": instance "a" failed without an error code`,
		`group "g": instance "c" reported unknown error code 49`,
	}, snap.Warnings())

	var buf bytes.Buffer
	restore := warnings.SetWarningWriter(&buf)
	defer restore()

	_, err = Load(writeFixture(t, "warn.yml", data), 1<<20)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sum to 90%")
}

// TestEncodingForPath tests extension based encoding detection.
func TestEncodingForPath(t *testing.T) {
	assert.Equal(t, EncodingJSON, EncodingForPath("a/b.json"))
	assert.Equal(t, EncodingJSON, EncodingForPath("B.Json"))
	assert.Equal(t, EncodingYAML, EncodingForPath("snap.yml"))
	assert.Equal(t, EncodingYAML, EncodingForPath("snap.yaml"))
	assert.Equal(t, EncodingYAML, EncodingForPath(StdinPath))
}
