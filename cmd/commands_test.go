package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/testutil"
)

type breakdownJSON struct {
	Groups []struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Buckets   []struct {
			Version    string  `json:"version"`
			Percentage float64 `json:"percentage"`
			Color      string  `json:"color"`
			Other      bool    `json:"other"`
		} `json:"buckets"`
	} `json:"groups"`
}

func bucketVersions(t *testing.T, out string, group int) []string {
	t.Helper()

	var result breakdownJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Greater(t, len(result.Groups), group)

	var got []string
	for _, b := range result.Groups[group].Buckets {
		got = append(got, b.Version)
	}
	return got
}

// TestDecodeCommand tests the behavior of the decode command.
//
// It verifies:
//   - Table output shows the hex form and decoded message
//   - JSON output carries primary and flags separately
//   - Invalid codes are input validation errors
func TestDecodeCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, _, err := runCLI(t, "decode", "0x40000009")
		require.NoError(t, err)
		assert.Contains(t, out, "1073741833")
		assert.Contains(t, out, "0x40000009")
		assert.Contains(t, out, "Download transfer error (resumed download)")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := runCLI(t, "decode", "-f", "json", "--", "-2147483639")
		require.NoError(t, err)

		var result struct {
			Code    int      `json:"code"`
			Hex     string   `json:"hex"`
			Primary string   `json:"primary"`
			Flags   []string `json:"flags"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, -2147483639, result.Code)
		assert.Equal(t, "0x80000009", result.Hex)
		assert.Equal(t, "Download transfer error", result.Primary)
		assert.Len(t, result.Flags, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		_, _, err := runCLI(t, "decode", "abc")
		require.Error(t, err)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := runCLI(t, "decode")
		assert.Error(t, err)
	})
}

// TestClassifyCommand tests the behavior of the classify command.
//
// It verifies:
//   - Error statuses include the decoded error code in the explanation
//   - Unknown codes classify as Unknown
//   - A non-numeric status code is rejected
func TestClassifyCommand(t *testing.T) {
	t.Run("error with code", func(t *testing.T) {
		out, _, err := runCLI(t, "classify", "3", "3.0.0", "--error-code", "9", "-f", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Error", result["kind"])
		assert.Equal(t, "3.0.0", result["version"])
		assert.EqualValues(t, 9, result["error_code"])
		assert.Contains(t, result["explanation"], "Download transfer error")
	})

	t.Run("unknown code", func(t *testing.T) {
		out, _, err := runCLI(t, "classify", "42", "-f", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Unknown", result["kind"])
		assert.NotContains(t, result, "error_code")
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := runCLI(t, "classify", "8")
		require.NoError(t, err)
		assert.Contains(t, out, "STATUS")
		assert.Contains(t, out, "On hold")
	})

	t.Run("invalid status", func(t *testing.T) {
		_, _, err := runCLI(t, "classify", "complete")
		ve, ok := errors.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "status-code", ve.Field)
	})

	t.Run("invalid error code", func(t *testing.T) {
		_, _, err := runCLI(t, "classify", "3", "--error-code", "x")
		ve, ok := errors.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "error-code", ve.Field)
	})
}

// TestBreakdownCommand tests the behavior of the breakdown command.
//
// It verifies:
//   - The channel version comes first and Other last
//   - --threshold overrides the configured threshold
//   - --group selects groups and rejects unknown ids
//   - A config file changes the default threshold
func TestBreakdownCommand(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)

	t.Run("default threshold", func(t *testing.T) {
		out, _, err := runCLI(t, "breakdown", path, "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"3.0.0", "2.8.0", "2.9.0", "Other"}, bucketVersions(t, out, 0))
	})

	t.Run("threshold flag", func(t *testing.T) {
		out, _, err := runCLI(t, "breakdown", path, "-f", "json", "--threshold", "30")
		require.NoError(t, err)
		assert.Equal(t, []string{"3.0.0", "Other"}, bucketVersions(t, out, 0))
	})

	t.Run("group filter", func(t *testing.T) {
		out, _, err := runCLI(t, "breakdown", path, "-f", "json", "--group", "beta")
		require.NoError(t, err)

		var result breakdownJSON
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Groups, 1)
		assert.Equal(t, "beta", result.Groups[0].ID)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, _, err := runCLI(t, "breakdown", path, "--group", "nightly")
		require.Error(t, err)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	})

	t.Run("config threshold", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFileIn(t, dir, ".fleetview.yml", "breakdown:\n  threshold_pct: 30\n")

		out, _, err := runCLIIn(t, dir, "breakdown", path, "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"3.0.0", "Other"}, bucketVersions(t, out, 0))
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := runCLI(t, "breakdown", path)
		require.NoError(t, err)
		assert.Contains(t, out, "GROUP")
		assert.Contains(t, out, "3.0.0 *")
		assert.Contains(t, out, "Other")
	})

	t.Run("csv", func(t *testing.T) {
		out, _, err := runCLI(t, "breakdown", path, "-f", "csv", "-g", "stable")
		require.NoError(t, err)

		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, []string{"GROUP", "VERSION", "PERCENTAGE", "COLOR", "SORT_KEY", "OTHER"}, records[0])
		assert.Equal(t, "3.0.0", records[1][1])
		assert.Equal(t, "Other", records[4][1])
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCLI(t, "breakdown", path+".missing")
		require.Error(t, err)
		assert.Equal(t, errors.ExitFailure, errors.GetExitCode(err))
	})
}

// TestBreakdownCommand_Stdin tests reading the snapshot from stdin.
func TestBreakdownCommand_Stdin(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	oldStdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = oldStdin }()

	out, _, err := runCLI(t, "breakdown", "-", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"3.0.0", "2.8.0", "2.9.0", "Other"}, bucketVersions(t, out, 0))
}

// TestBreakdownCommand_SnapshotWarnings tests that snapshot warnings reach stderr.
func TestBreakdownCommand_SnapshotWarnings(t *testing.T) {
	path := testutil.WriteFile(t, "short.yml", "groups:\n  - id: g\n    versions:\n      - {version: 1.0.0, percentage: 80}\n")

	out, errOut, err := runCLI(t, "breakdown", path, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, `group "g": version shares sum to 80%`)
	assert.Equal(t, []string{"1.0.0"}, bucketVersions(t, out, 0))
}

// TestStatusCommand tests the behavior of the status command.
//
// It verifies:
//   - Instances are classified with decoded error codes
//   - Kind counts are reported per group
func TestStatusCommand(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)

	t.Run("json", func(t *testing.T) {
		out, _, err := runCLI(t, "status", path, "-f", "json", "-g", "stable")
		require.NoError(t, err)

		var result struct {
			Groups []struct {
				Kinds []struct {
					Kind  string `json:"kind"`
					Count int    `json:"count"`
				} `json:"kinds"`
				Instances []struct {
					ID          string `json:"id"`
					Kind        string `json:"kind"`
					Explanation string `json:"explanation"`
				} `json:"instances"`
			} `json:"groups"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Groups, 1)

		instances := result.Groups[0].Instances
		require.Len(t, instances, 3)
		byID := map[string]string{}
		for _, inst := range instances {
			byID[inst.ID] = inst.Kind
			if inst.ID == "b" {
				assert.Contains(t, inst.Explanation, "Download transfer error")
			}
		}
		assert.Equal(t, map[string]string{"a": "Complete", "b": "Error", "c": "OnHold"}, byID)

		total := 0
		for _, k := range result.Groups[0].Kinds {
			total += k.Count
		}
		assert.Equal(t, 3, total)
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := runCLI(t, "status", path)
		require.NoError(t, err)
		assert.Contains(t, out, "INSTANCE")
		assert.Contains(t, out, "On hold")
	})
}

// TestTicksCommand tests the behavior of the ticks command.
//
// It verifies:
//   - A one hour span gets the hour branch and four ticks
//   - Groups without samples get the empty branch
func TestTicksCommand(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)

	out, _, err := runCLI(t, "ticks", path, "-f", "json")
	require.NoError(t, err)

	var result struct {
		Groups []struct {
			ID      string `json:"id"`
			Branch  string `json:"branch"`
			Samples int    `json:"samples"`
			Ticks   []struct {
				Granularity string `json:"granularity"`
				Label       string `json:"label"`
			} `json:"ticks"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Groups, 2)

	stable := result.Groups[0]
	assert.Equal(t, "hour", stable.Branch)
	assert.Equal(t, 4, stable.Samples)
	require.Len(t, stable.Ticks, 4)
	for _, tick := range stable.Ticks {
		assert.Equal(t, "time", tick.Granularity)
	}
	assert.Equal(t, "12:00", stable.Ticks[0].Label)

	beta := result.Groups[1]
	assert.Equal(t, "empty", beta.Branch)
	assert.Empty(t, beta.Ticks)
}

// TestTicksCommand_TickCountOverride tests the --ticks override bounds.
//
// It verifies:
//   - A count above timeline.MaxTickCount is an input error (exit 3)
//   - A negative count is rejected the same way
//   - The cap itself is accepted
func TestTicksCommand_TickCountOverride(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)

	for _, ticks := range []string{"101", "-2"} {
		_, _, err := runCLI(t, "ticks", path, "--ticks", ticks)
		require.Error(t, err, ticks)
		ve, ok := errors.IsValidationError(err)
		require.True(t, ok, ticks)
		assert.Equal(t, "ticks", ve.Field)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	}

	_, _, err := runCLI(t, "ticks", path, "--ticks", "100", "-f", "json")
	require.NoError(t, err)
}

// TestReportCommand tests the behavior of the report command.
//
// It verifies:
//   - Table output contains every section and the summary
//   - --progress writes a counter to stderr for table output only
//   - CSV is rejected
func TestReportCommand(t *testing.T) {
	path := testutil.WriteFile(t, "snapshot.yml", testutil.SampleSnapshotYAML)

	t.Run("table", func(t *testing.T) {
		out, errOut, err := runCLI(t, "report", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Stable (stable 3.0.0)")
		assert.Contains(t, out, "Summary: 2 groups, 4 instances, 1 failed, 1 on hold")
		assert.Empty(t, errOut)
	})

	t.Run("progress", func(t *testing.T) {
		_, errOut, err := runCLI(t, "report", path, "--progress")
		require.NoError(t, err)
		assert.Contains(t, errOut, "Building report: 2/2 (100%)")
	})

	t.Run("progress ignored for json", func(t *testing.T) {
		out, errOut, err := runCLI(t, "report", path, "--progress", "-f", "json")
		require.NoError(t, err)
		assert.Empty(t, errOut)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Len(t, result["groups"], 2)
	})

	t.Run("csv rejected", func(t *testing.T) {
		_, _, err := runCLI(t, "report", path, "-f", "csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "csv")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := runCLI(t, "report", path, "-f", "yaml")
		require.Error(t, err)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		bad := testutil.WriteFile(t, "bad.yml", "groups:\n  - id: x\n    versions:\n      - {version: 1.0.0, percentage: 120}\n")
		_, _, err := runCLI(t, "report", bad)
		require.Error(t, err)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	})

	t.Run("malformed snapshot", func(t *testing.T) {
		bad := testutil.WriteFile(t, "bad.yml", "groups:\n  - id: x\n    extra: 1\n")
		_, _, err := runCLI(t, "report", bad)
		require.Error(t, err)
		assert.Equal(t, errors.ExitFailure, errors.GetExitCode(err))
	})
}
