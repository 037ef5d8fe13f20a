package versions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
)

// TestCanonicalSemver tests the behavior of canonicalSemver.
//
// It verifies:
//   - Adds "v" prefix and pads missing components
//   - Keeps prerelease identifiers
//   - Rejects placeholders and non-semver strings
func TestCanonicalSemver(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3033.2.0", "v3033.2.0"},
		{"v1.2.3", "v1.2.3"},
		{"1.2", "v1.2.0"},
		{"1", "v1.0.0"},
		{" 2.0.0 ", "v2.0.0"},
		{"2.0.0-rc.1", "v2.0.0-rc.1"},
		{"", ""},
		{"#N/A", ""},
		{"Other", ""},
		{"1.2.3.4", ""},
		{"latest", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, canonicalSemver(tt.input))
			assert.Equal(t, tt.expected != "", IsSemver(tt.input))
		})
	}
}

// TestCompare tests the behavior of Compare.
func TestCompare(t *testing.T) {
	cmp, ok := Compare("1.10.0", "1.9.0")
	assert.True(t, ok)
	assert.Positive(t, cmp)

	cmp, ok = Compare("2.0", "v2.0.0")
	assert.True(t, ok)
	assert.Zero(t, cmp)

	cmp, ok = Compare("2.0.0-rc.1", "2.0.0")
	assert.True(t, ok)
	assert.Negative(t, cmp)

	_, ok = Compare("abc", "1.0.0")
	assert.False(t, ok)
}

// TestAssignColors tests the rules of AssignColors.
func TestAssignColors(t *testing.T) {
	tests := []struct {
		name      string
		versions  []string
		reference string
		expected  map[string]constants.ColorRole
	}{
		{
			name:      "one step behind is warning",
			versions:  []string{"1.0.0", "2.0.0", "3.0.0"},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"2.0.0": constants.RoleSuccess,
				"3.0.0": constants.RoleInfo,
				"1.0.0": constants.RoleWarning,
			},
		},
		{
			name:      "two steps behind is danger",
			versions:  []string{"1.0.0", "1.5.0", "2.0.0"},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"2.0.0": constants.RoleSuccess,
				"1.5.0": constants.RoleWarning,
				"1.0.0": constants.RoleDanger,
			},
		},
		{
			name:      "reference absent means neutral",
			versions:  []string{"1.0.0", "2.0.0"},
			reference: "",
			expected: map[string]constants.ColorRole{
				"1.0.0": constants.RoleNeutral,
				"2.0.0": constants.RoleNeutral,
			},
		},
		{
			name:      "reference not in set still anchors distance",
			versions:  []string{"1.0.0", "1.5.0", "3.0.0"},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"3.0.0": constants.RoleInfo,
				"1.5.0": constants.RoleWarning,
				"1.0.0": constants.RoleDanger,
			},
		},
		{
			name:      "non-semver is neutral",
			versions:  []string{"nightly", "2.0.0", "1.0.0"},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"nightly": constants.RoleNeutral,
				"2.0.0":   constants.RoleSuccess,
				"1.0.0":   constants.RoleWarning,
			},
		},
		{
			name:      "non-semver reference means neutral",
			versions:  []string{"1.0.0", "2.0.0"},
			reference: "stable-latest",
			expected: map[string]constants.ColorRole{
				"1.0.0": constants.RoleNeutral,
				"2.0.0": constants.RoleNeutral,
			},
		},
		{
			name:      "other is always neutral",
			versions:  []string{"2.0.0", constants.OtherVersion},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"2.0.0":                constants.RoleSuccess,
				constants.OtherVersion: constants.RoleNeutral,
			},
		},
		{
			name:      "equivalent spellings share a rank",
			versions:  []string{"v2.0.0", "1.9", "1.9.0", "1.8.0"},
			reference: "2.0.0",
			expected: map[string]constants.ColorRole{
				"v2.0.0": constants.RoleSuccess,
				"1.9":    constants.RoleWarning,
				"1.9.0":  constants.RoleWarning,
				"1.8.0":  constants.RoleDanger,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AssignColors(tt.versions, tt.reference))
		})
	}

	assert.Empty(t, AssignColors(nil, "1.0.0"))
}

// TestAggregateEmpty tests that aggregate([]) == [].
func TestAggregateEmpty(t *testing.T) {
	buckets, err := Aggregate(nil, "1.0.0", DefaultThresholdPct)
	require.NoError(t, err)
	require.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

// TestAggregateFoldsMinorVersions tests the threshold partition and "Other" bucket.
//
// It verifies:
//   - A 5% entry under a 10% threshold becomes "Other"
//   - "Other" sorts last and percentages sum to 100
func TestAggregateFoldsMinorVersions(t *testing.T) {
	entries := []Entry{{Version: "1.0.0", Percentage: 5}, {Version: "2.0.0", Percentage: 95}}

	buckets, err := Aggregate(entries, "", 10)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2.0.0", buckets[0].Version)
	assert.Equal(t, 95.0, buckets[0].Percentage)
	assert.False(t, buckets[0].Other)
	assert.Equal(t, constants.OtherVersion, buckets[1].Version)
	assert.Equal(t, 5.0, buckets[1].Percentage)
	assert.True(t, buckets[1].Other)
	assert.Equal(t, constants.RoleNeutral, buckets[1].Color)

	assert.InDelta(t, 100.0, sumPercentages(buckets), 1e-6)
}

// TestAggregateReferenceFirst tests that the reference bucket sorts first.
//
// This guards against the legacy ordering, which keyed its tie-breaks off
// placeholder strings and silently fell back to percentage-only ordering.
func TestAggregateReferenceFirst(t *testing.T) {
	entries := []Entry{
		{Version: "1.0.0", Percentage: 15},
		{Version: "2.0.0", Percentage: 50},
		{Version: "3.0.0", Percentage: 30},
		{Version: "0.9.0", Percentage: 5},
	}

	buckets, err := Aggregate(entries, "2.0.0", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"2.0.0", "1.0.0", "3.0.0", constants.OtherVersion}, bucketVersions(buckets))
	assert.Equal(t, constants.RoleSuccess, buckets[0].Color)
	assert.Equal(t, constants.RoleWarning, buckets[1].Color)
	assert.Equal(t, constants.RoleInfo, buckets[2].Color)
	for i, b := range buckets {
		assert.Equal(t, i, b.SortKey)
	}

	// a differently spelled but equal reference still matches
	buckets, err = Aggregate(entries, "v2.0", 10)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", buckets[0].Version)
}

// TestAggregateOtherAlwaysLast tests that "Other" sorts last regardless of its percentage.
func TestAggregateOtherAlwaysLast(t *testing.T) {
	entries := []Entry{
		{Version: "1.0.0", Percentage: 9},
		{Version: "1.1.0", Percentage: 9},
		{Version: "1.2.0", Percentage: 9},
		{Version: "2.0.0", Percentage: 12},
		{Version: "3.0.0", Percentage: 11},
	}

	buckets, err := Aggregate(entries, "", 10)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"3.0.0", "2.0.0", constants.OtherVersion}, bucketVersions(buckets))
	assert.InDelta(t, 27.0, buckets[2].Percentage, 1e-9)
}

// TestAggregateAllMinor tests that all-minor input yields a single "Other" bucket at 100%.
func TestAggregateAllMinor(t *testing.T) {
	entries := make([]Entry, 0, 20)
	versions := []string{"1.0.0", "1.1.0", "1.2.0", "1.3.0", "1.4.0"}
	for i := 0; i < 20; i++ {
		entries = append(entries, Entry{Version: versions[i%len(versions)] + "-" + string(rune('a'+i)), Percentage: 5})
	}

	buckets, err := Aggregate(entries, "1.0.0", 10)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.True(t, buckets[0].Other)
	assert.InDelta(t, 100.0, buckets[0].Percentage, 1e-6)
}

// TestAggregateTiesKeepInputOrder tests the stable tie-break and a missing reference.
func TestAggregateTiesKeepInputOrder(t *testing.T) {
	entries := []Entry{
		{Version: "b", Percentage: 25},
		{Version: "a", Percentage: 25},
		{Version: "c", Percentage: 50},
	}

	buckets, err := Aggregate(entries, "9.9.9", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, bucketVersions(buckets))
}

// TestAggregateOtherOmittedWhenZero tests that a zero minor sum emits no "Other" bucket.
func TestAggregateOtherOmittedWhenZero(t *testing.T) {
	entries := []Entry{{Version: "1.0.0", Percentage: 0}, {Version: "2.0.0", Percentage: 100}}

	buckets, err := Aggregate(entries, "2.0.0", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.0"}, bucketVersions(buckets))
}

// TestAggregateRealVersionNamedOther tests that only the synthetic bucket is pinned last.
func TestAggregateRealVersionNamedOther(t *testing.T) {
	entries := []Entry{{Version: "Other", Percentage: 20}, {Version: "2.0.0", Percentage: 75}, {Version: "1.0.0", Percentage: 5}}

	buckets, err := Aggregate(entries, "", 10)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.False(t, buckets[0].Other)
	assert.Equal(t, "Other", buckets[0].Version)
	assert.True(t, buckets[2].Other)
}

// TestAggregateDeterministic tests that identical input yields identical ordered output.
func TestAggregateDeterministic(t *testing.T) {
	entries := []Entry{
		{Version: "3.0.0", Percentage: 20},
		{Version: "2.0.0", Percentage: 20},
		{Version: "1.0.0", Percentage: 20},
		{Version: "0.5.0", Percentage: 3},
		{Version: "nightly", Percentage: 37},
	}

	first, err := AggregateDefault(entries, "2.0.0")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := AggregateDefault(entries, "2.0.0")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestAggregatePreconditions tests fail-fast handling of invalid arguments.
func TestAggregatePreconditions(t *testing.T) {
	_, err := Aggregate(nil, "", -1)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ValidationCategoryInput, ve.Category)
	assert.Equal(t, "significanceThresholdPct", ve.Field)

	_, err = Aggregate(nil, "", math.NaN())
	assert.Error(t, err)

	_, err = Aggregate([]Entry{{Version: "1.0.0", Percentage: -3}}, "", 10)
	ve, ok = errors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "entries[0].percentage", ve.Field)

	buckets, err := Aggregate([]Entry{{Version: "1.0.0", Percentage: 1}}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, bucketVersions(buckets))
}

// TestEntriesFromCounts tests the behavior of EntriesFromCounts.
func TestEntriesFromCounts(t *testing.T) {
	entries, err := EntriesFromCounts([]Count{{Version: "1.0.0", Instances: 1}, {Version: "2.0.0", Instances: 3}})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.InDelta(t, 25.0, entries[0].Percentage, 1e-9)
	assert.InDelta(t, 75.0, entries[1].Percentage, 1e-9)

	entries, err = EntriesFromCounts([]Count{{Version: "1.0.0", Instances: 0}})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = EntriesFromCounts([]Count{{Version: "1.0.0", Instances: -1}})
	assert.Error(t, err)
}

func bucketVersions(buckets []Bucket) []string {
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Version)
	}
	return out
}

func sumPercentages(buckets []Bucket) float64 {
	sum := 0.0
	for _, b := range buckets {
		sum += b.Percentage
	}
	return sum
}
