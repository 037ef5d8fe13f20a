package versions

import (
	"fmt"
	"math"
	"sort"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
)

// DefaultThresholdPct is the share below which a version is folded into "Other".
const DefaultThresholdPct = 10.0

// Entry is the share of instances running one version.
//
// Fields:
//   - Version: The reported version string
//   - Percentage: Share of the group's instances, 0..100
type Entry struct {
	Version    string  `json:"version" yaml:"version"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Count is the number of instances running one version.
//
// Fields:
//   - Version: The reported version string
//   - Instances: Number of instances on that version
type Count struct {
	Version   string `json:"version" yaml:"version"`
	Instances int    `json:"instances" yaml:"instances"`
}

// Bucket is one slice of a version breakdown, ready for charting.
//
// Fields:
//   - Version: The version, or "Other" for the synthetic bucket
//   - Percentage: Share of instances in this bucket
//   - Color: Color role relative to the channel's version
//   - SortKey: Position of the bucket in the display order, starting at 0
//   - Other: true only for the synthetic bucket of minor versions
type Bucket struct {
	Version    string              `json:"version" xml:"version"`
	Percentage float64             `json:"percentage" xml:"percentage"`
	Color      constants.ColorRole `json:"color" xml:"color"`
	SortKey    int                 `json:"sort_key" xml:"sortKey"`
	Other      bool                `json:"other,omitempty" xml:"other,omitempty"`
}

// Aggregate folds per-version shares into display buckets.
//
// It performs the following operations:
//   - Step 1: Splits entries into significant (>= threshold) and minor ones
//   - Step 2: Sums the minor shares into a synthetic "Other" bucket, omitted when the sum is 0
//   - Step 3: Colors the significant versions and "Other" with AssignColors
//   - Step 4: Orders buckets: the reference version first, "Other" last, the rest
//     by ascending percentage with ties kept in input order
//
// Percentages are taken as given; the only arithmetic is the sum of the minor
// shares, so outputs sum to whatever the inputs sum to.
//
// Parameters:
//   - entries: Per-version shares, already aggregated upstream
//   - reference: The channel's current version; empty when absent
//   - thresholdPct: Significance threshold in percent
//
// Returns:
//   - []Bucket: Ordered buckets; empty (non-nil) for empty input
//   - error: *errors.ValidationError when the threshold or an entry's percentage
//     is negative or NaN; nil otherwise
func Aggregate(entries []Entry, reference string, thresholdPct float64) ([]Bucket, error) {
	if math.IsNaN(thresholdPct) || thresholdPct < 0 {
		return nil, errors.NewInputValidationError(
			"significanceThresholdPct",
			fmt.Sprintf("must be a non-negative percentage, got %v", thresholdPct),
			"a percentage >= 0",
		)
	}

	buckets := make([]Bucket, 0, len(entries)+1)
	significant := make([]string, 0, len(entries))
	otherPct := 0.0

	for i, e := range entries {
		if math.IsNaN(e.Percentage) || e.Percentage < 0 {
			return nil, errors.NewInputValidationError(
				fmt.Sprintf("entries[%d].percentage", i),
				fmt.Sprintf("must be a non-negative percentage, got %v", e.Percentage),
				"a percentage >= 0",
			)
		}

		if e.Percentage >= thresholdPct {
			buckets = append(buckets, Bucket{Version: e.Version, Percentage: e.Percentage})
			significant = append(significant, e.Version)
			continue
		}
		otherPct += e.Percentage
	}

	if otherPct > 0 {
		buckets = append(buckets, Bucket{Version: constants.OtherVersion, Percentage: otherPct, Other: true})
		significant = append(significant, constants.OtherVersion)
	}

	roles := AssignColors(significant, reference)
	for i := range buckets {
		if buckets[i].Other {
			buckets[i].Color = constants.RoleNeutral
			continue
		}
		buckets[i].Color = roles[buckets[i].Version]
	}

	sortBuckets(buckets, reference)
	for i := range buckets {
		buckets[i].SortKey = i
	}

	return buckets, nil
}

// AggregateDefault calls Aggregate with DefaultThresholdPct.
//
// Parameters:
//   - entries: Per-version shares
//   - reference: The channel's current version; empty when absent
//
// Returns:
//   - []Bucket: Ordered buckets
//   - error: *errors.ValidationError when an entry's percentage is invalid
func AggregateDefault(entries []Entry, reference string) ([]Bucket, error) {
	return Aggregate(entries, reference, DefaultThresholdPct)
}

// sortBuckets orders buckets in place; the first matching rule wins:
// the reference bucket first, the "Other" bucket last, then ascending percentage.
// Buckets are identified by the Other flag and by version equality, never by
// placeholder strings, so a real version literally named "Other" sorts normally.
func sortBuckets(buckets []Bucket, reference string) {
	group := func(b Bucket) int {
		switch {
		case b.Other:
			return 2
		case reference != "" && sameVersion(b.Version, reference):
			return 0
		default:
			return 1
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		gi, gj := group(buckets[i]), group(buckets[j])
		if gi != gj {
			return gi < gj
		}
		if gi == 1 {
			return buckets[i].Percentage < buckets[j].Percentage
		}
		return false
	})
}

// EntriesFromCounts converts instance counts per version into percentage entries.
//
// Parameters:
//   - counts: Instances per version, in display input order
//
// Returns:
//   - []Entry: One entry per count with its share of the total; empty when the total is 0
//   - error: *errors.ValidationError when a count is negative
func EntriesFromCounts(counts []Count) ([]Entry, error) {
	total := 0
	for i, c := range counts {
		if c.Instances < 0 {
			return nil, errors.NewInputValidationError(
				fmt.Sprintf("counts[%d].instances", i),
				fmt.Sprintf("must not be negative, got %d", c.Instances),
				"an instance count >= 0",
			)
		}
		total += c.Instances
	}

	entries := make([]Entry, 0, len(counts))
	if total == 0 {
		return entries, nil
	}

	for _, c := range counts {
		entries = append(entries, Entry{
			Version:    c.Version,
			Percentage: float64(c.Instances) * 100 / float64(total),
		})
	}

	return entries, nil
}
