// Package timeline plans the time axis ticks of evenly indexed sample series.
//
// A series is addressed by sample index 0..N-1, not by time, so every tick is
// placed at a (possibly fractional) index. The planner decides where ticks go
// and at which granularity they are labeled; rendering the label text is left to
// a LabelFormatter.
package timeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
)

const (
	// DefaultTickCount is the number of steps a span is divided into when walking from midnight.
	DefaultTickCount = 4
	// MaxTickCount bounds desiredTickCount; the midnight walk emits about that many ticks.
	MaxTickCount = 100

	// hourTickCount is the fixed number of ticks on a one hour span.
	hourTickCount = 4

	// sampleStride is the sample distance between ticks on weekly and monthly spans.
	sampleStride = 2

	hourSpan  = time.Hour
	weekSpan  = 7 * 24 * time.Hour
	monthSpan = 30 * 24 * time.Hour
)

// Branch names the tick layout chosen for a series.
type Branch string

const (
	// BranchEmpty is used for series without samples.
	BranchEmpty Branch = "empty"
	// BranchHour is used for a span of exactly one hour.
	BranchHour Branch = "hour"
	// BranchWeek is used for a span of exactly seven days.
	BranchWeek Branch = "week"
	// BranchMonth is used for a span of exactly thirty days.
	BranchMonth Branch = "month"
	// BranchMidnight is used for every other span, including a single sample.
	BranchMidnight Branch = "midnight"
)

// Tick is one labeled point on the time axis.
//
// Fields:
//   - Index: Position in the series, within [0, N-1]; fractional between samples
//   - Time: The instant the tick stands for
//   - Granularity: What the label shows
//   - Label: Text produced by the planner's LabelFormatter
type Tick struct {
	Index       float64     `json:"index" xml:"index"`
	Time        time.Time   `json:"time" xml:"time"`
	Granularity Granularity `json:"granularity" xml:"granularity"`
	Label       string      `json:"label" xml:"label"`
}

// Planner computes ticks and labels them with its Formatter.
//
// Fields:
//   - Formatter: Label renderer; DefaultFormatter is used when nil
type Planner struct {
	Formatter LabelFormatter
}

// NewPlanner creates a planner using the given formatter.
//
// Parameters:
//   - formatter: Label renderer; nil selects DefaultFormatter
//
// Returns:
//   - *Planner: A planner ready for concurrent use
func NewPlanner(formatter LabelFormatter) *Planner {
	if formatter == nil {
		formatter = DefaultFormatter()
	}
	return &Planner{Formatter: formatter}
}

// Plan computes ticks with the default formatter. See Planner.Plan.
func Plan(samples []time.Time, desiredTickCount int) ([]Tick, error) {
	return NewPlanner(nil).Plan(samples, desiredTickCount)
}

// SpanBranch reports which tick layout Plan uses for the given samples.
//
// Parameters:
//   - samples: Sample timestamps in ascending order
//
// Returns:
//   - Branch: The layout branch
func SpanBranch(samples []time.Time) Branch {
	if len(samples) == 0 {
		return BranchEmpty
	}

	switch samples[len(samples)-1].Sub(samples[0]) {
	case hourSpan:
		return BranchHour
	case weekSpan:
		return BranchWeek
	case monthSpan:
		return BranchMonth
	default:
		return BranchMidnight
	}
}

// Plan computes axis ticks for a series from its sample timestamps.
//
// The layout depends on the span between the first and last sample:
//   - exactly one hour: four evenly spaced ticks, time labels
//   - exactly 7 or 30 days: a tick every second sample, date labels
//   - anything else: a date-labeled tick at the first midnight at or after the
//     first sample, then time-labeled ticks every span/desiredTickCount in both
//     directions for as long as they stay within the series
//
// Ticks are keyed by index, so two ticks landing on the same index collapse into
// the later one. Every index lies in [0, N-1] and at least one tick is returned
// for a non-empty series.
//
// Parameters:
//   - samples: Sample timestamps, non-decreasing; the position is the sample index
//   - desiredTickCount: Number of steps the span is divided into on the midnight walk
//
// Returns:
//   - []Tick: Ticks ordered by index; empty (non-nil) for no samples
//   - error: *errors.ValidationError when desiredTickCount is outside [1, MaxTickCount]
//     or samples decrease
func (p *Planner) Plan(samples []time.Time, desiredTickCount int) ([]Tick, error) {
	if desiredTickCount <= 0 || desiredTickCount > MaxTickCount {
		return nil, errors.NewInputValidationError(
			"desiredTickCount",
			fmt.Sprintf("must be between 1 and %d, got %d", MaxTickCount, desiredTickCount),
			fmt.Sprintf("an integer in [1, %d]", MaxTickCount),
		)
	}

	for i := 1; i < len(samples); i++ {
		if samples[i].Before(samples[i-1]) {
			return nil, errors.NewInputValidationError(
				fmt.Sprintf("sampleTimestamps[%d]", i),
				"must not precede the previous sample",
				"timestamps in ascending order",
			)
		}
	}

	s := series(samples)
	ticks := newTickSet(p.formatter())

	switch SpanBranch(samples) {
	case BranchEmpty:
		return []Tick{}, nil
	case BranchHour:
		last := float64(len(s) - 1)
		for i := 0; i < hourTickCount; i++ {
			idx := last * float64(i) / float64(hourTickCount-1)
			ticks.add(idx, s.timeAt(idx), TimeOnly)
		}
	case BranchWeek, BranchMonth:
		for i := 0; i < len(s); i += sampleStride {
			ticks.add(float64(i), s[i], DateOnly)
		}
	default:
		s.walkFromMidnight(ticks, desiredTickCount)
	}

	return ticks.sorted(), nil
}

// Label renders t at granularity g with the planner's formatter.
func (p *Planner) Label(t time.Time, g Granularity) string {
	return p.formatter().FormatLabel(t, g)
}

func (p *Planner) formatter() LabelFormatter {
	if p == nil || p.Formatter == nil {
		return DefaultFormatter()
	}
	return p.Formatter
}

// series is a non-empty, non-decreasing slice of sample timestamps.
type series []time.Time

// walkFromMidnight emits the midnight anchor and the outward time-labeled steps.
func (s series) walkFromMidnight(ticks *tickSet, desiredTickCount int) {
	first, last := s[0], s[len(s)-1]

	anchor := firstMidnight(first)
	anchorIdx := 0.0
	if anchor.After(last) {
		// no midnight inside the series: anchor the date label on the first sample
		anchor = first
	} else {
		anchorIdx = s.indexAt(anchor)
	}
	ticks.add(anchorIdx, anchor, DateOnly)

	step := last.Sub(first) / time.Duration(desiredTickCount)
	if step <= 0 {
		return
	}

	for at := anchor.Add(step); !at.After(last); at = at.Add(step) {
		ticks.add(s.indexAt(at), at, TimeOnly)
	}
	for at := anchor.Add(-step); !at.Before(first); at = at.Add(-step) {
		ticks.add(s.indexAt(at), at, TimeOnly)
	}
}

// firstMidnight returns the first midnight at or after t, in t's location.
func firstMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if midnight.Before(t) {
		midnight = time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	}
	return midnight
}

// indexAt maps an instant within [first, last] to a fractional sample index by
// linear interpolation between the neighboring samples.
func (s series) indexAt(at time.Time) float64 {
	j := sort.Search(len(s), func(i int) bool { return !s[i].Before(at) })
	switch {
	case j >= len(s):
		return float64(len(s) - 1)
	case j == 0 || s[j].Equal(at):
		return float64(j)
	}

	lo := j - 1
	gap := s[j].Sub(s[lo])
	return float64(lo) + float64(at.Sub(s[lo]))/float64(gap)
}

// timeAt maps a fractional sample index back to an instant.
func (s series) timeAt(idx float64) time.Time {
	lo := int(math.Floor(idx))
	if lo >= len(s)-1 {
		return s[len(s)-1]
	}
	if lo < 0 {
		return s[0]
	}

	frac := idx - float64(lo)
	return s[lo].Add(time.Duration(frac * float64(s[lo+1].Sub(s[lo]))))
}

// tickSet collects ticks keyed by index so that colliding ticks overwrite each other.
type tickSet struct {
	formatter LabelFormatter
	byIndex   map[float64]Tick
}

func newTickSet(formatter LabelFormatter) *tickSet {
	return &tickSet{formatter: formatter, byIndex: make(map[float64]Tick)}
}

// indexKeyPrecision absorbs floating point noise when keying ticks by index.
const indexKeyPrecision = 1e9

func (ts *tickSet) add(idx float64, at time.Time, g Granularity) {
	key := math.Round(idx*indexKeyPrecision) / indexKeyPrecision
	ts.byIndex[key] = Tick{
		Index:       key,
		Time:        at,
		Granularity: g,
		Label:       ts.formatter.FormatLabel(at, g),
	}
}

func (ts *tickSet) sorted() []Tick {
	out := make([]Tick, 0, len(ts.byIndex))
	for _, t := range ts.byIndex {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
