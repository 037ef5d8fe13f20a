// Package report combines the breakdown, status and timeline components into
// one per-group view of a telemetry snapshot.
package report

import (
	"context"
	"encoding/xml"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flatcar/nebraska-sub000/pkg/config"
	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/snapshot"
	"github.com/flatcar/nebraska-sub000/pkg/status"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
	"github.com/flatcar/nebraska-sub000/pkg/versions"
)

// Report is the view of a whole snapshot.
type Report struct {
	XMLName     xml.Name      `json:"-" xml:"report"`
	GeneratedAt time.Time     `json:"generated_at,omitempty" xml:"generatedAt,omitempty"`
	Groups      []GroupReport `json:"groups" xml:"groups>group"`
}

// GroupReport is the view of one group.
//
// Fields:
//   - ID, Name: Group identity
//   - Channel: Channel name
//   - Reference: The channel's current version; empty when absent
//   - Breakdown: Version buckets in display order
//   - VersionColors: Color role of every reported version, including folded ones
//   - Status: Instance counts per status kind
//   - Instances: Classified instances, in snapshot order
//   - Branch: Tick layout chosen for the samples
//   - Samples: Number of timeline samples
//   - Ticks: Time axis ticks
type GroupReport struct {
	ID            string                         `json:"id" xml:"id,attr"`
	Name          string                         `json:"name" xml:"name"`
	Channel       string                         `json:"channel,omitempty" xml:"channel,omitempty"`
	Reference     string                         `json:"reference,omitempty" xml:"reference,omitempty"`
	Breakdown     []versions.Bucket              `json:"breakdown" xml:"breakdown>bucket"`
	VersionColors map[string]constants.ColorRole `json:"version_colors" xml:"-"`
	Status        []status.KindCount             `json:"status" xml:"status>kind"`
	Instances     []InstanceStatus               `json:"instances" xml:"instances>instance"`
	Branch        timeline.Branch                `json:"timeline_branch" xml:"timelineBranch"`
	Samples       int                            `json:"samples" xml:"samples"`
	Ticks         []timeline.Tick                `json:"ticks" xml:"ticks>tick"`
}

// InstanceStatus is one classified instance.
// LastCheckLabel is LastCheck rendered as a DateTime label in the configured zone.
type InstanceStatus struct {
	ID             string              `json:"id" xml:"id,attr"`
	Version        string              `json:"version" xml:"version"`
	VersionColor   constants.ColorRole `json:"version_color" xml:"versionColor"`
	LastCheck      time.Time           `json:"last_check,omitempty" xml:"lastCheck,omitempty"`
	LastCheckLabel string              `json:"last_check_label,omitempty" xml:"lastCheckLabel,omitempty"`
	status.Descriptor
}

// Options controls how groups are turned into reports.
//
// Fields:
//   - ThresholdPct: Breakdown significance threshold in percent
//   - TickCount: Desired tick count for the midnight walk
//   - Location: Zone samples are converted into before planning; nil keeps them as given
//   - Planner: Tick planner; a default planner is used when nil
//   - Workers: Maximum groups built at once; <= 0 means GOMAXPROCS
//   - OnGroupDone: Called after each group is built, from the building goroutine; may be nil
type Options struct {
	ThresholdPct float64
	TickCount    int
	Location     *time.Location
	Planner      *timeline.Planner
	Workers      int
	OnGroupDone  func(id string)
}

// DefaultOptions returns options matching the built-in configuration defaults.
func DefaultOptions() Options {
	return Options{
		ThresholdPct: versions.DefaultThresholdPct,
		TickCount:    timeline.DefaultTickCount,
		Location:     time.UTC,
	}
}

// OptionsFromConfig derives build options from a loaded configuration.
//
// Parameters:
//   - cfg: Validated configuration
//
// Returns:
//   - Options: Options with the configured threshold, tick count, zone and label layouts
//   - error: when the configured time zone cannot be loaded
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	formatter, err := cfg.Timeline.LabelFormatter()
	if err != nil {
		return Options{}, fmt.Errorf("failed to load config timezone: %w", err)
	}

	return Options{
		ThresholdPct: cfg.Breakdown.ThresholdPct,
		TickCount:    cfg.Timeline.TickCount,
		Location:     formatter.Location,
		Planner:      timeline.NewPlanner(formatter),
	}, nil
}

// Build builds the report of every group in the snapshot.
//
// Groups are built concurrently; the first failure cancels the remaining work.
// The result lists groups in snapshot order regardless of completion order.
//
// Parameters:
//   - ctx: Context for cancellation
//   - snap: Validated snapshot
//   - cfg: Validated configuration
//
// Returns:
//   - *Report: The report
//   - error: context cancellation or the first group failure, wrapped with the group id
func Build(ctx context.Context, snap *snapshot.Snapshot, cfg *config.Config) (*Report, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithOptions(ctx, snap, opts)
}

// BuildWithOptions is Build with explicit options.
func BuildWithOptions(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*Report, error) {
	groups := make([]GroupReport, len(snap.Groups))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range snap.Groups {
		i := i
		group := &snap.Groups[i]
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			gr, err := BuildGroup(group, opts)
			if err != nil {
				return fmt.Errorf("group %s: %w", group.ID, err)
			}
			groups[i] = gr
			if opts.OnGroupDone != nil {
				opts.OnGroupDone(group.ID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{GeneratedAt: snap.GeneratedAt, Groups: groups}, nil
}

// BuildGroup builds the report of a single group.
//
// It performs the following operations:
//   - Step 1: Aggregates the version shares into buckets against the channel version
//   - Step 2: Colors every reported version and classifies every instance
//   - Step 3: Counts instances per status kind
//   - Step 4: Plans ticks for the samples in the configured zone
//
// Parameters:
//   - group: The snapshot group
//   - opts: Build options
//
// Returns:
//   - GroupReport: The group's view
//   - error: *errors.ValidationError from the breakdown or planner
func BuildGroup(group *snapshot.Group, opts Options) (GroupReport, error) {
	name := group.DisplayName()
	reference := group.Channel.Version

	entries, err := group.Entries()
	if err != nil {
		return GroupReport{}, err
	}
	buckets, err := versions.Aggregate(entries, reference, opts.ThresholdPct)
	if err != nil {
		return GroupReport{}, err
	}
	verbose.Aggregated(name, len(entries), len(buckets))

	// One color per version: significant versions take their bucket color,
	// the full set only colors versions folded into Other.
	colors := versions.AssignColors(reportedVersions(group, entries), reference)
	for _, b := range buckets {
		if !b.Other {
			colors[b.Version] = b.Color
		}
	}

	planner := opts.Planner
	if planner == nil {
		planner = timeline.NewPlanner(nil)
	}

	instances := make([]InstanceStatus, 0, len(group.Instances))
	for _, inst := range group.Instances {
		color, ok := colors[inst.Version]
		if !ok {
			color = constants.RoleNeutral
		}
		var lastCheckLabel string
		if !inst.LastCheck.IsZero() {
			at := inst.LastCheck
			if opts.Location != nil {
				at = at.In(opts.Location)
			}
			lastCheckLabel = planner.Label(at, timeline.DateTime)
		}
		instances = append(instances, InstanceStatus{
			ID:             inst.ID,
			Version:        inst.Version,
			VersionColor:   color,
			LastCheck:      inst.LastCheck,
			LastCheckLabel: lastCheckLabel,
			Descriptor:     status.Classify(inst.Status, inst.Version, inst.ErrorCode),
		})
	}
	samples := group.SamplesIn(opts.Location)
	ticks, err := planner.Plan(samples, opts.TickCount)
	if err != nil {
		return GroupReport{}, err
	}
	branch := timeline.SpanBranch(samples)
	verbose.Planned(string(branch), len(samples), len(ticks))

	return GroupReport{
		ID:            group.ID,
		Name:          name,
		Channel:       group.Channel.Name,
		Reference:     reference,
		Breakdown:     buckets,
		VersionColors: colors,
		Status:        status.Summarize(group.Reports()),
		Instances:     instances,
		Branch:        branch,
		Samples:       len(samples),
		Ticks:         ticks,
	}, nil
}

// reportedVersions lists every version seen in the shares and instances, first-seen order.
func reportedVersions(group *snapshot.Group, entries []versions.Entry) []string {
	seen := make(map[string]bool, len(entries)+len(group.Instances))
	out := make([]string, 0, len(entries)+len(group.Instances))
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	for _, e := range entries {
		add(e.Version)
	}
	for _, inst := range group.Instances {
		add(inst.Version)
	}
	return out
}
