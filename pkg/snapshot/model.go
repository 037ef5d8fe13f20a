// Package snapshot defines the telemetry snapshot fleetview reads and
// converts its groups into the inputs of the breakdown, status and timeline
// components.
//
// A snapshot is an export of one point in time: per group the channel it
// follows, its version shares, its instances and the timestamps of its
// time series samples.
package snapshot

import (
	"time"

	"github.com/flatcar/nebraska-sub000/pkg/status"
	"github.com/flatcar/nebraska-sub000/pkg/versions"
)

// Snapshot is a telemetry export covering one or more groups.
//
// Fields:
//   - GeneratedAt: When the export was taken; informational
//   - Groups: The exported groups, in display order
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	Groups      []Group   `json:"groups" yaml:"groups" validate:"required,min=1,dive"`
}

// Group is one update group of the fleet.
//
// Fields:
//   - ID: Stable identifier of the group
//   - Name: Display name; defaults to ID
//   - Channel: The channel the group follows
//   - Versions: Version shares; derived from Instances when empty
//   - Instances: Instance reports
//   - Samples: Timestamps of the group's time series, ascending
type Group struct {
	ID        string         `json:"id" yaml:"id" validate:"required"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Channel   Channel        `json:"channel" yaml:"channel"`
	Versions  []VersionShare `json:"versions,omitempty" yaml:"versions,omitempty" validate:"dive"`
	Instances []Instance     `json:"instances,omitempty" yaml:"instances,omitempty" validate:"dive"`
	Samples   []time.Time    `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Channel is the release channel a group follows.
//
// Fields:
//   - Name: Channel name
//   - Version: The channel's current version; empty when the channel has no package
type Channel struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// VersionShare is the share of a group's instances on one version.
// Exactly one of Percentage and Count is set, and all shares of a group use the same one.
type VersionShare struct {
	Version    string   `json:"version" yaml:"version" validate:"required"`
	Percentage *float64 `json:"percentage,omitempty" yaml:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Count      *int     `json:"count,omitempty" yaml:"count,omitempty" validate:"omitempty,gte=0"`
}

// Instance is the latest report of one instance.
//
// Fields:
//   - ID: Instance identifier
//   - Status: Raw status code; codes outside 1..8 classify as unknown
//   - ErrorCode: Update engine error code, present only for failed updates
//   - Version: Version the instance reports
//   - LastCheck: Time of the last update check
type Instance struct {
	ID        string    `json:"id" yaml:"id" validate:"required"`
	Status    int       `json:"status" yaml:"status"`
	ErrorCode *int      `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	LastCheck time.Time `json:"last_check,omitempty" yaml:"last_check,omitempty"`
}

// DisplayName returns Name, or ID when no name is set.
func (g *Group) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// Entries returns the group's version shares as breakdown entries.
//
// It performs the following operations:
//   - Step 1: Uses Versions as percentages when they carry percentages
//   - Step 2: Converts counts to percentages when they carry counts
//   - Step 3: Without Versions, counts Instances per version in first-seen order
//
// Returns:
//   - []versions.Entry: One entry per version share
//   - error: *errors.ValidationError for negative counts
func (g *Group) Entries() ([]versions.Entry, error) {
	if len(g.Versions) == 0 {
		return versions.EntriesFromCounts(g.instanceCounts())
	}

	if g.Versions[0].Count != nil {
		counts := make([]versions.Count, 0, len(g.Versions))
		for _, v := range g.Versions {
			counts = append(counts, versions.Count{Version: v.Version, Instances: derefInt(v.Count)})
		}
		return versions.EntriesFromCounts(counts)
	}

	entries := make([]versions.Entry, 0, len(g.Versions))
	for _, v := range g.Versions {
		entries = append(entries, versions.Entry{Version: v.Version, Percentage: derefFloat(v.Percentage)})
	}
	return entries, nil
}

func (g *Group) instanceCounts() []versions.Count {
	index := make(map[string]int)
	counts := make([]versions.Count, 0)
	for _, inst := range g.Instances {
		i, ok := index[inst.Version]
		if !ok {
			i = len(counts)
			index[inst.Version] = i
			counts = append(counts, versions.Count{Version: inst.Version})
		}
		counts[i].Instances++
	}
	return counts
}

// Reports returns the group's instances as status reports.
func (g *Group) Reports() []status.Report {
	reports := make([]status.Report, 0, len(g.Instances))
	for _, inst := range g.Instances {
		reports = append(reports, inst.Report())
	}
	return reports
}

// Report converts the instance into a status report.
func (i Instance) Report() status.Report {
	return status.Report{Code: i.Status, Version: i.Version, ErrorCode: i.ErrorCode}
}

// SamplesIn returns the sample timestamps converted into loc.
//
// Parameters:
//   - loc: Target zone; nil leaves the timestamps unchanged
//
// Returns:
//   - []time.Time: A new slice, same order
func (g *Group) SamplesIn(loc *time.Location) []time.Time {
	out := make([]time.Time, len(g.Samples))
	for i, s := range g.Samples {
		if loc != nil {
			s = s.In(loc)
		}
		out[i] = s
	}
	return out
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
