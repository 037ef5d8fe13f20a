package testutil

import (
	"time"

	"github.com/flatcar/nebraska-sub000/pkg/snapshot"
)

// SnapshotBuilder provides a fluent API for building test snapshots.
type SnapshotBuilder struct {
	snap snapshot.Snapshot
}

// NewSnapshot creates an empty SnapshotBuilder.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{}
}

// WithGeneratedAt sets the export time.
func (b *SnapshotBuilder) WithGeneratedAt(at time.Time) *SnapshotBuilder {
	b.snap.GeneratedAt = at
	return b
}

// WithGroup appends a group.
func (b *SnapshotBuilder) WithGroup(g *GroupBuilder) *SnapshotBuilder {
	b.snap.Groups = append(b.snap.Groups, g.Build())
	return b
}

// Build returns the snapshot. It is not validated.
func (b *SnapshotBuilder) Build() *snapshot.Snapshot {
	snap := b.snap
	return &snap
}

// GroupBuilder provides a fluent API for building snapshot groups.
type GroupBuilder struct {
	group snapshot.Group
}

// NewGroup creates a GroupBuilder for the given group id.
func NewGroup(id string) *GroupBuilder {
	return &GroupBuilder{group: snapshot.Group{ID: id}}
}

// WithName sets the display name.
func (b *GroupBuilder) WithName(name string) *GroupBuilder {
	b.group.Name = name
	return b
}

// WithChannel sets the channel name and its current version.
func (b *GroupBuilder) WithChannel(name, version string) *GroupBuilder {
	b.group.Channel = snapshot.Channel{Name: name, Version: version}
	return b
}

// WithPercentage appends a percentage version share.
func (b *GroupBuilder) WithPercentage(version string, pct float64) *GroupBuilder {
	b.group.Versions = append(b.group.Versions, snapshot.VersionShare{Version: version, Percentage: &pct})
	return b
}

// WithCount appends a counted version share.
func (b *GroupBuilder) WithCount(version string, count int) *GroupBuilder {
	b.group.Versions = append(b.group.Versions, snapshot.VersionShare{Version: version, Count: &count})
	return b
}

// WithInstance appends an instance report.
//
// Parameters:
//   - id: Instance id
//   - status: Raw status code
//   - version: Reported version
//   - errorCode: Packed error code; nil when not reported
func (b *GroupBuilder) WithInstance(id string, status int, version string, errorCode *int) *GroupBuilder {
	b.group.Instances = append(b.group.Instances, snapshot.Instance{
		ID:        id,
		Status:    status,
		Version:   version,
		ErrorCode: errorCode,
	})
	return b
}

// WithSamples appends n samples starting at start, step apart.
func (b *GroupBuilder) WithSamples(start time.Time, step time.Duration, n int) *GroupBuilder {
	for i := 0; i < n; i++ {
		b.group.Samples = append(b.group.Samples, start.Add(time.Duration(i)*step))
	}
	return b
}

// Build returns the group.
func (b *GroupBuilder) Build() snapshot.Group {
	return b.group
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
