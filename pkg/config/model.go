package config

import (
	"time"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
)

const (
	// ConfigFileName is the file looked up in the working directory when no --config is given.
	ConfigFileName = ".fleetview.yml"

	// DefaultMaxConfigFileSize is the default limit for config files (1 MiB).
	DefaultMaxConfigFileSize int64 = 1 << 20

	// DefaultMaxSnapshotFileSize is the default limit for snapshot files (32 MiB).
	DefaultMaxSnapshotFileSize int64 = 32 << 20
)

// Config is the root configuration structure.
type Config struct {
	Breakdown BreakdownCfg            `yaml:"breakdown"`
	Timeline  TimelineCfg             `yaml:"timeline"`
	Output    OutputCfg               `yaml:"output"`
	Palette   map[string]PaletteColor `yaml:"palette,omitempty"`
	Limits    *LimitsCfg              `yaml:"limits,omitempty"`

	// SourcePath is the file the config was read from; empty for built-in defaults.
	SourcePath string `yaml:"-"`

	// WorkingDir is the directory relative snapshot paths are resolved against.
	WorkingDir string `yaml:"-"`
}

// BreakdownCfg configures version breakdown aggregation.
type BreakdownCfg struct {
	// ThresholdPct is the share, in percent, below which versions are folded into "Other".
	ThresholdPct float64 `yaml:"threshold_pct"`
}

// TimelineCfg configures time axis ticks.
type TimelineCfg struct {
	// TickCount is the number of steps a span is divided into around midnight.
	TickCount int `yaml:"tick_count"`

	// Timezone is an IANA zone name; sample timestamps are converted into it
	// before ticks are planned, so midnight means midnight in this zone.
	Timezone string `yaml:"timezone"`

	DateLayout     string `yaml:"date_layout,omitempty"`
	TimeLayout     string `yaml:"time_layout,omitempty"`
	DateTimeLayout string `yaml:"datetime_layout,omitempty"`
}

// OutputCfg configures how results are written.
type OutputCfg struct {
	// Format is one of table, json, csv, xml.
	Format string `yaml:"format"`

	// NoColor disables role colors in table output.
	NoColor bool `yaml:"no_color,omitempty"`
}

// PaletteColor overrides the terminal colors of one color role.
// Values are "#rgb"/"#rrggbb" hex or ANSI color numbers, as accepted by lipgloss.
type PaletteColor struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// LimitsCfg holds input size limits.
type LimitsCfg struct {
	// MaxSnapshotFileSize overrides DefaultMaxSnapshotFileSize (bytes). 0 keeps the default.
	MaxSnapshotFileSize int64 `yaml:"max_snapshot_file_size,omitempty"`
}

// GetMaxSnapshotFileSize returns the configured snapshot size limit or the default.
//
// Returns:
//   - int64: maximum allowed snapshot file size in bytes
func (c *Config) GetMaxSnapshotFileSize() int64 {
	if c.Limits != nil && c.Limits.MaxSnapshotFileSize > 0 {
		return c.Limits.MaxSnapshotFileSize
	}
	return DefaultMaxSnapshotFileSize
}

// Location resolves the configured time zone.
//
// Returns:
//   - *time.Location: the zone; UTC when Timezone is empty
//   - error: when the zone name is unknown
func (t TimelineCfg) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(t.Timezone)
}

// LabelFormatter builds the tick label formatter for this configuration.
//
// Empty layouts fall back to timeline.DefaultFormatter's.
//
// Returns:
//   - timeline.LayoutFormatter: formatter rendering labels in the configured zone
//   - error: when the zone name is unknown
func (t TimelineCfg) LabelFormatter() (timeline.LayoutFormatter, error) {
	loc, err := t.Location()
	if err != nil {
		return timeline.LayoutFormatter{}, err
	}

	f := timeline.DefaultFormatter()
	f.Location = loc
	if t.DateLayout != "" {
		f.DateLayout = t.DateLayout
	}
	if t.TimeLayout != "" {
		f.TimeLayout = t.TimeLayout
	}
	if t.DateTimeLayout != "" {
		f.DateTimeLayout = t.DateTimeLayout
	}
	return f, nil
}

// PaletteFor returns the palette override of a role, if any.
//
// Parameters:
//   - role: the color role
//
// Returns:
//   - PaletteColor: the override
//   - bool: true when the config overrides this role
func (c *Config) PaletteFor(role constants.ColorRole) (PaletteColor, bool) {
	if c.Palette == nil {
		return PaletteColor{}, false
	}
	p, ok := c.Palette[string(role)]
	return p, ok
}
