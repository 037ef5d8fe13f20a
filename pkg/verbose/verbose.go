// Package verbose provides debug logging with documentation references.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
)

// Enable turns on verbose logging and allows debug messages to be printed.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging and prevents debug messages from being printed.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

// emit writes one [DEBUG] line while holding the read lock, so that a concurrent
// SetWriter cannot swap the writer between the enabled check and the write.
func emit(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return
	}
	_, _ = fmt.Fprintf(writer, "[DEBUG] "+format+"\n", args...)
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	emit(format, args...)
}

// Info prints an informational verbose message if enabled.
//
// Parameters:
//   - msg: The message string to print
func Info(msg string) {
	emit("%s", msg)
}

// Infof prints a formatted informational verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Infof(format string, args ...any) {
	emit(format, args...)
}

// DocRef points at the command help that explains a topic.
//
// Fields:
//   - Topic: A human-readable name for the topic
//   - Command: The command line that prints the relevant help
//   - Hint: A brief description of what the topic covers
type DocRef struct {
	Topic   string
	Command string
	Hint    string
}

var docRefs = map[string]DocRef{
	"config": {
		Topic:   "Configuration",
		Command: "fleetview config --validate --verbose",
		Hint:    "Lists every problem in .fleetview.yml with the expected values",
	},
	"snapshot": {
		Topic:   "Telemetry Snapshots",
		Command: "fleetview report --help",
		Hint:    "Snapshots carry per-group version shares, instances and samples",
	},
	"input": {
		Topic:   "Arguments",
		Command: "fleetview help",
		Hint:    "Error codes may be decimal or 0x-prefixed; group ids come from the snapshot",
	},
	"breakdown": {
		Topic:   "Version Breakdown",
		Command: "fleetview breakdown --help",
		Hint:    "Entries below breakdown.threshold_pct are folded into Other",
	},
	"timeline": {
		Topic:   "Timeline Ticks",
		Command: "fleetview ticks --help",
		Hint:    "Hourly, weekly and monthly spans use fixed cadences; other spans anchor on midnight",
	},
}

// WithDocRef prints a verbose message with a help reference if enabled.
//
// Parameters:
//   - topic: The topic key (e.g., "config", "snapshot", "timeline"), case-insensitive
//   - message: The main message to print
func WithDocRef(topic, message string) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return
	}
	_, _ = fmt.Fprintf(writer, "[DEBUG] %s\n", message)
	if ref, ok := docRefs[strings.ToLower(topic)]; ok {
		_, _ = fmt.Fprintf(writer, "        📖 %s: %s\n", ref.Topic, ref.Command)
		_, _ = fmt.Fprintf(writer, "        💡 %s\n", ref.Hint)
	}
}

// ConfigLoaded logs the configuration file that was loaded.
//
// Parameters:
//   - path: The config file path, or empty when built-in defaults are used
func ConfigLoaded(path string) {
	if path == "" {
		emit("Config: using built-in defaults")
		return
	}
	emit("Config: loaded %s", path)
}

// SnapshotLoaded logs a successfully parsed telemetry snapshot.
//
// Parameters:
//   - path: The snapshot file path
//   - groups: Number of groups in the snapshot
func SnapshotLoaded(path string, groups int) {
	emit("Snapshot: loaded %s (%d groups)", path, groups)
}

// Aggregated logs the outcome of a version breakdown.
//
// Parameters:
//   - group: Group name the breakdown belongs to
//   - entries: Number of input entries
//   - buckets: Number of output buckets
func Aggregated(group string, entries, buckets int) {
	emit("Breakdown %q: %d entries -> %d buckets", group, entries, buckets)
}

// Planned logs the tick planning branch chosen for a series.
//
// Parameters:
//   - branch: Human-readable branch name (e.g., "hour", "week", "midnight-walk")
//   - samples: Number of samples in the series
//   - ticks: Number of ticks emitted
func Planned(branch string, samples, ticks int) {
	emit("Timeline %s: %d samples -> %d ticks", branch, samples, ticks)
}
