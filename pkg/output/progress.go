package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Progress is a single-line progress indicator for building group reports.
//
// Fields:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Number of groups to build
//   - current: Number of groups finished
//   - message: Text shown before the counter
//   - last: Id of the most recently finished group
//   - mu: Protects the fields above and serializes writes
//   - enabled: Whether progress output is enabled
//   - lastWidth: Display width of the last rendered line, for clearing
type Progress struct {
	writer    io.Writer
	total     int
	current   int
	message   string
	last      string
	mu        sync.Mutex
	enabled   bool
	lastWidth int
}

// NewProgress creates an enabled progress indicator.
//
// Parameters:
//   - writer: Destination for progress output
//   - total: Number of steps; a total of 0 renders nothing
//   - message: Text shown before the counter, e.g. "Building report"
//
// Returns:
//   - *Progress: The indicator
func NewProgress(writer io.Writer, total int, message string) *Progress {
	return &Progress{
		writer:  writer,
		total:   total,
		message: message,
		enabled: true,
	}
}

// SetEnabled enables or disables progress output.
//
// Structured output formats disable it so stderr carries only diagnostics.
func (p *Progress) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Step records one finished group and re-renders the line.
//
// It is safe for concurrent use and matches the signature of
// report.Options.OnGroupDone.
//
// Parameters:
//   - name: Id of the finished group, shown after the counter
func (p *Progress) Step(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.last = name
	p.renderLocked()
}

// Increment advances the progress by one step without naming it.
func (p *Progress) Increment() {
	p.Step("")
}

// Current returns the number of finished steps.
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Done marks the progress complete and ends the line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.last = ""
	if p.enabled && p.total > 0 {
		p.renderLocked()
		_, _ = fmt.Fprintln(p.writer)
		p.lastWidth = 0
	}
}

// Clear blanks the progress line and returns the cursor to its start.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && p.lastWidth > 0 {
		_, _ = fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lastWidth))
		p.lastWidth = 0
	}
}

// renderLocked writes the current line. The caller holds mu.
//
// The line is padded to the previous width so a shorter line fully
// overwrites a longer one.
func (p *Progress) renderLocked() {
	if !p.enabled || p.total <= 0 {
		return
	}

	percentage := float64(p.current) / float64(p.total) * 100
	line := fmt.Sprintf("%s: %d/%d (%.0f%%)", p.message, p.current, p.total, percentage)
	if p.last != "" {
		line += " " + p.last
	}

	width := DisplayWidth(line)
	if width < p.lastWidth {
		line += strings.Repeat(" ", p.lastWidth-width)
	} else {
		p.lastWidth = width
	}

	_, _ = fmt.Fprint(p.writer, "\r"+line)

	// CI log collectors buffer stderr otherwise
	if f, ok := p.writer.(*os.File); ok {
		_ = f.Sync()
	}
}
