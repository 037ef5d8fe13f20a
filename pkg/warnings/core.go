// Package warnings routes non-fatal notices about inputs to a shared writer.
//
// Commands point the writer at their stderr so notices about a snapshot
// (shares that do not add up, failed instances without an error code) show
// up next to the output without failing the run.
package warnings

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

var (
	mu         sync.RWMutex
	warnWriter io.Writer = os.Stderr
)

// Warnf writes a formatted warning to the configured writer.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Values for format
func Warnf(format string, args ...any) {
	mu.RLock()
	w := warnWriter
	mu.RUnlock()
	_, _ = fmt.Fprintf(w, format, args...)
}

// Print writes each message on its own line, prefixed with the warning icon.
//
// Parameters:
//   - messages: Warnings to print; nothing is written for an empty slice
func Print(messages []string) {
	for _, msg := range messages {
		Warnf("%s %s\n", constants.IconWarning, msg)
	}
}

// WarningWriter returns the currently configured warning writer.
func WarningWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return warnWriter
}

// SetWarningWriter swaps the warning writer and returns a restore function.
//
// Parameters:
//   - w: The new writer; nil selects os.Stderr
//
// Returns:
//   - func(): Restores the previous writer
func SetWarningWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := warnWriter
	if w == nil {
		warnWriter = os.Stderr
	} else {
		warnWriter = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		warnWriter = previous
	}
}
