package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ellipsis is appended to truncated cell values.
const ellipsis = "…"

// DisplayWidth returns the display width of a string, accounting for unicode characters.
//
// Wide characters (CJK, most emoji such as the status icons) occupy two
// terminal cells and are counted as such.
//
// Parameters:
//   - val: The string to measure
//
// Returns:
//   - int: The display width in character cells
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads a string with spaces to a specific display width.
//
// Parameters:
//   - val: The string to pad
//   - width: The target display width; values <= 0 leave val unchanged
//
// Returns:
//   - string: The padded string, or val if already wide enough
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}

// Truncate shortens a string to at most width display cells, ending in "…" when cut.
//
// Parameters:
//   - val: The string to shorten
//   - width: Maximum display width; values <= 0 leave val unchanged
//
// Returns:
//   - string: val, or its truncated form
func Truncate(val string, width int) string {
	if width <= 0 || DisplayWidth(val) <= width {
		return val
	}
	return runewidth.Truncate(val, width, ellipsis)
}
