package display

import (
	"strconv"
	"strings"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/output"
)

// SafeValue returns a display-safe value.
//
// If the value is empty or whitespace-only, returns "#N/A" for consistent display.
// Otherwise returns the trimmed value.
//
// Parameters:
//   - val: The value, may be empty
//
// Returns:
//   - string: The trimmed value or "#N/A"
//
// Example:
//
//	display.SafeValue("")      // Returns "#N/A"
//	display.SafeValue("3.0.0") // Returns "3.0.0"
func SafeValue(val string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return constants.PlaceholderNA
	}
	return val
}

// FormatPercent renders a percentage for tables, e.g. "12.5%".
func FormatPercent(pct float64) string {
	return output.FormatPercent(pct) + "%"
}

// FormatErrorCode renders an optional error code, or "#N/A" when absent.
func FormatErrorCode(code *int) string {
	if code == nil {
		return constants.PlaceholderNA
	}
	return strconv.Itoa(*code)
}

// FormatRole returns the role prefixed with its icon, e.g. "🟢 success".
func FormatRole(role constants.ColorRole) string {
	return constants.IconForRole(role) + " " + string(role)
}

// VersionCell returns a table cell for a version in its color role.
//
// Empty versions render as "#N/A" in the neutral role.
func VersionCell(version string, role constants.ColorRole) output.Cell {
	if strings.TrimSpace(version) == "" {
		return output.Styled(constants.PlaceholderNA, constants.RoleNeutral)
	}
	return output.Styled(version, role)
}
