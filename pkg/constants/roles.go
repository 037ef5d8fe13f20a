// Package constants provides centralized constants shared by the fleetview packages.
// This eliminates magic strings and provides a single source of truth for color roles,
// placeholder values and icons.
package constants

// ColorRole is the semantic color assigned to a status or version bucket.
// Renderers map roles to concrete colors; the core never deals in hex values.
type ColorRole string

// Color roles understood by every renderer.
const (
	// RoleSuccess marks a healthy or current state (an instance on the channel version).
	RoleSuccess ColorRole = "success"

	// RoleInfo marks an informational state (newer than the channel, update in flight).
	RoleInfo ColorRole = "info"

	// RoleWarning marks a state one step behind or waiting on policy.
	RoleWarning ColorRole = "warning"

	// RoleDanger marks a failed state or a version more than one step behind.
	RoleDanger ColorRole = "danger"

	// RoleNeutral marks unknown, unversioned or aggregated data.
	RoleNeutral ColorRole = "neutral"
)

// AllRoles returns every color role in display order.
//
// Returns:
//   - []ColorRole: success, info, warning, danger, neutral
func AllRoles() []ColorRole {
	return []ColorRole{RoleSuccess, RoleInfo, RoleWarning, RoleDanger, RoleNeutral}
}

// IsValid reports whether r is one of the known color roles.
//
// Returns:
//   - bool: true for the five defined roles, false otherwise
func (r ColorRole) IsValid() bool {
	switch r {
	case RoleSuccess, RoleInfo, RoleWarning, RoleDanger, RoleNeutral:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r ColorRole) String() string {
	return string(r)
}

// Placeholder values for display when data is not available.
const (
	// OtherVersion is the display name of the synthetic bucket that absorbs minor versions.
	OtherVersion = "Other"

	// PlaceholderNA is used when a value is not available.
	PlaceholderNA = "#N/A"
)

// Icon constants for color role display.
// These provide visual indicators next to role-colored text in CLI output.
const (
	// IconSuccess indicates a successful or current state (green circle).
	IconSuccess = "🟢"

	// IconInfo indicates an informational state (blue circle).
	IconInfo = "🔵"

	// IconWarning indicates a warning or caution state (orange circle).
	IconWarning = "🟠"

	// IconDanger indicates a failed state (red X).
	IconDanger = "❌"

	// IconNeutral indicates an unknown or aggregated state (white circle).
	IconNeutral = "⚪"

	// IconLightbulb indicates a hint or suggestion.
	IconLightbulb = "💡"
)

// IconForRole returns the icon associated with a color role.
//
// Parameters:
//   - r: The color role
//
// Returns:
//   - string: The role's icon; IconNeutral for unknown roles
func IconForRole(r ColorRole) string {
	switch r {
	case RoleSuccess:
		return IconSuccess
	case RoleInfo:
		return IconInfo
	case RoleWarning:
		return IconWarning
	case RoleDanger:
		return IconDanger
	default:
		return IconNeutral
	}
}
