package display

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/flatcar/nebraska-sub000/pkg/config"
	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// Default role colors, adaptive to light and dark terminals.
var defaultColors = map[constants.ColorRole]lipgloss.AdaptiveColor{
	constants.RoleSuccess: {Light: "#86b300", Dark: "#c2d94c"},
	constants.RoleInfo:    {Light: "#399ee6", Dark: "#59c2ff"},
	constants.RoleWarning: {Light: "#f2ae49", Dark: "#ffb454"},
	constants.RoleDanger:  {Light: "#f07171", Dark: "#f07178"},
	constants.RoleNeutral: {Light: "#828c99", Dark: "#6c7680"},
}

var (
	stylesMu   sync.RWMutex
	roleStyles = buildStyles(defaultColors)
)

// HeaderStyle renders group headings.
var HeaderStyle = lipgloss.NewStyle().Bold(true)

func buildStyles(colors map[constants.ColorRole]lipgloss.AdaptiveColor) map[constants.ColorRole]lipgloss.Style {
	styles := make(map[constants.ColorRole]lipgloss.Style, len(colors))
	for role, color := range colors {
		styles[role] = lipgloss.NewStyle().Foreground(color)
	}
	return styles
}

// ApplyPalette replaces the default role colors with the config's palette overrides.
//
// A role without an override, or an override with an empty side, keeps the
// default color for that side.
//
// Parameters:
//   - cfg: Validated configuration; nil restores the defaults
func ApplyPalette(cfg *config.Config) {
	colors := make(map[constants.ColorRole]lipgloss.AdaptiveColor, len(defaultColors))
	for role, color := range defaultColors {
		if cfg != nil {
			if p, ok := cfg.PaletteFor(role); ok {
				if p.Light != "" {
					color.Light = p.Light
				}
				if p.Dark != "" {
					color.Dark = p.Dark
				}
			}
		}
		colors[role] = color
	}

	stylesMu.Lock()
	defer stylesMu.Unlock()
	roleStyles = buildStyles(colors)
}

// RoleColor returns the adaptive color currently used for a role.
func RoleColor(role constants.ColorRole) (lipgloss.AdaptiveColor, bool) {
	stylesMu.RLock()
	defer stylesMu.RUnlock()
	style, ok := roleStyles[role]
	if !ok {
		return lipgloss.AdaptiveColor{}, false
	}
	color, ok := style.GetForeground().(lipgloss.AdaptiveColor)
	return color, ok
}

// RenderRole renders text in the color of a role. Unknown roles render plain.
func RenderRole(role constants.ColorRole, text string) string {
	stylesMu.RLock()
	style, ok := roleStyles[role]
	stylesMu.RUnlock()
	if !ok {
		return text
	}
	return style.Render(text)
}

// SetNoColor forces plain output when disabled is true and restores
// terminal detection otherwise.
func SetNoColor(disabled bool) {
	if disabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// ShouldUseColor reports whether colored output is wanted.
//
// The --no-color flag, the no_color config key and a set NO_COLOR
// environment variable (even empty) all disable color. CLICOLOR_FORCE=1
// enables it otherwise.
//
// Parameters:
//   - noColor: Combined --no-color flag and config setting
//
// Returns:
//   - bool: false when any source disables color
func ShouldUseColor(noColor bool) bool {
	if noColor {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if v := strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")); v != "" && v != "0" {
		return true
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
