package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
)

// ValidFormats lists the accepted output.format values.
var ValidFormats = []string{"table", "json", "csv", "xml"}

// configSchema lists the valid keys per config type, for unknown-key hints.
var configSchema = map[string][]string{
	"Config":       {"breakdown", "timeline", "output", "palette", "limits"},
	"BreakdownCfg": {"threshold_pct"},
	"TimelineCfg":  {"tick_count", "timezone", "date_layout", "time_layout", "datetime_layout"},
	"OutputCfg":    {"format", "no_color"},
	"PaletteColor": {"light", "dark"},
	"LimitsCfg":    {"max_snapshot_file_size"},
}

// commonTypos maps common typos to correct field names.
var commonTypos = map[string]map[string]string{
	"Config": {
		"colors":  "palette",
		"colours": "palette",
		"limit":   "limits",
	},
	"BreakdownCfg": {
		"threshold":    "threshold_pct",
		"thresholdPct": "threshold_pct",
	},
	"TimelineCfg": {
		"ticks":     "tick_count",
		"tickCount": "tick_count",
		"tz":        "timezone",
		"time_zone": "timezone",
	},
	"OutputCfg": {
		"noColor": "no_color",
	},
}

var (
	hexColorPattern   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	yamlLinePattern   = regexp.MustCompile(`line (\d+):`)
	unknownKeyPattern = regexp.MustCompile(`field (\S+) not found in type config\.(\w+)`)
)

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []*errors.ValidationError
	Warnings []string
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err folds the result into a single error.
//
// Returns:
//   - error: nil without errors, the only error when there is one, otherwise a
//     config *errors.ValidationError listing every message
func (r *ValidationResult) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	}

	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return &errors.ValidationError{
		Category: errors.ValidationCategoryConfig,
		Message:  fmt.Sprintf("%d problems: %s", len(r.Errors), strings.Join(msgs, "; ")),
	}
}

func (r *ValidationResult) add(field, format string, args ...any) *errors.ValidationError {
	verr := errors.NewConfigValidationError(field, fmt.Sprintf(format, args...))
	r.Errors = append(r.Errors, verr)
	return verr
}

// Validate validates a loaded Config struct.
//
// It checks value ranges, the time zone, the output format and palette entries.
//
// Returns:
//   - *ValidationResult: validation result with any errors and warnings found
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	pct := c.Breakdown.ThresholdPct
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		verr := result.add("breakdown.threshold_pct", "must be between 0 and 100, got %v", pct)
		verr.Expected = "a percentage in [0, 100]"
	}

	if c.Timeline.TickCount < 1 || c.Timeline.TickCount > timeline.MaxTickCount {
		verr := result.add("timeline.tick_count", "must be between 1 and %d, got %d", timeline.MaxTickCount, c.Timeline.TickCount)
		verr.Expected = fmt.Sprintf("an integer in [1, %d]", timeline.MaxTickCount)
	}

	if _, err := c.Timeline.Location(); err != nil {
		verr := result.add("timeline.timezone", "unknown time zone %q", c.Timeline.Timezone)
		verr.Expected = "an IANA zone name such as UTC or Europe/Berlin"
	}

	if !isValidFormat(c.Output.Format) {
		verr := result.add("output.format", "unsupported format %q", c.Output.Format)
		verr.ValidKeys = ValidFormats
	}

	for role, color := range c.Palette {
		field := "palette." + role
		if !constants.ColorRole(role).IsValid() {
			verr := result.add(field, "unknown color role %q", role)
			verr.ValidKeys = roleNames()
			continue
		}
		if !isValidColor(color.Light) {
			result.add(field+".light", "invalid color %q", color.Light).Expected = "#rgb, #rrggbb or an ANSI color number"
		}
		if !isValidColor(color.Dark) {
			result.add(field+".dark", "invalid color %q", color.Dark).Expected = "#rgb, #rrggbb or an ANSI color number"
		}
	}

	if c.Limits != nil && c.Limits.MaxSnapshotFileSize < 0 {
		result.add("limits.max_snapshot_file_size", "must not be negative, got %d", c.Limits.MaxSnapshotFileSize)
	}

	if c.Breakdown.ThresholdPct == 0 {
		result.Warnings = append(result.Warnings, "breakdown.threshold_pct is 0: no version is folded into Other")
	}

	if len(result.Errors) == 0 {
		verbose.Printf("Config validation PASSED: no errors found\n")
	} else {
		verbose.Printf("Config validation FAILED: %d errors found\n", len(result.Errors))
	}

	return result
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if strings.EqualFold(format, f) {
			return true
		}
	}
	return false
}

// isValidColor accepts what lipgloss.Color accepts: hex colors and ANSI numbers 0-255.
func isValidColor(color string) bool {
	if hexColorPattern.MatchString(color) {
		return true
	}
	n, err := strconv.Atoi(color)
	return err == nil && n >= 0 && n <= 255
}

func roleNames() []string {
	roles := constants.AllRoles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// decodeError converts a YAML decode error into a config ValidationError with hints.
//
// Parameters:
//   - err: error returned by yaml.Decoder.Decode
//
// Returns:
//   - *errors.ValidationError: error naming the offending key where possible
func decodeError(err error) *errors.ValidationError {
	errMsg := err.Error()

	if m := unknownKeyPattern.FindStringSubmatch(errMsg); m != nil {
		field, typeName := m[1], m[2]

		verr := errors.NewConfigValidationError(field, "unknown field")
		if line := extractLineNumber(errMsg); line > 0 {
			verr.Message = fmt.Sprintf("unknown field (line %d)", line)
		}
		if suggestion := suggestSimilarField(field, typeName); suggestion != "" {
			verr.Hint = fmt.Sprintf("did you mean '%s'?", suggestion)
		}
		verr.ValidKeys = configSchema[typeName]
		return verr
	}

	if strings.Contains(errMsg, "cannot unmarshal") {
		verr := errors.NewConfigValidationError("", errMsg)
		verr.Expected = extractExpectedType(errMsg)
		return verr
	}

	return errors.NewConfigValidationError("", fmt.Sprintf("YAML syntax error: %s", errMsg))
}

// extractLineNumber extracts the line number from a YAML error message, or 0.
func extractLineNumber(errMsg string) int {
	matches := yamlLinePattern.FindStringSubmatch(errMsg)
	if len(matches) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(matches[1])
	return n
}

// extractExpectedType extracts Y from "cannot unmarshal X into Y" messages.
func extractExpectedType(errMsg string) string {
	idx := strings.Index(errMsg, "into ")
	if idx < 0 {
		return ""
	}
	typePart := errMsg[idx+len("into "):]
	if end := strings.IndexAny(typePart, " \n"); end > 0 {
		return typePart[:end]
	}
	return typePart
}

// suggestSimilarField returns a suggested field name if the input looks like a typo.
//
// This checks common typos and kebab-case spellings of snake_case keys.
//
// Parameters:
//   - field: the unknown field name
//   - typeName: the type name where the field was found
//
// Returns:
//   - string: suggested correct field name, or empty string if no suggestion
func suggestSimilarField(field, typeName string) string {
	if typos, ok := commonTypos[typeName]; ok {
		if suggestion, found := typos[field]; found {
			return suggestion
		}
	}

	snakeCase := strings.ReplaceAll(field, "-", "_")
	for _, known := range configSchema[typeName] {
		if known == snakeCase {
			return known
		}
	}

	return ""
}
