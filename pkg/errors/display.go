package errors

import (
	"fmt"
	"io"
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	Pattern    string
	Hint       string
	Resolution string
}

// commonErrorHints maps error patterns to actionable hints.
var commonErrorHints = []ErrorHint{
	{
		Pattern:    "failed to parse",
		Hint:       "Check file syntax",
		Resolution: "Validate the JSON/YAML syntax of the snapshot or config file",
	},
	{
		Pattern:    "failed to load config",
		Hint:       "Configuration file is invalid or not found",
		Resolution: "Run 'fleetview config' to print the effective configuration",
	},
	{
		Pattern:    "no such file or directory",
		Hint:       "File or directory not found",
		Resolution: "Verify the path exists and you have read permissions",
	},
	{
		Pattern:    "permission denied",
		Hint:       "Insufficient permissions",
		Resolution: "Check file permissions or run with appropriate privileges",
	},
	{
		Pattern:    "too large",
		Hint:       "Input exceeds the size limit",
		Resolution: "Export a smaller snapshot window or split it per group",
	},
}

// GetHint returns an actionable hint for the given error.
//
// Parameters:
//   - err: The error to get a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range commonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// PrintError prints an error with an actionable hint to the writer.
//
// Validation errors are prefixed with "Validation Error:" and, in verbose mode,
// include expected values and hints. Other errors are prefixed with "Error:"
// and get a hint appended when one of the known patterns matches.
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - err: The error to display; nil prints nothing
//   - verbose: If true, includes additional details for validation errors
func PrintError(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}

	if ve, ok := IsValidationError(err); ok {
		if verbose {
			_, _ = fmt.Fprintf(w, "Validation Error: %s\n", ve.VerboseError())
		} else {
			_, _ = fmt.Fprintf(w, "Validation Error: %s\n", ve.Error())
		}
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\n", err.Error())
	if hint := GetHint(err); hint != "" {
		_, _ = fmt.Fprintf(w, "  \U0001F4A1 %s\n", hint)
	}
}
