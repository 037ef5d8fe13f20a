package display

import (
	"fmt"
	"io"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/report"
	"github.com/flatcar/nebraska-sub000/pkg/status"
)

// PrintWarnings prints warning messages to the writer.
//
// Formats each warning on its own line with a warning icon prefix.
// Does nothing if warnings slice is empty.
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - warnings: Slice of warning messages
//
// Example output:
//
//	🟠 threshold_pct is 0; every version gets its own bucket
func PrintWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", RenderRole(constants.RoleWarning, constants.IconWarning), warning)
	}
}

// PrintNoGroupsMessage prints a "no groups" message.
//
// Parameters:
//   - w: Writer to output to
//   - context: What was being looked for (optional)
func PrintNoGroupsMessage(w io.Writer, context string) {
	if context != "" {
		_, _ = fmt.Fprintf(w, "No groups found %s\n", context)
		return
	}
	_, _ = fmt.Fprintln(w, "No groups found")
}

// Summary holds fleet totals across a report.
//
// Fields:
//   - Groups: Number of groups
//   - Instances: Number of instances
//   - Errors: Instances whose status kind is Error
//   - OnHold: Instances whose status kind is OnHold
type Summary struct {
	Groups    int
	Instances int
	Errors    int
	OnHold    int
}

// Summarize totals a report.
func Summarize(rep *report.Report) Summary {
	s := Summary{Groups: len(rep.Groups)}
	for _, g := range rep.Groups {
		s.Instances += len(g.Instances)
		for _, kc := range g.Status {
			switch kc.Kind {
			case status.KindError:
				s.Errors += kc.Count
			case status.KindOnHold:
				s.OnHold += kc.Count
			}
		}
	}
	return s
}

// PrintSummary prints fleet totals.
//
// Example output:
//
//	Summary: 2 groups, 5 instances, 1 failed, 1 on hold
func PrintSummary(w io.Writer, summary Summary) {
	_, _ = fmt.Fprintf(w, "Summary: %d groups, %d instances", summary.Groups, summary.Instances)
	if summary.Errors > 0 {
		_, _ = fmt.Fprintf(w, ", %s", RenderRole(constants.RoleDanger, fmt.Sprintf("%d failed", summary.Errors)))
	}
	if summary.OnHold > 0 {
		_, _ = fmt.Fprintf(w, ", %d on hold", summary.OnHold)
	}
	_, _ = fmt.Fprintln(w)
}

// PrintHint prints a suggestion line prefixed with a lightbulb.
func PrintHint(w io.Writer, hint string) {
	if hint == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", constants.IconLightbulb, hint)
}
