package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/output"
	"github.com/flatcar/nebraska-sub000/pkg/report"
	"github.com/flatcar/nebraska-sub000/pkg/status"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
)

// explanationWidth caps the EXPLANATION column in instance tables.
const explanationWidth = 72

// newTable returns a table that colors cells with the active palette.
func newTable() *output.Table {
	return output.NewTable().WithStyler(RenderRole)
}

// groupIDs returns the ids of the groups, one per group.
func groupIDs[T any](groups []T, id func(T) string) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = id(g)
	}
	return ids
}

// RenderDecode prints a decoded error code.
//
// Example output:
//
//	CODE        HEX         MESSAGE
//	----------  ----------  ---------------------------------------------------
//	1073741833  0x40000009  Download transfer error (resumed download)
func RenderDecode(w io.Writer, result *output.DecodeResult) {
	code := constants.PlaceholderNA
	if result.Code != nil {
		code = strconv.Itoa(*result.Code)
	}

	table := newTable().AddColumn("CODE").AddColumn("HEX").AddColumn("MESSAGE")
	table.AddRow(
		output.Plain(code),
		output.Plain(SafeValue(result.Hex)),
		output.Plain(SafeValue(result.Message)),
	)
	table.Fprint(w)
}

// RenderClassify prints a single classified status.
func RenderClassify(w io.Writer, result *output.ClassifyResult) {
	table := newTable().
		AddColumn("CODE").
		AddColumn("STATUS").
		AddColumnWithMaxWidth("EXPLANATION", explanationWidth)
	table.AddRow(
		output.Plain(strconv.Itoa(result.Code)),
		statusCell(result.Descriptor),
		output.Plain(result.Explanation),
	)
	table.Fprint(w)
}

func statusCell(d status.Descriptor) output.Cell {
	return output.Styled(d.Label, d.Color)
}

// RenderBreakdown prints the version buckets of every group.
//
// The GROUP column appears only when more than one group is present.
func RenderBreakdown(w io.Writer, result *output.BreakdownResult) {
	showGroup := output.ShouldShowGroupColumn(groupIDs(result.Groups, func(g output.BreakdownGroup) string { return g.ID }))

	table := newTable().
		AddConditionalColumn("GROUP", showGroup).
		AddColumn("VERSION").
		AddColumn("PERCENT").
		AddColumn("COLOR")

	for _, g := range result.Groups {
		for _, b := range g.Buckets {
			version := b.Version
			if version == g.Reference && !b.Other {
				version += " *"
			}
			table.AddRow(
				output.Plain(g.ID),
				output.Styled(version, b.Color),
				output.Plain(FormatPercent(b.Percentage)),
				output.Plain(FormatRole(b.Color)),
			)
		}
	}

	if table.RowCount() == 0 {
		PrintNoGroupsMessage(w, "with version data")
		return
	}
	table.Fprint(w)
}

// RenderStatus prints status counts and classified instances of every group.
func RenderStatus(w io.Writer, result *output.StatusResult) {
	showGroup := output.ShouldShowGroupColumn(groupIDs(result.Groups, func(g output.StatusGroup) string { return g.ID }))

	kinds := newTable().
		AddConditionalColumn("GROUP", showGroup).
		AddColumn("STATUS").
		AddColumn("COUNT").
		AddColumn("PERCENT")
	instances := newTable().
		AddConditionalColumn("GROUP", showGroup).
		AddColumn("INSTANCE").
		AddColumn("VERSION").
		AddColumn("STATUS").
		AddColumn("LAST CHECK").
		AddColumnWithMaxWidth("EXPLANATION", explanationWidth)

	for _, g := range result.Groups {
		for _, kc := range g.Kinds {
			kinds.AddRow(
				output.Plain(g.ID),
				output.Styled(kc.Kind.Text(), kc.Color),
				output.Plain(strconv.Itoa(kc.Count)),
				output.Plain(FormatPercent(kc.Percentage)),
			)
		}
		for _, inst := range g.Instances {
			instances.AddRow(
				output.Plain(g.ID),
				output.Plain(inst.ID),
				VersionCell(inst.Version, inst.VersionColor),
				statusCell(inst.Descriptor),
				output.Plain(lastCheckCell(inst.LastCheckLabel)),
				output.Plain(inst.Explanation),
			)
		}
	}

	if kinds.RowCount() == 0 {
		PrintNoGroupsMessage(w, "with instances")
		return
	}
	kinds.Fprint(w)
	_, _ = fmt.Fprintln(w)
	instances.Fprint(w)
}

// RenderTicks prints the time axis of every group.
func RenderTicks(w io.Writer, result *output.TicksResult) {
	showGroup := output.ShouldShowGroupColumn(groupIDs(result.Groups, func(g output.TickGroup) string { return g.ID }))

	table := newTable().
		AddConditionalColumn("GROUP", showGroup).
		AddColumn("BRANCH").
		AddColumn("INDEX").
		AddColumn("LABEL")

	for _, g := range result.Groups {
		for _, tick := range g.Ticks {
			table.AddRow(
				output.Plain(g.ID),
				output.Plain(string(g.Branch)),
				output.Plain(output.FormatIndex(tick.Index)),
				tickCell(tick),
			)
		}
	}

	if table.RowCount() == 0 {
		PrintNoGroupsMessage(w, "with timeline samples")
		return
	}
	table.Fprint(w)
}

// tickCell highlights date labels so day boundaries stand out.
func tickCell(tick timeline.Tick) output.Cell {
	if tick.Granularity == timeline.DateOnly {
		return output.Styled(tick.Label, constants.RoleInfo)
	}
	return output.Plain(tick.Label)
}

// RenderReport prints a full report, one section per group, followed by a summary.
func RenderReport(w io.Writer, rep *report.Report) {
	if len(rep.Groups) == 0 {
		PrintNoGroupsMessage(w, "")
		return
	}

	for i, g := range rep.Groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		heading := g.Name
		if g.Channel != "" {
			heading += " (" + g.Channel
			if g.Reference != "" {
				heading += " " + g.Reference
			}
			heading += ")"
		}
		_, _ = fmt.Fprintln(w, HeaderStyle.Render(heading))
		_, _ = fmt.Fprintln(w, strings.Repeat("=", output.DisplayWidth(heading)))

		single := &report.Report{Groups: []report.GroupReport{g}}
		RenderBreakdown(w, output.NewBreakdownResult(single))
		_, _ = fmt.Fprintln(w)
		RenderStatus(w, output.NewStatusResult(single))
		_, _ = fmt.Fprintln(w)
		RenderTicks(w, output.NewTicksResult(single))
	}

	_, _ = fmt.Fprintln(w)
	PrintSummary(w, Summarize(rep))
}

// lastCheckCell shows "-" for instances that never checked in.
func lastCheckCell(label string) string {
	if label == "" {
		return "-"
	}
	return label
}
