package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/output"
)

var (
	reportFlags        snapshotFlags
	reportProgressFlag bool
)

var reportCmd = &cobra.Command{
	Use:   "report <snapshot>",
	Short: "Show breakdown, status and ticks of each group",
	Long: `Build the full view of a snapshot: version breakdown, instance statuses and
time axis ticks per group, followed by fleet totals.

CSV is not available for the full report; use breakdown, status or ticks.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportFlags.reset()
	reportFlags.register(reportCmd)
	reportCmd.Flags().BoolVar(&reportProgressFlag, "progress", false, "Show build progress on stderr")
}

// runReport builds and prints the full report.
//
// With --progress and table output, a counter of finished groups is shown
// on stderr while the report is built and cleared before it is printed.
func runReport(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	snap, err := loadGroups(env, args[0], &reportFlags)
	if err != nil {
		return err
	}

	var onGroupDone func(string)
	var progress *output.Progress
	if reportProgressFlag && env.format == output.FormatTable {
		progress = output.NewProgress(env.errOut, len(snap.Groups), "Building report")
		onGroupDone = progress.Step
	}

	rep, err := buildFrom(cmd.Context(), env, snap, &reportFlags, onGroupDone)
	if progress != nil {
		progress.Clear()
	}
	if err != nil {
		return err
	}

	if output.IsStructuredFormat(env.format) {
		return output.WriteReport(env.out, env.format, rep)
	}
	display.RenderReport(env.out, rep)
	return nil
}
