package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/output"
)

var (
	breakdownFlags snapshotFlags
	statusFlags    snapshotFlags
	ticksFlags     snapshotFlags
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <snapshot>",
	Short: "Show the version breakdown of each group",
	Long: `Fold each group's version shares into display buckets.

Versions below the threshold are summed into "Other". The channel's current
version comes first, "Other" last, and the rest by ascending share. Use "-"
to read the snapshot from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

var statusCmd = &cobra.Command{
	Use:   "status <snapshot>",
	Short: "Classify the instances of each group",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var ticksCmd = &cobra.Command{
	Use:   "ticks <snapshot>",
	Short: "Plan time axis ticks for each group's samples",
	Long: `Plan time axis ticks for each group's samples.

Exactly one hour of samples gets four time ticks; exactly one week or thirty
days gets a date tick on every other sample; any other span is anchored on the
first local midnight and walked in steps of span/--ticks.`,
	Args: cobra.ExactArgs(1),
	RunE: runTicks,
}

func init() {
	breakdownFlags.reset()
	statusFlags.reset()
	ticksFlags.reset()

	breakdownFlags.register(breakdownCmd)
	statusFlags.register(statusCmd)
	ticksFlags.register(ticksCmd)
}

// runBreakdown prints the version breakdown of every selected group.
func runBreakdown(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	rep, err := buildReport(cmd.Context(), env, args[0], &breakdownFlags)
	if err != nil {
		return err
	}

	result := output.NewBreakdownResult(rep)
	if output.IsStructuredFormat(env.format) {
		return output.WriteBreakdownResult(env.out, env.format, result)
	}
	display.RenderBreakdown(env.out, result)
	return nil
}

// runStatus prints status counts and classified instances of every selected group.
func runStatus(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	rep, err := buildReport(cmd.Context(), env, args[0], &statusFlags)
	if err != nil {
		return err
	}

	result := output.NewStatusResult(rep)
	if output.IsStructuredFormat(env.format) {
		return output.WriteStatusResult(env.out, env.format, result)
	}
	display.RenderStatus(env.out, result)
	return nil
}

// runTicks prints the planned ticks of every selected group.
func runTicks(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	rep, err := buildReport(cmd.Context(), env, args[0], &ticksFlags)
	if err != nil {
		return err
	}

	result := output.NewTicksResult(rep)
	if output.IsStructuredFormat(env.format) {
		return output.WriteTicksResult(env.out, env.format, result)
	}
	display.RenderTicks(env.out, result)
	return nil
}
