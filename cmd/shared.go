package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/config"
	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/output"
	"github.com/flatcar/nebraska-sub000/pkg/report"
	"github.com/flatcar/nebraska-sub000/pkg/snapshot"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
	"github.com/flatcar/nebraska-sub000/pkg/warnings"
)

var (
	loadConfigFunc   = config.LoadConfig
	loadSnapshotFunc = snapshot.Load
	getwdFunc        = os.Getwd
)

// runEnv is what every command needs after global flags are applied.
//
// Fields:
//   - cfg: Loaded and validated configuration
//   - format: Output format from --format, or the config's output.format
//   - out: Destination for results
//   - errOut: Destination for warnings and progress
type runEnv struct {
	cfg    *config.Config
	format output.Format
	out    io.Writer
	errOut io.Writer
}

// setup loads the configuration and applies the global output flags.
//
// It performs the following operations:
//   - Step 1: Loads the config from --config or the working directory
//   - Step 2: Resolves the output format, --format taking precedence
//   - Step 3: Applies the palette and color settings
//   - Step 4: Routes warnings to the command's stderr and prints config
//     warnings for table output
//
// Parameters:
//   - cmd: The running command
//
// Returns:
//   - *runEnv: The environment
//   - error: config load or *errors.ValidationError for an unknown format
func setup(cmd *cobra.Command) (*runEnv, error) {
	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}

	cfg, err := loadConfigFunc(configFlag, workDir)
	if err != nil {
		return nil, err
	}

	formatName := cfg.Output.Format
	if formatFlag != "" {
		formatName = formatFlag
	}
	format, err := output.ParseFormatStrict(formatName)
	if err != nil {
		return nil, err
	}

	display.ApplyPalette(cfg)
	display.SetNoColor(!display.ShouldUseColor(noColorFlag || cfg.Output.NoColor))

	env := &runEnv{
		cfg:    cfg,
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	warnings.SetWarningWriter(env.errOut)
	if format == output.FormatTable {
		display.PrintWarnings(env.errOut, cfg.Validate().Warnings)
	}
	return env, nil
}

// snapshotFlags are shared by every command that reads a snapshot.
type snapshotFlags struct {
	groups    string
	threshold float64
	ticks     int
}

// register adds the shared snapshot flags to cmd.
func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.groups, "group", "g", "", "Only include these group ids (comma-separated)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", -1, "Breakdown threshold in percent (default from config)")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "Desired tick count for long time spans (default from config)")
}

// reset restores the flag defaults.
func (f *snapshotFlags) reset() {
	*f = snapshotFlags{threshold: -1}
}

// buildReport loads the snapshot at path, filters its groups and builds the report.
//
// Parameters:
//   - ctx: Context for cancellation
//   - env: Run environment
//   - path: Snapshot path or "-" for stdin
//   - flags: Shared snapshot flags
//
// Returns:
//   - *report.Report: The report
//   - error: snapshot, validation or build failures
func buildReport(ctx context.Context, env *runEnv, path string, flags *snapshotFlags) (*report.Report, error) {
	snap, err := loadGroups(env, path, flags)
	if err != nil {
		return nil, err
	}
	return buildFrom(ctx, env, snap, flags, nil)
}

// loadGroups loads the snapshot at path and keeps the groups selected by --group.
func loadGroups(env *runEnv, path string, flags *snapshotFlags) (*snapshot.Snapshot, error) {
	snap, err := loadSnapshotFunc(path, env.cfg.GetMaxSnapshotFileSize())
	if err != nil {
		return nil, err
	}

	if err := filterGroups(snap, flags.groups); err != nil {
		return nil, err
	}
	return snap, nil
}

// buildFrom builds the report for snap with the config options and flag overrides.
//
// onGroupDone may be nil.
func buildFrom(ctx context.Context, env *runEnv, snap *snapshot.Snapshot, flags *snapshotFlags, onGroupDone func(string)) (*report.Report, error) {
	opts, err := report.OptionsFromConfig(env.cfg)
	if err != nil {
		return nil, err
	}
	if flags.threshold >= 0 {
		opts.ThresholdPct = flags.threshold
	}
	if flags.ticks != 0 {
		if flags.ticks < 0 || flags.ticks > timeline.MaxTickCount {
			return nil, errors.NewInputValidationError("ticks",
				fmt.Sprintf("must be between 1 and %d, got %d", timeline.MaxTickCount, flags.ticks),
				fmt.Sprintf("an integer in [1, %d]", timeline.MaxTickCount))
		}
		opts.TickCount = flags.ticks
	}
	opts.OnGroupDone = onGroupDone

	if ctx == nil {
		ctx = context.Background()
	}
	return report.BuildWithOptions(ctx, snap, opts)
}

// filterGroups keeps only the groups named in ids, in snapshot order.
//
// Parameters:
//   - snap: Snapshot to filter in place
//   - ids: Comma-separated group ids; empty keeps every group
//
// Returns:
//   - error: *errors.ValidationError naming the first unknown id
func filterGroups(snap *snapshot.Snapshot, ids string) error {
	if strings.TrimSpace(ids) == "" {
		return nil
	}

	wanted := make(map[string]bool)
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}

	known := make([]string, 0, len(snap.Groups))
	kept := make([]snapshot.Group, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		known = append(known, g.ID)
		if wanted[g.ID] {
			kept = append(kept, g)
			delete(wanted, g.ID)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for id := range wanted {
			missing = append(missing, id)
		}
		sort.Strings(missing)

		verr := errors.NewInputValidationError("group", fmt.Sprintf("unknown group %q", missing[0]), "a group id from the snapshot")
		verr.ValidKeys = known
		return verr
	}

	snap.Groups = kept
	return nil
}
