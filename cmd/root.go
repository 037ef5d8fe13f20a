// Package cmd implements the command-line interface for fleetview.
// It provides commands for decoding update error codes, classifying instance
// statuses, and reporting version breakdowns and timeline ticks of a fleet
// telemetry snapshot.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
)

var exitFunc = os.Exit

var (
	verboseFlag bool
	versionFlag bool
	configFlag  string
	formatFlag  string
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "fleetview",
	Short:         "Inspect update telemetry of a fleet",
	Long:          `Decode update errors, classify instance statuses and summarize version rollout of a fleet telemetry snapshot.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag {
			runVersion(cmd, args)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success
//   - 2: Failure (unreadable input, cancelled run)
//   - 3: Configuration, snapshot or argument validation error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errors.PrintError(os.Stderr, err, verboseFlag)
		if ve, ok := errors.IsValidationError(err); ok {
			verbose.WithDocRef(string(ve.Category), "Validation failed")
		}
		code := errors.GetExitCode(err)
		verbose.Infof("Exit code %d: %v", code, err)
		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path (default: ./.fleetview.yml when present)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: table, json, csv, xml (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	// Local so it only works on the root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	// Commands ordered from single values to whole snapshots
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ticksCmd)
	rootCmd.AddCommand(reportCmd)
}
