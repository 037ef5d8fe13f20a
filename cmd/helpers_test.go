package cmd

import (
	"bytes"
	"testing"

	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
	"github.com/flatcar/nebraska-sub000/pkg/warnings"
)

// resetFlags restores every command flag variable to its default.
func resetFlags() {
	verboseFlag = false
	versionFlag = false
	configFlag = ""
	formatFlag = ""
	noColorFlag = false

	classifyErrorCodeFlag = ""
	breakdownFlags.reset()
	statusFlags.reset()
	ticksFlags.reset()
	reportFlags.reset()
	reportProgressFlag = false

	configShowDefaultsFlag = false
	configInitFlag = false
	configValidateFlag = false
}

// runCLI runs the root command with args and returns what it wrote.
//
// The working directory is a fresh temporary directory so no local
// .fleetview.yml is picked up, and color is disabled.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	dir := t.TempDir()
	return runCLIIn(t, dir, args...)
}

// runCLIIn is runCLI with an explicit working directory.
func runCLIIn(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	oldGetwd := getwdFunc
	getwdFunc = func() (string, error) { return dir, nil }

	resetFlags()
	t.Cleanup(func() {
		getwdFunc = oldGetwd
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		verbose.Disable()
		warnings.SetWarningWriter(nil)
		display.ApplyPalette(nil)
		display.SetNoColor(false)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))

	err = ExecuteTest()
	return out.String(), errOut.String(), err
}
