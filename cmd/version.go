package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags="-X github.com/flatcar/nebraska-sub000/cmd.Version=1.0.0"
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// BuildTime is the timestamp of the build.
	BuildTime = ""
	// GitCommit is the git commit hash of the build.
	GitCommit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run:   runVersion,
}

// runVersion prints the version, Go runtime, build date and commit.
func runVersion(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "  Version: %s\n", Version)
	_, _ = fmt.Fprintf(w, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if BuildTime != "" {
		_, _ = fmt.Fprintf(w, "  Date:    %s\n", BuildTime)
	}
	if GitCommit != "" {
		_, _ = fmt.Fprintf(w, "  Git:     %s\n", GitCommit)
	}
}

// IsDevBuild reports whether this binary was built without a release version.
func IsDevBuild() bool {
	return Version == "dev"
}
