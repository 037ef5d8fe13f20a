package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/output"
)

var classifyErrorCodeFlag string

var classifyCmd = &cobra.Command{
	Use:   "classify <status-code> [version]",
	Short: "Classify an instance status code",
	Long: `Classify a reported instance status code into its label, color and explanation.

Codes outside 1..8 classify as Unknown. For the Error status, --error-code adds
the decoded error to the explanation.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyErrorCodeFlag, "error-code", "e", "", "Packed error code reported with the status")
}

// runClassify parses the arguments and prints the classified status.
func runClassify(cmd *cobra.Command, args []string) error {
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.NewInputValidationError("status-code", fmt.Sprintf("invalid status code %q", args[0]), "an integer")
	}

	version := ""
	if len(args) > 1 {
		version = args[1]
	}

	var errorCode *int
	if classifyErrorCodeFlag != "" {
		parsed, err := parseErrorCode(classifyErrorCodeFlag)
		if err != nil {
			return err
		}
		errorCode = &parsed
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	result := output.NewClassifyResult(code, version, errorCode)
	if output.IsStructuredFormat(env.format) {
		return output.WriteClassifyResult(env.out, env.format, result)
	}
	display.RenderClassify(env.out, result)
	return nil
}
