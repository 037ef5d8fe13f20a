package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/output"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <error-code>",
	Short: "Decode a packed update error code",
	Long: `Decode a packed update error code into its primary cause and flags.

The code may be decimal (1073741833), hexadecimal (0x40000009) or a negative
value from a signed transport (-2147483639).`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

// runDecode parses the code argument and prints its decoded form.
func runDecode(cmd *cobra.Command, args []string) error {
	code, err := parseErrorCode(args[0])
	if err != nil {
		return err
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	result := output.NewDecodeResult(&code)
	if output.IsStructuredFormat(env.format) {
		return output.WriteDecodeResult(env.out, env.format, result)
	}
	display.RenderDecode(env.out, result)
	return nil
}

// parseErrorCode parses a decimal or 0x-prefixed hexadecimal error code.
//
// Values must fit in 32 bits, signed or unsigned.
//
// Parameters:
//   - s: The argument
//
// Returns:
//   - int: The code
//   - error: *errors.ValidationError when s is not a 32-bit integer
func parseErrorCode(s string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || value < math.MinInt32 || value > math.MaxUint32 {
		return 0, errors.NewInputValidationError("error-code",
			fmt.Sprintf("invalid error code %q", s),
			"a 32-bit integer, decimal or 0x-prefixed hexadecimal")
	}
	return int(value), nil
}
