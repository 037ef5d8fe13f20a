package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flatcar/nebraska-sub000/pkg/report"
)

// structured dispatches result to the JSON or XML writer, or to writeCSV.
func structured(w io.Writer, format Format, result interface{}, writeCSV func(*Formatter) error) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		if writeCSV == nil {
			return fmt.Errorf("unsupported format for this result: %s", format)
		}
		return writeCSV(formatter)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteDecodeResult writes a decoded error code in the specified format.
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Output format (FormatJSON, FormatXML, or FormatCSV)
//   - result: Decoded error code
//
// Returns:
//   - error: When format is unsupported or the write fails; otherwise nil
func WriteDecodeResult(w io.Writer, format Format, result *DecodeResult) error {
	return structured(w, format, result, func(f *Formatter) error {
		code := ""
		if result.Code != nil {
			code = strconv.Itoa(*result.Code)
		}
		headers := []string{"CODE", "HEX", "PRIMARY", "FLAGS", "MESSAGE"}
		rows := [][]string{{code, result.Hex, result.Primary, strings.Join(result.Flags, "; "), result.Message}}
		return f.WriteCSV(headers, rows)
	})
}

// WriteClassifyResult writes a classified status in the specified format.
func WriteClassifyResult(w io.Writer, format Format, result *ClassifyResult) error {
	return structured(w, format, result, func(f *Formatter) error {
		errorCode := ""
		if result.ErrorCode != nil {
			errorCode = strconv.Itoa(*result.ErrorCode)
		}
		headers := []string{"CODE", "VERSION", "ERROR_CODE", "KIND", "LABEL", "COLOR", "EXPLANATION"}
		rows := [][]string{{
			strconv.Itoa(result.Code), result.Version, errorCode,
			result.Kind.String(), result.Label, string(result.Color), result.Explanation,
		}}
		return f.WriteCSV(headers, rows)
	})
}

// WriteBreakdownResult writes version breakdowns in the specified format.
//
// CSV output has one row per bucket.
func WriteBreakdownResult(w io.Writer, format Format, result *BreakdownResult) error {
	return structured(w, format, result, func(f *Formatter) error {
		headers := []string{"GROUP", "VERSION", "PERCENTAGE", "COLOR", "SORT_KEY", "OTHER"}
		var rows [][]string
		for _, g := range result.Groups {
			for _, b := range g.Buckets {
				rows = append(rows, []string{
					g.ID, b.Version, FormatPercent(b.Percentage), string(b.Color),
					strconv.Itoa(b.SortKey), strconv.FormatBool(b.Other),
				})
			}
		}
		return f.WriteCSV(headers, rows)
	})
}

// WriteStatusResult writes per-instance classification in the specified format.
//
// CSV output has one row per instance.
func WriteStatusResult(w io.Writer, format Format, result *StatusResult) error {
	return structured(w, format, result, func(f *Formatter) error {
		headers := []string{"GROUP", "INSTANCE", "VERSION", "VERSION_COLOR", "KIND", "LABEL", "COLOR", "EXPLANATION"}
		var rows [][]string
		for _, g := range result.Groups {
			for _, inst := range g.Instances {
				rows = append(rows, []string{
					g.ID, inst.ID, inst.Version, string(inst.VersionColor),
					inst.Kind.String(), inst.Label, string(inst.Color), inst.Explanation,
				})
			}
		}
		return f.WriteCSV(headers, rows)
	})
}

// WriteTicksResult writes timeline ticks in the specified format.
//
// CSV output has one row per tick; times are RFC 3339.
func WriteTicksResult(w io.Writer, format Format, result *TicksResult) error {
	return structured(w, format, result, func(f *Formatter) error {
		headers := []string{"GROUP", "BRANCH", "INDEX", "TIME", "GRANULARITY", "LABEL"}
		var rows [][]string
		for _, g := range result.Groups {
			for _, tick := range g.Ticks {
				rows = append(rows, []string{
					g.ID, string(g.Branch), FormatIndex(tick.Index),
					tick.Time.Format(time.RFC3339), tick.Granularity.String(), tick.Label,
				})
			}
		}
		return f.WriteCSV(headers, rows)
	})
}

// WriteReport writes a full report as JSON or XML.
//
// The report nests several row shapes per group, so CSV is rejected; the
// breakdown, status and ticks results each have a CSV form.
func WriteReport(w io.Writer, format Format, rep *report.Report) error {
	return structured(w, format, rep, nil)
}
