package status

import "github.com/flatcar/nebraska-sub000/pkg/constants"

// Report is a single instance status as delivered by the telemetry snapshot.
//
// Fields:
//   - Code: Reported status code
//   - Version: Reported version
//   - ErrorCode: Packed error code, nil when not reported
type Report struct {
	Code      int
	Version   string
	ErrorCode *int
}

// KindCount is the number of instances in one status kind.
//
// Fields:
//   - Kind: The status kind
//   - Label: Short status text of the kind
//   - Color: Color role of the kind
//   - Count: Number of instances in this kind
//   - Percentage: Share of all summarized instances, 0..100
type KindCount struct {
	Kind       Kind                `json:"kind" xml:"kind"`
	Label      string              `json:"label" xml:"label"`
	Color      constants.ColorRole `json:"color" xml:"color"`
	Count      int                 `json:"count" xml:"count"`
	Percentage float64             `json:"percentage" xml:"percentage"`
}

// Summarize counts instances per status kind.
//
// Out-of-range codes are counted under KindUnknown. Kinds without instances are
// omitted; the rest are returned in status-code order.
//
// Parameters:
//   - reports: Instance statuses to count
//
// Returns:
//   - []KindCount: One entry per non-empty kind; empty (non-nil) for no reports
func Summarize(reports []Report) []KindCount {
	counts := make(map[Kind]int, len(AllKinds()))
	for _, r := range reports {
		counts[KindOf(r.Code)]++
	}

	result := make([]KindCount, 0, len(counts))
	for _, k := range AllKinds() {
		n := counts[k]
		if n == 0 {
			continue
		}
		result = append(result, KindCount{
			Kind:       k,
			Label:      k.Text(),
			Color:      k.Color(),
			Count:      n,
			Percentage: float64(n) * 100 / float64(len(reports)),
		})
	}

	return result
}
