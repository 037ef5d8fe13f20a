package snapshot

import (
	"fmt"
	"math"
	"strconv"

	"github.com/flatcar/nebraska-sub000/pkg/errcode"
	"github.com/flatcar/nebraska-sub000/pkg/status"
)

// shareTolerancePct is how far percentage shares may drift from 100 before
// they are reported.
const shareTolerancePct = 1.0

// Warnings lists problems that do not prevent building a report.
//
// It checks, per group:
//   - percentage shares that do not add up to 100 (within shareTolerancePct)
//   - versions listed more than once
//   - instances in the Error state without an error code
//   - error codes whose primary cause is not in the errcode table
//
// Returns:
//   - []string: One message per problem, in group order; nil when there are none
func (s *Snapshot) Warnings() []string {
	var out []string

	for gi := range s.Groups {
		g := &s.Groups[gi]

		if len(g.Versions) > 0 && g.Versions[0].Percentage != nil {
			sum := 0.0
			for _, v := range g.Versions {
				sum += derefFloat(v.Percentage)
			}
			if math.Abs(sum-100) > shareTolerancePct {
				out = append(out, fmt.Sprintf("group %q: version shares sum to %s%%", g.ID, strconv.FormatFloat(sum, 'f', -1, 64)))
			}
		}

		seen := make(map[string]int, len(g.Versions))
		for _, v := range g.Versions {
			seen[v.Version]++
			if seen[v.Version] == 2 {
				out = append(out, fmt.Sprintf("group %q: version %q is listed more than once", g.ID, v.Version))
			}
		}

		for _, inst := range g.Instances {
			switch {
			case status.KindOf(inst.Status) == status.KindError && inst.ErrorCode == nil:
				out = append(out, fmt.Sprintf("group %q: instance %q failed without an error code", g.ID, inst.ID))
			case inst.ErrorCode != nil && !errcode.IsKnown(*inst.ErrorCode):
				out = append(out, fmt.Sprintf("group %q: instance %q reported unknown error code %d", g.ID, inst.ID, *inst.ErrorCode))
			}
		}
	}

	return out
}
