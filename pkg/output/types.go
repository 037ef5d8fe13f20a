package output

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/flatcar/nebraska-sub000/pkg/errcode"
	"github.com/flatcar/nebraska-sub000/pkg/report"
	"github.com/flatcar/nebraska-sub000/pkg/status"
	"github.com/flatcar/nebraska-sub000/pkg/timeline"
	"github.com/flatcar/nebraska-sub000/pkg/versions"
)

// DecodeResult represents a decoded error code for structured output.
//
// Fields:
//   - Code: The packed error code; nil when none was given
//   - Hex: Code as a 32-bit hexadecimal word
//   - Primary: Description of the primary cause
//   - Flags: Phrases of the set flag bits
//   - Message: Primary and flags joined for display
type DecodeResult struct {
	XMLName xml.Name `json:"-" xml:"decodeResult"`
	Code    *int     `json:"code" xml:"code,omitempty"`
	Hex     string   `json:"hex,omitempty" xml:"hex,omitempty"`
	Primary string   `json:"primary" xml:"primary"`
	Flags   []string `json:"flags" xml:"flags>flag"`
	Message string   `json:"message" xml:"message"`
}

// NewDecodeResult decodes code and returns its structured form.
func NewDecodeResult(code *int) *DecodeResult {
	decoded := errcode.Decode(code)
	result := &DecodeResult{
		Code:    code,
		Primary: decoded.Primary,
		Flags:   decoded.Flags,
		Message: decoded.String(),
	}
	if code != nil {
		result.Hex = fmt.Sprintf("0x%08x", uint32(*code))
	}
	return result
}

// ClassifyResult represents a classified instance status for structured output.
type ClassifyResult struct {
	XMLName   xml.Name `json:"-" xml:"classifyResult"`
	Code      int      `json:"code" xml:"code"`
	Version   string   `json:"version" xml:"version"`
	ErrorCode *int     `json:"error_code,omitempty" xml:"errorCode,omitempty"`
	status.Descriptor
}

// NewClassifyResult classifies one status report.
func NewClassifyResult(code int, version string, errorCode *int) *ClassifyResult {
	return &ClassifyResult{
		Code:       code,
		Version:    version,
		ErrorCode:  errorCode,
		Descriptor: status.Classify(code, version, errorCode),
	}
}

// BreakdownResult represents the version breakdown of every group.
type BreakdownResult struct {
	XMLName xml.Name         `json:"-" xml:"breakdownResult"`
	Groups  []BreakdownGroup `json:"groups" xml:"group"`
}

// BreakdownGroup is the version breakdown of one group.
//
// Fields:
//   - ID, Name: Group identity
//   - Reference: The channel's current version
//   - Buckets: Breakdown buckets in display order
//   - Colors: Version to color role, bucket versions first in bucket order,
//     then folded versions alphabetically; JSON only
type BreakdownGroup struct {
	ID        string                 `json:"id" xml:"id,attr"`
	Name      string                 `json:"name" xml:"name"`
	Reference string                 `json:"reference,omitempty" xml:"reference,omitempty"`
	Buckets   []versions.Bucket      `json:"buckets" xml:"buckets>bucket"`
	Colors    *orderedmap.OrderedMap `json:"colors" xml:"-"`
}

// NewBreakdownResult extracts the breakdown part of a report.
func NewBreakdownResult(rep *report.Report) *BreakdownResult {
	result := &BreakdownResult{Groups: make([]BreakdownGroup, 0, len(rep.Groups))}
	for _, g := range rep.Groups {
		result.Groups = append(result.Groups, BreakdownGroup{
			ID:        g.ID,
			Name:      g.Name,
			Reference: g.Reference,
			Buckets:   g.Breakdown,
			Colors:    orderedColors(g),
		})
	}
	return result
}

func orderedColors(g report.GroupReport) *orderedmap.OrderedMap {
	colors := orderedmap.New()
	colors.SetEscapeHTML(false)

	for _, b := range g.Breakdown {
		colors.Set(b.Version, string(b.Color))
	}

	var folded []string
	for v := range g.VersionColors {
		if _, ok := colors.Get(v); !ok {
			folded = append(folded, v)
		}
	}
	sort.Strings(folded)
	for _, v := range folded {
		colors.Set(v, string(g.VersionColors[v]))
	}
	return colors
}

// StatusResult represents instance classification of every group.
type StatusResult struct {
	XMLName xml.Name      `json:"-" xml:"statusResult"`
	Groups  []StatusGroup `json:"groups" xml:"group"`
}

// StatusGroup is the status summary of one group.
type StatusGroup struct {
	ID        string                  `json:"id" xml:"id,attr"`
	Name      string                  `json:"name" xml:"name"`
	Kinds     []status.KindCount      `json:"kinds" xml:"kinds>kind"`
	Instances []report.InstanceStatus `json:"instances" xml:"instances>instance"`
}

// NewStatusResult extracts the status part of a report.
func NewStatusResult(rep *report.Report) *StatusResult {
	result := &StatusResult{Groups: make([]StatusGroup, 0, len(rep.Groups))}
	for _, g := range rep.Groups {
		result.Groups = append(result.Groups, StatusGroup{
			ID:        g.ID,
			Name:      g.Name,
			Kinds:     g.Status,
			Instances: g.Instances,
		})
	}
	return result
}

// TicksResult represents the timeline ticks of every group.
type TicksResult struct {
	XMLName xml.Name    `json:"-" xml:"ticksResult"`
	Groups  []TickGroup `json:"groups" xml:"group"`
}

// TickGroup is the time axis of one group.
//
// Fields:
//   - ID, Name: Group identity
//   - Branch: Tick layout chosen for the samples
//   - Samples: Number of samples
//   - Ticks: Ticks in ascending index order
//   - Labels: Index to label in tick order; JSON only
type TickGroup struct {
	ID      string                 `json:"id" xml:"id,attr"`
	Name    string                 `json:"name" xml:"name"`
	Branch  timeline.Branch        `json:"branch" xml:"branch"`
	Samples int                    `json:"samples" xml:"samples"`
	Ticks   []timeline.Tick        `json:"ticks" xml:"ticks>tick"`
	Labels  *orderedmap.OrderedMap `json:"labels" xml:"-"`
}

// NewTicksResult extracts the timeline part of a report.
func NewTicksResult(rep *report.Report) *TicksResult {
	result := &TicksResult{Groups: make([]TickGroup, 0, len(rep.Groups))}
	for _, g := range rep.Groups {
		result.Groups = append(result.Groups, NewTickGroup(g.ID, g.Name, g.Branch, g.Samples, g.Ticks))
	}
	return result
}

// NewTickGroup builds a TickGroup and its ordered label map.
func NewTickGroup(id, name string, branch timeline.Branch, samples int, ticks []timeline.Tick) TickGroup {
	labels := orderedmap.New()
	labels.SetEscapeHTML(false)
	for _, tick := range ticks {
		labels.Set(FormatIndex(tick.Index), tick.Label)
	}
	return TickGroup{
		ID:      id,
		Name:    name,
		Branch:  branch,
		Samples: samples,
		Ticks:   ticks,
		Labels:  labels,
	}
}

// FormatIndex renders a fractional sample index with the fewest digits that round-trip.
func FormatIndex(index float64) string {
	return strconv.FormatFloat(index, 'f', -1, 64)
}

// FormatPercent renders a percentage with up to two decimals.
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
