// Package status classifies the lifecycle status codes reported by instances.
//
// Status codes form a closed set 1..8. Classification is total: every integer
// yields a Descriptor, and codes outside the set classify as KindUnknown.
package status

import (
	"fmt"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/errcode"
)

// Kind is the closed enumeration of instance update states.
// The numeric values are the status codes reported on the wire.
type Kind int

const (
	// KindUnknown is reported before an instance has any status, and is the
	// fallback for every code outside the table.
	KindUnknown Kind = 1
	// KindUpdateGranted means the server granted an update.
	KindUpdateGranted Kind = 2
	// KindError means the update failed; an error code may accompany it.
	KindError Kind = 3
	// KindComplete means the instance runs the new version.
	KindComplete Kind = 4
	// KindInstalled means the new version is installed and awaits reboot.
	KindInstalled Kind = 5
	// KindDownloaded means the payload has been downloaded.
	KindDownloaded Kind = 6
	// KindDownloading means the payload download started.
	KindDownloading Kind = 7
	// KindOnHold means an update is pending but held back by the rollout policy.
	KindOnHold Kind = 8
)

// AllKinds returns every Kind in status-code order.
func AllKinds() []Kind {
	return []Kind{
		KindUnknown,
		KindUpdateGranted,
		KindError,
		KindComplete,
		KindInstalled,
		KindDownloaded,
		KindDownloading,
		KindOnHold,
	}
}

// KindOf maps a reported status code to its Kind.
//
// Parameters:
//   - code: The reported status code; any integer is accepted
//
// Returns:
//   - Kind: The matching kind, or KindUnknown when code is outside 1..8
func KindOf(code int) Kind {
	k := Kind(code)
	if _, ok := kindInfos[k]; ok {
		return k
	}
	return KindUnknown
}

// String returns the stable identifier of the kind (e.g., "Complete").
func (k Kind) String() string {
	if info, ok := kindInfos[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler so kinds render by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Descriptor is the display form of a classified status.
//
// Fields:
//   - Kind: The classified kind
//   - Label: Short status text with the version appended
//   - Color: Semantic color role for the status
//   - Explanation: Sentence describing the state; includes the decoded error for KindError
type Descriptor struct {
	Kind        Kind                `json:"kind" xml:"kind"`
	Label       string              `json:"label" xml:"label"`
	Color       constants.ColorRole `json:"color" xml:"color"`
	Explanation string              `json:"explanation" xml:"explanation"`
}

// kindInfo holds the fixed presentation of one kind.
type kindInfo struct {
	name        string
	text        string
	color       constants.ColorRole
	explanation string
}

// kindInfos is built once from describe and never mutated afterwards.
var kindInfos = func() map[Kind]kindInfo {
	m := make(map[Kind]kindInfo, 8)
	for _, k := range AllKinds() {
		m[k] = describe(k)
	}
	return m
}()

// describe is the single exhaustive switch over Kind. A kind added to AllKinds
// without a case here falls into the default branch, which TestDescribeIsExhaustive rejects.
func describe(k Kind) kindInfo {
	switch k {
	case KindUnknown:
		return kindInfo{"Unknown", "Unknown", constants.RoleNeutral, "There is no status defined for this instance"}
	case KindUpdateGranted:
		return kindInfo{"UpdateGranted", "Granted", constants.RoleInfo, "The instance has been granted an update to version %s"}
	case KindError:
		return kindInfo{"Error", "Error", constants.RoleDanger, "The instance reported an error while updating to version %s"}
	case KindComplete:
		return kindInfo{"Complete", "Completed", constants.RoleSuccess, "The instance has been updated to version %s"}
	case KindInstalled:
		return kindInfo{"Installed", "Installed", constants.RoleInfo, "The instance has installed version %s and will switch to it on reboot"}
	case KindDownloaded:
		return kindInfo{"Downloaded", "Downloaded", constants.RoleInfo, "The instance has downloaded version %s"}
	case KindDownloading:
		return kindInfo{"Downloading", "Downloading", constants.RoleInfo, "The instance has started downloading version %s"}
	case KindOnHold:
		return kindInfo{"OnHold", "On hold", constants.RoleWarning, "An update to version %s is pending but on hold because of the rollout policy"}
	default:
		return kindInfo{}
	}
}

// Classify maps a reported status code to its display descriptor.
//
// It performs the following operations:
//   - Resolves the code to a Kind, falling back to KindUnknown
//   - Embeds the version verbatim into the label and explanation
//   - For KindError, appends the decoded error code to the explanation
//
// Parameters:
//   - code: The reported status code; any integer is accepted
//   - version: The version the instance reported; not validated
//   - errorCode: The packed error code, or nil when none was reported
//
// Returns:
//   - Descriptor: Always populated; never fails
func Classify(code int, version string, errorCode *int) Descriptor {
	kind := KindOf(code)
	info := kindInfos[kind]

	label := info.text
	if version != "" {
		label = info.text + " " + version
	}

	explanation := info.explanation
	if kind != KindUnknown {
		explanation = fmt.Sprintf(info.explanation, versionOrPlaceholder(version))
	}

	if kind == KindError {
		if detail := errcode.Decode(errorCode).String(); detail != "" {
			explanation += ": " + detail
		}
	}

	return Descriptor{
		Kind:        kind,
		Label:       label,
		Color:       info.color,
		Explanation: explanation,
	}
}

// Text returns the short status text of a kind without a version (e.g., "On hold").
func (k Kind) Text() string {
	return kindInfos[KindOf(int(k))].text
}

// Color returns the color role of a kind.
func (k Kind) Color() constants.ColorRole {
	return kindInfos[KindOf(int(k))].color
}

func versionOrPlaceholder(version string) string {
	if version == "" {
		return constants.PlaceholderNA
	}
	return version
}
