// Package versions colors and aggregates the versions running across a fleet,
// relative to the version currently assigned to a channel.
package versions

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// canonicalSemver converts a version string to canonical semver format.
//
// It performs the following operations:
//   - Cleans and validates the input
//   - Adds "v" prefix if missing
//   - Pads missing minor/patch with zeros until valid semver is found
//   - Returns canonical form using semver.Canonical
//
// Parameters:
//   - version: The version string to canonicalize (e.g., "3033.2", "v3033.2.0")
//
// Returns:
//   - string: Canonical semver string (e.g., "v3033.2.0"); empty string if not valid semver
func canonicalSemver(version string) string {
	cleaned := strings.TrimSpace(version)
	if cleaned == "" || cleaned == constants.PlaceholderNA {
		return ""
	}

	if !strings.HasPrefix(cleaned, "v") {
		cleaned = "v" + cleaned
	}

	trimmed := strings.TrimPrefix(cleaned, "v")
	parts := strings.Split(trimmed, ".")
	for len(parts) > 0 && len(parts) < 3 {
		candidate := "v" + strings.Join(parts, ".")
		if semver.IsValid(candidate) {
			return semver.Canonical(candidate)
		}
		parts = append(parts, "0")
	}

	if semver.IsValid(cleaned) {
		return semver.Canonical(cleaned)
	}

	return ""
}

// IsSemver reports whether version parses as a semantic version.
//
// A leading "v" is optional and missing minor or patch components are treated as zero.
//
// Parameters:
//   - version: The version string to check
//
// Returns:
//   - bool: true if the version is comparable with Compare
func IsSemver(version string) bool {
	return canonicalSemver(version) != ""
}

// Compare compares two versions by semantic version precedence.
//
// Parameters:
//   - a: The first version
//   - b: The second version
//
// Returns:
//   - int: Negative if a < b, zero if equal, positive if a > b
//   - bool: false if either version is not semver, in which case the int is 0
func Compare(a, b string) (int, bool) {
	ca, cb := canonicalSemver(a), canonicalSemver(b)
	if ca == "" || cb == "" {
		return 0, false
	}
	return semver.Compare(ca, cb), true
}

// sameVersion reports whether two version strings denote the same version,
// either literally or by semver precedence.
func sameVersion(a, b string) bool {
	if a == b {
		return true
	}
	cmp, ok := Compare(a, b)
	return ok && cmp == 0
}

// rankDescending returns the distinct canonical forms of versions, newest first.
//
// Parameters:
//   - canonicals: Canonical semver strings, possibly with duplicates
//
// Returns:
//   - []string: Deduplicated canonical versions sorted by descending precedence
func rankDescending(canonicals []string) []string {
	seen := make(map[string]struct{}, len(canonicals))
	ranked := make([]string, 0, len(canonicals))
	for _, c := range canonicals {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return semver.Compare(ranked[i], ranked[j]) > 0
	})

	return ranked
}
