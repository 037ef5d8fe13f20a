package versions

import (
	"golang.org/x/mod/semver"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// AssignColors assigns a color role to each version relative to a reference version.
//
// Rules, in order:
//   - non-semver versions are neutral
//   - without a (semver) reference every version is neutral
//   - the reference version itself is success
//   - versions newer than the reference are info
//   - older versions are colored by how many distinct versions separate them
//     from the reference, newest first: one step is warning, more is danger
//
// The synthetic "Other" pseudo-version is skipped during resolution and set to
// neutral afterwards, so no coincidence in the rules can recolor it.
//
// Parameters:
//   - versions: The versions to color; duplicates are harmless
//   - reference: The channel's current version; empty when absent
//
// Returns:
//   - map[string]constants.ColorRole: One role per distinct input version
func AssignColors(versions []string, reference string) map[string]constants.ColorRole {
	roles := make(map[string]constants.ColorRole, len(versions))
	refCanon := canonicalSemver(reference)

	canonicals := make([]string, 0, len(versions)+1)
	hasOther := false
	for _, v := range versions {
		if v == constants.OtherVersion {
			hasOther = true
			continue
		}
		if c := canonicalSemver(v); c != "" {
			canonicals = append(canonicals, c)
		}
	}
	if refCanon != "" {
		canonicals = append(canonicals, refCanon)
	}

	rank := make(map[string]int, len(canonicals))
	for i, c := range rankDescending(canonicals) {
		rank[c] = i
	}

	for _, v := range versions {
		if v == constants.OtherVersion {
			continue
		}
		roles[v] = colorFor(canonicalSemver(v), refCanon, rank)
	}

	if hasOther {
		roles[constants.OtherVersion] = constants.RoleNeutral
	}

	return roles
}

// colorFor resolves the role of one canonical version against the canonical reference.
func colorFor(canon, refCanon string, rank map[string]int) constants.ColorRole {
	if canon == "" || refCanon == "" {
		return constants.RoleNeutral
	}

	cmp := semver.Compare(canon, refCanon)
	switch {
	case cmp == 0:
		return constants.RoleSuccess
	case cmp > 0:
		return constants.RoleInfo
	}

	if rank[canon]-rank[refCanon] == 1 {
		return constants.RoleWarning
	}
	return constants.RoleDanger
}
