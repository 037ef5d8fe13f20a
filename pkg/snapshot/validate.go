package snapshot

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/flatcar/nebraska-sub000/pkg/errors"
)

// tagShareKind is reported when a version share sets both or neither of percentage and count.
const tagShareKind = "percentage_xor_count"

// snapshotValidate is the validator instance for snapshot types.
// Initialized in init() with yaml field names and struct-level rules.
var snapshotValidate *validator.Validate

func init() {
	snapshotValidate = validator.New()

	snapshotValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	snapshotValidate.RegisterStructValidation(validateShareKind, VersionShare{})
}

// validateShareKind requires exactly one of Percentage and Count.
func validateShareKind(sl validator.StructLevel) {
	share := sl.Current().Interface().(VersionShare)
	if (share.Percentage == nil) == (share.Count == nil) {
		sl.ReportError(share.Percentage, "percentage", "Percentage", tagShareKind, "")
	}
}

// Validate checks the snapshot for structural problems.
//
// It performs the following operations:
//   - Step 1: Runs the validator tags (required ids, share ranges, one share kind)
//   - Step 2: Requires unique group ids
//   - Step 3: Requires every group's shares to use one kind
//   - Step 4: Requires every group's samples to be in ascending order
//
// Returns:
//   - error: *errors.ValidationError (snapshot category) naming the first offending field
func (s *Snapshot) Validate() error {
	if err := snapshotValidate.Struct(s); err != nil {
		return fromValidator(err)
	}

	seen := make(map[string]int, len(s.Groups))
	for gi := range s.Groups {
		g := &s.Groups[gi]
		if prev, ok := seen[g.ID]; ok {
			return errors.NewSnapshotValidationError(
				fmt.Sprintf("groups[%d].id", gi),
				fmt.Sprintf("duplicate group id %q (also groups[%d])", g.ID, prev),
			)
		}
		seen[g.ID] = gi

		for vi := 1; vi < len(g.Versions); vi++ {
			if (g.Versions[vi].Count != nil) != (g.Versions[0].Count != nil) {
				return errors.NewSnapshotValidationError(
					fmt.Sprintf("groups[%d].versions[%d]", gi, vi),
					"mixes percentages and counts within one group",
				)
			}
		}

		for si := 1; si < len(g.Samples); si++ {
			if g.Samples[si].Before(g.Samples[si-1]) {
				return errors.NewSnapshotValidationError(
					fmt.Sprintf("groups[%d].samples[%d]", gi, si),
					"must not precede the previous sample",
				)
			}
		}
	}

	return nil
}

// fromValidator converts the first validator failure into a snapshot ValidationError.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewSnapshotValidationError("", err.Error())
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		// drop the root type name
		field = field[i+1:]
	}

	return errors.NewSnapshotValidationError(field, describeTag(fe))
}

// describeTag renders a validator failure in plain words.
func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case tagShareKind:
		return "exactly one of percentage and count must be set"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
