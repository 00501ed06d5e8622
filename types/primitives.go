package types

import (
	"fmt"
	"math"
	"strconv"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// CheckNonEmpty reports whether s has at least one byte. No trimming is
// applied, so " " is accepted.
func CheckNonEmpty(s string) error {
	if len(s) == 0 {
		return errors.NewConstraintError("must not be empty", s)
	}
	return nil
}

// CheckPositive reports whether n > 0.
func CheckPositive(n int64) error {
	if n <= 0 {
		return errors.NewConstraintError("must be greater than 0", n)
	}
	return nil
}

// CheckNonNegative reports whether n >= 0.
func CheckNonNegative(n int64) error {
	if n < 0 {
		return errors.NewConstraintError("must be greater than or equal to 0", n)
	}
	return nil
}

// CheckAtMost reports whether n <= max.
func CheckAtMost(n, max int64) error {
	if n > max {
		return errors.NewConstraintError(fmt.Sprintf("must be less than or equal to %d", max), n)
	}
	return nil
}

// Bounded is a float constraint with an exclusive lower bound of 0 and an
// inclusive upper bound of Max.
type Bounded struct {
	Max float64
}

// UnitInterval is the (0, 1] constraint used for correlation thresholds.
var UnitInterval = Bounded{Max: 1.0}

// Check validates f against the bound. NaN never satisfies it.
func (b Bounded) Check(f float64) error {
	switch {
	case math.IsNaN(f):
		return errors.NewConstraintError("must be a number", f)
	case f <= 0:
		return errors.NewConstraintError("must be greater than 0", f)
	case f > b.Max:
		return errors.NewConstraintError(
			"must be less than or equal to "+strconv.FormatFloat(b.Max, 'g', -1, 64), f)
	}
	return nil
}

// NonEmptyString is a string of length >= 1.
type NonEmptyString string

// NewNonEmptyString validates s.
func NewNonEmptyString(s string) (NonEmptyString, error) {
	if err := CheckNonEmpty(s); err != nil {
		return "", err
	}
	return NonEmptyString(s), nil
}

func (s NonEmptyString) String() string { return string(s) }

// CheckFeatureNames validates that every element is non-empty. On failure it
// returns the index of the first offending element.
func CheckFeatureNames(names []string) (int, error) {
	for i, n := range names {
		if err := CheckNonEmpty(n); err != nil {
			return i, err
		}
	}
	return -1, nil
}

// FeatureList is a list of feature names, each non-empty. An empty list is
// valid.
type FeatureList []string

// NewFeatureList validates names and returns a copy.
func NewFeatureList(names []string) (FeatureList, error) {
	if i, err := CheckFeatureNames(names); err != nil {
		return nil, errors.Wrapf(err, "feature %d", i)
	}
	out := make(FeatureList, len(names))
	copy(out, names)
	return out, nil
}
