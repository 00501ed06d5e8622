package schema

import (
	"fmt"

	"github.com/YuminosukeSato/ccfraud"
	"github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// Lint reports settings that are valid but probably unintended. It never
// fails; each returned error is a *errors.ConfigWarning.
func Lint(c Config) []error {
	var warnings []error

	outlier := c.preprocessing.outlier
	if !outlier.remove && outlier.method != DefaultOutlierMethod {
		warnings = append(warnings, errors.NewConfigWarning(
			join(join(keyPreprocessing, keyOutlier), keyOutlierMethod),
			fmt.Sprintf("method %q has no effect while outlier removal is disabled", outlier.method),
		))
	}

	if c.model.randomState > ccfraud.MaxRandomState {
		warnings = append(warnings, errors.NewConfigWarning(
			join(keyModel, keyRandomState),
			fmt.Sprintf("%d exceeds %d, the largest seed most estimators accept", c.model.randomState, ccfraud.MaxRandomState),
		))
	}
	return warnings
}
