// Package schema implements the immutable, validated configuration records of
// the fraud pipeline and the engine that constructs them from raw mappings.
//
// A record is only ever obtained from Construct (or one of the helpers built
// on it: Build, ParseJSON, Override, NewFeatureSelection). Fields are
// unexported and exposed through accessors, so a constructed value cannot be
// modified; two values with the same fields compare equal with ==.
package schema

import (
	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/types"
)

// Defaults applied when a field is absent from the input.
const (
	DefaultImputeStrategy  = types.ImputeMean
	DefaultScalingMethod   = types.ScalingStandard
	DefaultOutlierRemove   = false
	DefaultOutlierMethod   = types.OutlierIQR
	DefaultMaxFeatures     = 5
	DefaultSelectionMethod = types.SelectionFClassif
	DefaultCorrelation     = 0.75
	DefaultModelType       = types.ModelSklearn
	DefaultRandomState     = 0
)

// OutlierConfig controls outlier removal during preprocessing.
type OutlierConfig struct {
	remove bool
	method types.OutlierFindMethod
}

// Remove reports whether outliers are removed from the training data.
func (o OutlierConfig) Remove() bool { return o.remove }

// Method is the detector used when Remove is true.
func (o OutlierConfig) Method() types.OutlierFindMethod { return o.method }

// PreprocessingConfig parametrizes imputation, scaling and outlier handling.
type PreprocessingConfig struct {
	imputeStrategy types.ImputeStrategy
	scalingMethod  types.ScalingMethod
	outlier        OutlierConfig
}

func (p PreprocessingConfig) ImputeStrategy() types.ImputeStrategy { return p.imputeStrategy }
func (p PreprocessingConfig) ScalingMethod() types.ScalingMethod   { return p.scalingMethod }
func (p PreprocessingConfig) Outlier() OutlierConfig               { return p.outlier }

// FeatureConfig parametrizes feature selection.
type FeatureConfig struct {
	maxFeatures          int64
	bounded              bool
	selectionMethod      types.FeatureSelectionMethod
	correlationThreshold float64
}

// MaxFeatures returns the maximum number of features to select. bounded is
// false when the input explicitly set max_features to null, in which case
// no limit applies and n is 0.
func (f FeatureConfig) MaxFeatures() (n int64, bounded bool) {
	return f.maxFeatures, f.bounded
}

func (f FeatureConfig) SelectionMethod() types.FeatureSelectionMethod { return f.selectionMethod }

// CorrelationThreshold is the absolute correlation above which two features
// are considered redundant. Always in (0, 1].
func (f FeatureConfig) CorrelationThreshold() float64 { return f.correlationThreshold }

// ModelConfig identifies and seeds the model.
type ModelConfig struct {
	name        string
	modelType   types.ModelType
	randomState int64
}

// Name is the model reference name, also used as the tracking run name.
func (m ModelConfig) Name() string { return m.name }

func (m ModelConfig) ModelType() types.ModelType { return m.modelType }
func (m ModelConfig) RandomState() int64         { return m.randomState }

// Config is the root pipeline configuration.
type Config struct {
	preprocessing PreprocessingConfig
	features      FeatureConfig
	model         ModelConfig
}

func (c Config) Preprocessing() PreprocessingConfig { return c.preprocessing }
func (c Config) Features() FeatureConfig            { return c.features }
func (c Config) Model() ModelConfig                 { return c.model }

// RunName is the name under which experiment runs for this config are logged.
func (c Config) RunName() string { return c.model.name }

// Equal reports whether every field of c and other is equal.
func (c Config) Equal(other Config) bool { return c == other }

// Assign always fails: a Config is frozen once constructed. Use Override to
// derive a modified copy.
func (c Config) Assign(path string, _ any) error {
	return errors.NewImmutabilityError(schemaConfig, path)
}
