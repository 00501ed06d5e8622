package schema

import (
	"github.com/YuminosukeSato/ccfraud/types"
)

const (
	schemaConfig           = "Config"
	schemaFeatureSelection = "FeatureSelection"
)

// Field names, exactly as they appear in configuration files.
const (
	keyPreprocessing        = "preprocessing"
	keyImputeStrategy       = "impute_strategy"
	keyScalingMethod        = "scaling_method"
	keyOutlier              = "outlier"
	keyOutlierRemove        = "remove"
	keyOutlierMethod        = "method"
	keyFeatures             = "features"
	keyMaxFeatures          = "max_features"
	keySelectionMethod      = "selection_method"
	keyCorrelationThreshold = "correlation_threshold"
	keyModel                = "model"
	keyName                 = "name"
	keyModelType            = "model_type"
	keyRandomState          = "random_state"
	keySelectedFeatures     = "selected_features"
	keyDroppedFeatures      = "dropped_features"
)

var (
	configKeys        = []string{keyPreprocessing, keyFeatures, keyModel}
	preprocessingKeys = []string{keyImputeStrategy, keyScalingMethod, keyOutlier}
	outlierKeys       = []string{keyOutlierRemove, keyOutlierMethod}
	featureKeys       = []string{keyMaxFeatures, keySelectionMethod, keyCorrelationThreshold}
	modelKeys         = []string{keyName, keyModelType, keyRandomState}
	selectionKeys     = []string{keySelectedFeatures, keyDroppedFeatures}
)

// Option adjusts how Construct validates its input.
type Option func(*options)

type options struct {
	randomStateBound int64
	bounded          bool
	disallowUnknown  bool
}

// WithRandomStateBound rejects model.random_state values above max. Without
// it only non-negativity is enforced.
func WithRandomStateBound(max int64) Option {
	return func(o *options) {
		o.randomStateBound = max
		o.bounded = true
	}
}

// WithDisallowUnknownFields reports keys the schema does not declare instead
// of ignoring them.
func WithDisallowUnknownFields() Option {
	return func(o *options) {
		o.disallowUnknown = true
	}
}

// Construct builds a Config from a nested mapping of field names to values.
//
// Absent fields take their defaults; model.name has none and must be
// supplied. Every field, nested ones included, is checked in declaration
// order and all violations are returned together as a single
// *errors.ValidationErrors. On failure the returned Config is the zero value
// and must not be used.
func Construct(fields map[string]any, opts ...Option) (Config, error) {
	d := newDecoder(opts)
	cfg := d.config(fields)
	if err := d.err(schemaConfig); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Paths lists the dotted path of every leaf field of Config in declaration
// order.
func Paths() []string {
	var paths []string
	for _, k := range []string{keyImputeStrategy, keyScalingMethod} {
		paths = append(paths, join(keyPreprocessing, k))
	}
	for _, k := range outlierKeys {
		paths = append(paths, join(join(keyPreprocessing, keyOutlier), k))
	}
	for _, k := range featureKeys {
		paths = append(paths, join(keyFeatures, k))
	}
	for _, k := range modelKeys {
		paths = append(paths, join(keyModel, k))
	}
	return paths
}

func (d *decoder) config(m map[string]any) Config {
	d.unknown(m, "", configKeys)
	return Config{
		preprocessing: d.preprocessing(m, ""),
		features:      d.features(m, ""),
		model:         d.model(m, ""),
	}
}

func (d *decoder) preprocessing(parent map[string]any, prefix string) PreprocessingConfig {
	path := join(prefix, keyPreprocessing)
	m, ok := d.section(parent, keyPreprocessing, path, func(raw any) (map[string]any, bool) {
		switch v := raw.(type) {
		case PreprocessingConfig:
			return v.ToMap(), true
		case *PreprocessingConfig:
			if v != nil {
				return v.ToMap(), true
			}
		}
		return nil, false
	})
	if !ok {
		return PreprocessingConfig{}
	}
	d.unknown(m, path, preprocessingKeys)
	return PreprocessingConfig{
		imputeStrategy: enum(d, m, keyImputeStrategy, path, DefaultImputeStrategy, types.ParseImputeStrategy),
		scalingMethod:  enum(d, m, keyScalingMethod, path, DefaultScalingMethod, types.ParseScalingMethod),
		outlier:        d.outlier(m, path),
	}
}

func (d *decoder) outlier(parent map[string]any, prefix string) OutlierConfig {
	path := join(prefix, keyOutlier)
	m, ok := d.section(parent, keyOutlier, path, func(raw any) (map[string]any, bool) {
		switch v := raw.(type) {
		case OutlierConfig:
			return v.ToMap(), true
		case *OutlierConfig:
			if v != nil {
				return v.ToMap(), true
			}
		}
		return nil, false
	})
	if !ok {
		return OutlierConfig{}
	}
	d.unknown(m, path, outlierKeys)
	return OutlierConfig{
		remove: d.boolean(m, keyOutlierRemove, path, DefaultOutlierRemove),
		method: enum(d, m, keyOutlierMethod, path, DefaultOutlierMethod, types.ParseOutlierFindMethod),
	}
}

func (d *decoder) features(parent map[string]any, prefix string) FeatureConfig {
	path := join(prefix, keyFeatures)
	m, ok := d.section(parent, keyFeatures, path, func(raw any) (map[string]any, bool) {
		switch v := raw.(type) {
		case FeatureConfig:
			return v.ToMap(), true
		case *FeatureConfig:
			if v != nil {
				return v.ToMap(), true
			}
		}
		return nil, false
	})
	if !ok {
		return FeatureConfig{}
	}
	d.unknown(m, path, featureKeys)
	maxFeatures, bounded := d.optionalInteger(m, keyMaxFeatures, path, DefaultMaxFeatures, types.CheckPositive)
	return FeatureConfig{
		maxFeatures:          maxFeatures,
		bounded:              bounded,
		selectionMethod:      enum(d, m, keySelectionMethod, path, DefaultSelectionMethod, types.ParseFeatureSelectionMethod),
		correlationThreshold: d.float(m, keyCorrelationThreshold, path, DefaultCorrelation, types.UnitInterval.Check),
	}
}

func (d *decoder) model(parent map[string]any, prefix string) ModelConfig {
	path := join(prefix, keyModel)
	m, ok := d.section(parent, keyModel, path, func(raw any) (map[string]any, bool) {
		switch v := raw.(type) {
		case ModelConfig:
			return v.ToMap(), true
		case *ModelConfig:
			if v != nil {
				return v.ToMap(), true
			}
		}
		return nil, false
	})
	if !ok {
		return ModelConfig{}
	}
	d.unknown(m, path, modelKeys)

	checks := []func(int64) error{types.CheckNonNegative}
	if d.opts.bounded {
		bound := d.opts.randomStateBound
		checks = append(checks, func(n int64) error { return types.CheckAtMost(n, bound) })
	}
	return ModelConfig{
		name:        d.requiredString(m, keyName, path),
		modelType:   enum(d, m, keyModelType, path, DefaultModelType, types.ParseModelType),
		randomState: d.integer(m, keyRandomState, path, DefaultRandomState, checks...),
	}
}
