package schema

import (
	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/types"
)

// Setting sets one field of the mapping that Build passes to Construct.
type Setting func(fields map[string]any)

func section(fields map[string]any, keys ...string) map[string]any {
	m := fields
	for _, k := range keys {
		child, ok := m[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[k] = child
		}
		m = child
	}
	return m
}

// WithImputeStrategy sets preprocessing.impute_strategy.
func WithImputeStrategy(s types.ImputeStrategy) Setting {
	return func(f map[string]any) { section(f, keyPreprocessing)[keyImputeStrategy] = s }
}

// WithScalingMethod sets preprocessing.scaling_method.
func WithScalingMethod(s types.ScalingMethod) Setting {
	return func(f map[string]any) { section(f, keyPreprocessing)[keyScalingMethod] = s }
}

// WithOutlierRemoval sets preprocessing.outlier.remove.
func WithOutlierRemoval(remove bool) Setting {
	return func(f map[string]any) { section(f, keyPreprocessing, keyOutlier)[keyOutlierRemove] = remove }
}

// WithOutlierMethod sets preprocessing.outlier.method.
func WithOutlierMethod(m types.OutlierFindMethod) Setting {
	return func(f map[string]any) { section(f, keyPreprocessing, keyOutlier)[keyOutlierMethod] = m }
}

// WithMaxFeatures sets features.max_features.
func WithMaxFeatures(n int64) Setting {
	return func(f map[string]any) { section(f, keyFeatures)[keyMaxFeatures] = n }
}

// WithUnboundedFeatures sets features.max_features to null.
func WithUnboundedFeatures() Setting {
	return func(f map[string]any) { section(f, keyFeatures)[keyMaxFeatures] = nil }
}

// WithSelectionMethod sets features.selection_method.
func WithSelectionMethod(m types.FeatureSelectionMethod) Setting {
	return func(f map[string]any) { section(f, keyFeatures)[keySelectionMethod] = m }
}

// WithCorrelationThreshold sets features.correlation_threshold.
func WithCorrelationThreshold(t float64) Setting {
	return func(f map[string]any) { section(f, keyFeatures)[keyCorrelationThreshold] = t }
}

// WithModelType sets model.model_type.
func WithModelType(t types.ModelType) Setting {
	return func(f map[string]any) { section(f, keyModel)[keyModelType] = t }
}

// WithRandomState sets model.random_state.
func WithRandomState(seed int64) Setting {
	return func(f map[string]any) { section(f, keyModel)[keyRandomState] = seed }
}

// Build constructs a Config named name from typed settings. Fields not set
// take their defaults. Settings are validated exactly as Construct input, so
// for example WithMaxFeatures(0) still fails.
//
//	cfg, err := schema.Build("fraud-lgbm",
//		schema.WithModelType(types.ModelLightGBM),
//		schema.WithRandomState(42),
//	)
func Build(name string, settings ...Setting) (Config, error) {
	return BuildWith(name, settings, nil)
}

// BuildWith is Build with construction options. A panicking Setting is
// returned as an *errors.PanicError.
func BuildWith(name string, settings []Setting, opts []Option) (cfg Config, err error) {
	defer errors.Recover(&err, "schema.Build")

	fields := map[string]any{}
	for _, s := range settings {
		s(fields)
	}
	section(fields, keyModel)[keyName] = name
	return Construct(fields, opts...)
}
