// Package types defines the closed vocabularies and constrained primitive
// values shared by the pipeline configuration schemas.
//
// Every vocabulary is a string type whose members are fixed at build time.
// The canonical lowercase representation of a member is the string itself;
// it is what gets serialized, logged and sent to the experiment tracker.
package types

import (
	"github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// vocabulary is the shared lookup table behind every closed enum.
type vocabulary[T ~string] struct {
	name    string
	members []T
}

func (v vocabulary[T]) parse(s string) (T, error) {
	for _, m := range v.members {
		if string(m) == s {
			return m, nil
		}
	}
	var zero T
	return zero, errors.NewUnrecognizedValueError(v.name, s, v.names())
}

func (v vocabulary[T]) contains(t T) bool {
	for _, m := range v.members {
		if m == t {
			return true
		}
	}
	return false
}

func (v vocabulary[T]) values() []T {
	out := make([]T, len(v.members))
	copy(out, v.members)
	return out
}

func (v vocabulary[T]) names() []string {
	out := make([]string, len(v.members))
	for i, m := range v.members {
		out[i] = string(m)
	}
	return out
}

// marshal refuses values outside the vocabulary, which can only exist
// through an explicit conversion.
func (v vocabulary[T]) marshal(t T) ([]byte, error) {
	if !v.contains(t) {
		return nil, errors.NewUnrecognizedValueError(v.name, string(t), v.names())
	}
	return []byte(t), nil
}

func (v vocabulary[T]) unmarshal(dst *T, text []byte) error {
	m, err := v.parse(string(text))
	if err != nil {
		return err
	}
	*dst = m
	return nil
}

// ScalingMethod selects the feature scaler.
type ScalingMethod string

const (
	ScalingStandard ScalingMethod = "standard"
	ScalingMinMax   ScalingMethod = "minmax"
	ScalingMaxAbs   ScalingMethod = "maxabs"
)

var scalingMethods = vocabulary[ScalingMethod]{
	name:    "scaling method",
	members: []ScalingMethod{ScalingStandard, ScalingMinMax, ScalingMaxAbs},
}

// ParseScalingMethod resolves s to a ScalingMethod. Matching is exact.
func ParseScalingMethod(s string) (ScalingMethod, error) { return scalingMethods.parse(s) }

// ScalingMethods returns every member in declaration order.
func ScalingMethods() []ScalingMethod { return scalingMethods.values() }

func (m ScalingMethod) String() string     { return string(m) }
func (m ScalingMethod) IsValid() bool      { return scalingMethods.contains(m) }
func (m ScalingMethod) Vocabulary() string { return scalingMethods.name }

func (m ScalingMethod) MarshalText() ([]byte, error) { return scalingMethods.marshal(m) }
func (m *ScalingMethod) UnmarshalText(text []byte) error {
	return scalingMethods.unmarshal(m, text)
}

// ImputeStrategy selects how missing values are filled.
type ImputeStrategy string

const (
	ImputeMean     ImputeStrategy = "mean"
	ImputeMedian   ImputeStrategy = "median"
	ImputeConstant ImputeStrategy = "constant"
)

var imputeStrategies = vocabulary[ImputeStrategy]{
	name:    "impute strategy",
	members: []ImputeStrategy{ImputeMean, ImputeMedian, ImputeConstant},
}

// ParseImputeStrategy resolves s to an ImputeStrategy. Matching is exact.
func ParseImputeStrategy(s string) (ImputeStrategy, error) { return imputeStrategies.parse(s) }

// ImputeStrategies returns every member in declaration order.
func ImputeStrategies() []ImputeStrategy { return imputeStrategies.values() }

func (s ImputeStrategy) String() string     { return string(s) }
func (s ImputeStrategy) IsValid() bool      { return imputeStrategies.contains(s) }
func (s ImputeStrategy) Vocabulary() string { return imputeStrategies.name }

func (s ImputeStrategy) MarshalText() ([]byte, error) { return imputeStrategies.marshal(s) }
func (s *ImputeStrategy) UnmarshalText(text []byte) error {
	return imputeStrategies.unmarshal(s, text)
}

// OutlierFindMethod selects the outlier detector. It only takes effect when
// outlier removal is enabled.
type OutlierFindMethod string

const (
	OutlierIQR             OutlierFindMethod = "iqr"
	OutlierZScore          OutlierFindMethod = "zscore"
	OutlierIsolationForest OutlierFindMethod = "isolation_forest"
)

var outlierFindMethods = vocabulary[OutlierFindMethod]{
	name:    "outlier find method",
	members: []OutlierFindMethod{OutlierIQR, OutlierZScore, OutlierIsolationForest},
}

// ParseOutlierFindMethod resolves s to an OutlierFindMethod. Matching is exact.
func ParseOutlierFindMethod(s string) (OutlierFindMethod, error) {
	return outlierFindMethods.parse(s)
}

// OutlierFindMethods returns every member in declaration order.
func OutlierFindMethods() []OutlierFindMethod { return outlierFindMethods.values() }

func (m OutlierFindMethod) String() string     { return string(m) }
func (m OutlierFindMethod) IsValid() bool      { return outlierFindMethods.contains(m) }
func (m OutlierFindMethod) Vocabulary() string { return outlierFindMethods.name }

func (m OutlierFindMethod) MarshalText() ([]byte, error) { return outlierFindMethods.marshal(m) }
func (m *OutlierFindMethod) UnmarshalText(text []byte) error {
	return outlierFindMethods.unmarshal(m, text)
}

// FeatureSelectionMethod selects the feature selection algorithm.
type FeatureSelectionMethod string

const (
	SelectionLasso              FeatureSelectionMethod = "lasso"
	SelectionFClassif           FeatureSelectionMethod = "f_classif"
	SelectionMutualInfo         FeatureSelectionMethod = "mutual_info"
	SelectionSequentialForward  FeatureSelectionMethod = "sequential_forward"
	SelectionSequentialBackward FeatureSelectionMethod = "sequential_backward"
	SelectionRFE                FeatureSelectionMethod = "rfe"
	SelectionRFECV              FeatureSelectionMethod = "rfe_cv"
)

var featureSelectionMethods = vocabulary[FeatureSelectionMethod]{
	name: "feature selection method",
	members: []FeatureSelectionMethod{
		SelectionLasso,
		SelectionFClassif,
		SelectionMutualInfo,
		SelectionSequentialForward,
		SelectionSequentialBackward,
		SelectionRFE,
		SelectionRFECV,
	},
}

// ParseFeatureSelectionMethod resolves s to a FeatureSelectionMethod. Matching is exact.
func ParseFeatureSelectionMethod(s string) (FeatureSelectionMethod, error) {
	return featureSelectionMethods.parse(s)
}

// FeatureSelectionMethods returns every member in declaration order.
func FeatureSelectionMethods() []FeatureSelectionMethod { return featureSelectionMethods.values() }

func (m FeatureSelectionMethod) String() string     { return string(m) }
func (m FeatureSelectionMethod) IsValid() bool      { return featureSelectionMethods.contains(m) }
func (m FeatureSelectionMethod) Vocabulary() string { return featureSelectionMethods.name }

func (m FeatureSelectionMethod) MarshalText() ([]byte, error) { return featureSelectionMethods.marshal(m) }
func (m *FeatureSelectionMethod) UnmarshalText(text []byte) error {
	return featureSelectionMethods.unmarshal(m, text)
}

// ModelType selects the model family.
type ModelType string

const (
	ModelSklearn  ModelType = "sklearn"
	ModelXGBoost  ModelType = "xgboost"
	ModelLightGBM ModelType = "lightgbm"
)

var modelTypes = vocabulary[ModelType]{
	name:    "model type",
	members: []ModelType{ModelSklearn, ModelXGBoost, ModelLightGBM},
}

// ParseModelType resolves s to a ModelType. Matching is exact.
func ParseModelType(s string) (ModelType, error) { return modelTypes.parse(s) }

// ModelTypes returns every member in declaration order.
func ModelTypes() []ModelType { return modelTypes.values() }

func (t ModelType) String() string     { return string(t) }
func (t ModelType) IsValid() bool      { return modelTypes.contains(t) }
func (t ModelType) Vocabulary() string { return modelTypes.name }

func (t ModelType) MarshalText() ([]byte, error) { return modelTypes.marshal(t) }
func (t *ModelType) UnmarshalText(text []byte) error {
	return modelTypes.unmarshal(t, text)
}
