package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/types"
)

func TestConfigAssignIsRejected(t *testing.T) {
	cfg, err := Construct(named("model_a"))
	require.NoError(t, err)
	before := cfg

	for _, path := range []string{"model.name", "features.max_features", "preprocessing"} {
		err := cfg.Assign(path, "other")
		require.Error(t, err)

		var ierr *errors.ImmutabilityError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, path, ierr.Path)
		assert.Equal(t, "Config", ierr.Schema)

		var verr *errors.ValidationErrors
		assert.False(t, errors.As(err, &verr), "immutability is not a validation failure")
	}
	assert.Equal(t, before, cfg)
	assert.Equal(t, "model_a", cfg.Model().Name())
}

func TestConfigEqual(t *testing.T) {
	a, err := Construct(named("m"))
	require.NoError(t, err)
	b, err := Build("m")
	require.NoError(t, err)
	c, err := Build("m", WithRandomState(1))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, a == b)
	assert.False(t, a.Equal(c))
}

func TestConfigParams(t *testing.T) {
	cfg, err := Construct(named("model_a"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"preprocessing.impute_strategy":  "mean",
		"preprocessing.scaling_method":   "standard",
		"preprocessing.outlier.remove":   "false",
		"preprocessing.outlier.method":   "iqr",
		"features.max_features":          "5",
		"features.selection_method":      "f_classif",
		"features.correlation_threshold": "0.75",
		"model.name":                     "model_a",
		"model.model_type":               "sklearn",
		"model.random_state":             "0",
	}, cfg.Params())

	unbounded, err := Build("model_a", WithUnboundedFeatures())
	require.NoError(t, err)
	assert.Equal(t, "none", unbounded.Params()["features.max_features"])
}

func TestConfigToMap(t *testing.T) {
	cfg, err := Build("m", WithUnboundedFeatures(), WithOutlierRemoval(true))
	require.NoError(t, err)

	m := cfg.ToMap()
	features := m["features"].(map[string]any)
	assert.Nil(t, features["max_features"])
	assert.Contains(t, features, "max_features")
	assert.Equal(t, "f_classif", features["selection_method"])

	outlier := m["preprocessing"].(map[string]any)["outlier"].(map[string]any)
	assert.Equal(t, true, outlier["remove"])

	back, err := Construct(m)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestConfigJSON(t *testing.T) {
	cfg, err := Build("fraud-xgb",
		WithModelType(types.ModelXGBoost),
		WithSelectionMethod(types.SelectionMutualInfo),
		WithCorrelationThreshold(0.8),
		WithRandomState(2024),
	)
	require.NoError(t, err)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"model_type":"xgboost"`)
	assert.Contains(t, string(data), `"random_state":2024`)

	back, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, cfg.Equal(back))
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON([]byte("  \n"))
	assert.True(t, errors.Is(err, errors.ErrEmptyDocument))

	_, err = ParseJSON([]byte(`["model"]`))
	require.Error(t, err)
	var verr *errors.ValidationErrors
	assert.False(t, errors.As(err, &verr))

	for _, doc := range []string{`{"model": {"name": "a"}} trailing`, `{"model": {"name": "a"}} {}`} {
		_, err = ParseJSON([]byte(doc))
		assert.True(t, errors.Is(err, errors.ErrTrailingData), "document %q", doc)
	}

	_, err = ParseFeatureSelectionJSON([]byte(`{"selected_features": []} []`))
	assert.True(t, errors.Is(err, errors.ErrTrailingData))

	_, err = ParseJSON([]byte(`{"model": {"name": "m", "random_state": 1.5}}`))
	assert.True(t, validationErrors(t, err).Has("model.random_state", errors.KindTypeMismatch))

	cfg, err := ParseJSON([]byte(`{"model": {"name": "m", "random_state": 9007199254740993}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), cfg.Model().RandomState(), "integers keep full precision")
}

func TestConfigOverride(t *testing.T) {
	cfg, err := Build("m", WithRandomState(1))
	require.NoError(t, err)
	before := cfg

	changed, err := cfg.Override("model.random_state", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), changed.Model().RandomState())
	assert.Equal(t, "m", changed.Model().Name())
	assert.Equal(t, before, cfg)

	changed, err = cfg.Override("preprocessing.outlier.method", "zscore")
	require.NoError(t, err)
	assert.Equal(t, types.OutlierZScore, changed.Preprocessing().Outlier().Method())

	changed, err = cfg.Override("features", map[string]any{"max_features": nil})
	require.NoError(t, err)
	_, bounded := changed.Features().MaxFeatures()
	assert.False(t, bounded)
	assert.Equal(t, DefaultCorrelation, changed.Features().CorrelationThreshold())

	_, err = cfg.Override("model.name", "")
	assert.True(t, validationErrors(t, err).Has("model.name", errors.KindConstraintViolation))

	_, err = cfg.Override("model.colour", "blue")
	assert.True(t, validationErrors(t, err).Has("model.colour", errors.KindUnknownField))

	_, err = cfg.Override("model.random_state", int64(1)<<40, WithRandomStateBound(1<<31-1))
	assert.True(t, validationErrors(t, err).Has("model.random_state", errors.KindConstraintViolation))

	assert.Equal(t, before, cfg)
}

func TestBuild(t *testing.T) {
	cfg, err := Build("fraud-lgbm",
		WithImputeStrategy(types.ImputeConstant),
		WithScalingMethod(types.ScalingMaxAbs),
		WithOutlierRemoval(true),
		WithOutlierMethod(types.OutlierZScore),
		WithMaxFeatures(12),
		WithSelectionMethod(types.SelectionLasso),
		WithCorrelationThreshold(0.95),
		WithModelType(types.ModelLightGBM),
		WithRandomState(5),
	)
	require.NoError(t, err)

	assert.Equal(t, types.ImputeConstant, cfg.Preprocessing().ImputeStrategy())
	assert.Equal(t, types.ScalingMaxAbs, cfg.Preprocessing().ScalingMethod())
	assert.True(t, cfg.Preprocessing().Outlier().Remove())
	assert.Equal(t, types.OutlierZScore, cfg.Preprocessing().Outlier().Method())
	n, _ := cfg.Features().MaxFeatures()
	assert.Equal(t, int64(12), n)
	assert.Equal(t, types.SelectionLasso, cfg.Features().SelectionMethod())
	assert.Equal(t, 0.95, cfg.Features().CorrelationThreshold())
	assert.Equal(t, types.ModelLightGBM, cfg.Model().ModelType())
	assert.Equal(t, int64(5), cfg.Model().RandomState())

	_, err = Build("m", WithMaxFeatures(0), WithCorrelationThreshold(2))
	verr := validationErrors(t, err)
	assert.Equal(t, []string{"features.correlation_threshold", "features.max_features"}, verr.Paths())

	_, err = Build("")
	assert.True(t, validationErrors(t, err).Has("model.name", errors.KindConstraintViolation))

	_, err = BuildWith("m", []Setting{WithRandomState(100)}, []Option{WithRandomStateBound(10)})
	assert.True(t, validationErrors(t, err).Has("model.random_state", errors.KindConstraintViolation))
}

func TestLint(t *testing.T) {
	cfg, err := Build("m")
	require.NoError(t, err)
	assert.Empty(t, Lint(cfg))

	cfg, err = Build("m", WithOutlierMethod(types.OutlierZScore), WithRandomState(1<<32))
	require.NoError(t, err)
	warnings := Lint(cfg)
	require.Len(t, warnings, 2)

	var w *errors.ConfigWarning
	require.True(t, errors.As(warnings[0], &w))
	assert.Equal(t, "preprocessing.outlier.method", w.Path)
	require.True(t, errors.As(warnings[1], &w))
	assert.Equal(t, "model.random_state", w.Path)

	cfg, err = Build("m", WithOutlierRemoval(true), WithOutlierMethod(types.OutlierZScore))
	require.NoError(t, err)
	assert.Empty(t, Lint(cfg))
}

func TestBuildRecoversPanickingSetting(t *testing.T) {
	broken := Setting(func(map[string]any) { panic("bad setting") })

	cfg, err := Build("m", broken)
	var perr *errors.PanicError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "schema.Build", perr.Operation)
	assert.Equal(t, Config{}, cfg)
}
