package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/pkg/log"
	"github.com/YuminosukeSato/ccfraud/schema"
	"github.com/YuminosukeSato/ccfraud/types"
)

const lgbmYAML = `
preprocessing:
  impute_strategy: median
  scaling_method: minmax
  outlier:
    remove: true
    method: zscore
features:
  max_features: null
  selection_method: rfe_cv
  correlation_threshold: 0.9
model:
  name: fraud-lgbm
  model_type: lightgbm
  random_state: 42
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	logger := log.NewTestLogger(log.LevelDebug)
	path := writeFile(t, "lgbm.yaml", lgbmYAML)

	cfg, err := Load(path, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, types.ImputeMedian, cfg.Preprocessing().ImputeStrategy())
	assert.Equal(t, types.ScalingMinMax, cfg.Preprocessing().ScalingMethod())
	assert.True(t, cfg.Preprocessing().Outlier().Remove())
	_, bounded := cfg.Features().MaxFeatures()
	assert.False(t, bounded)
	assert.Equal(t, types.SelectionRFECV, cfg.Features().SelectionMethod())
	assert.Equal(t, "fraud-lgbm", cfg.Model().Name())
	assert.Equal(t, int64(42), cfg.Model().RandomState())

	assert.True(t, logger.ContainsMessage("config loaded"))
	assert.True(t, logger.ContainsField(log.ConfigPathKey, path))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "fraud-lgbm"))
	assert.True(t, logger.ContainsField(log.ConfigFormatKey, "yaml"))
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "xgb.json", `{"model": {"name": "fraud-xgb", "model_type": "xgboost", "random_state": 7}}`)

	cfg, err := Load(path, WithLogger(log.NewTestLogger(log.LevelError)))
	require.NoError(t, err)
	assert.Equal(t, types.ModelXGBoost, cfg.Model().ModelType())
	assert.Equal(t, int64(7), cfg.Model().RandomState())
	n, _ := cfg.Features().MaxFeatures()
	assert.Equal(t, int64(schema.DefaultMaxFeatures), n)
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	logger := log.NewTestLogger(log.LevelDebug)
	path := writeFile(t, "bad.yaml", `
preprocessing:
  scaling_method: robust
features:
  correlation_threshold: 1.5
model:
  random_state: -1
`)

	_, err := Load(path, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading "+path)

	var verr *errors.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"features.correlation_threshold",
		"model.name",
		"model.random_state",
		"preprocessing.scaling_method",
	}, verr.Paths())
	assert.True(t, verr.Has("preprocessing.scaling_method", errors.KindUnrecognizedEnum))
	assert.True(t, logger.ContainsMessage("config rejected"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "model = 1"))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "empty.yaml", "  \n"), WithLogger(log.NewTestLogger(log.LevelError)))
	assert.True(t, errors.Is(err, errors.ErrEmptyDocument))

	_, err = Parse([]byte("- a\n- b\n"), FormatYAML, WithLogger(log.NewTestLogger(log.LevelError)))
	require.Error(t, err)
	var verr *errors.ValidationErrors
	assert.False(t, errors.As(err, &verr))

	_, err = Parse([]byte(`{"model": {"name": "m"}} trailing`), FormatJSON, WithLogger(log.NewTestLogger(log.LevelError)))
	assert.True(t, errors.Is(err, errors.ErrTrailingData))

	_, err = Load(writeFile(t, "two.json", `{"model": {"name": "a"}}`+"\n"+`{"model": {"name": "b"}}`), WithoutEnv())
	assert.True(t, errors.Is(err, errors.ErrTrailingData))

	_, err = Parse([]byte(`{}`), Format("toml"))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CCFRAUD_MODEL_NAME", "from-env")
	t.Setenv("CCFRAUD_MODEL_RANDOM_STATE", "2024")
	t.Setenv("CCFRAUD_FEATURES_MAX_FEATURES", "null")
	t.Setenv("CCFRAUD_PREPROCESSING_OUTLIER_REMOVE", "true")

	logger := log.NewTestLogger(log.LevelDebug)
	path := writeFile(t, "base.yaml", "model:\n  name: from-file\n")

	cfg, err := Load(path, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model().Name())
	assert.Equal(t, int64(2024), cfg.Model().RandomState())
	_, bounded := cfg.Features().MaxFeatures()
	assert.False(t, bounded)
	assert.True(t, cfg.Preprocessing().Outlier().Remove())

	assert.True(t, logger.ContainsField(log.EnvOverridesKey, 4.0))
	assert.True(t, logger.ContainsField(log.EnvVarKey, "CCFRAUD_MODEL_RANDOM_STATE"))
}

func TestEnvOverrideValuesAreValidated(t *testing.T) {
	t.Setenv("CCFRAUD_MODEL_NAME", "123")
	t.Setenv("CCFRAUD_MODEL_MODEL_TYPE", "catboost")

	cfg, err := Parse([]byte("{}"), FormatJSON, WithLogger(log.NewTestLogger(log.LevelError)))
	var verr *errors.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"model.model_type"}, verr.Paths(), "a numeric-looking name stays a string")
	assert.Equal(t, schema.Config{}, cfg)
}

func TestEnvOverridesDisabledAndPrefixed(t *testing.T) {
	t.Setenv("CCFRAUD_MODEL_NAME", "from-env")
	t.Setenv("FRAUD_MODEL_NAME", "from-prefixed-env")
	quiet := WithLogger(log.NewTestLogger(log.LevelError))

	cfg, err := Parse([]byte("model: {name: from-file}"), FormatYAML, WithoutEnv(), quiet)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Model().Name())

	cfg, err = Parse([]byte("model: {name: from-file}"), FormatYAML, WithEnvPrefix("FRAUD"), quiet)
	require.NoError(t, err)
	assert.Equal(t, "from-prefixed-env", cfg.Model().Name())
}

func TestEnvOverrideDoesNotReplaceMalformedSection(t *testing.T) {
	t.Setenv("CCFRAUD_MODEL_NAME", "from-env")

	_, err := Parse([]byte("model: fraud\n"), FormatYAML, WithLogger(log.NewTestLogger(log.LevelError)))
	var verr *errors.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("model", errors.KindTypeMismatch))
}

func TestSchemaOptionsPassThrough(t *testing.T) {
	quiet := WithLogger(log.NewTestLogger(log.LevelError))
	doc := []byte("model: {name: m, colour: blue}\n")

	_, err := Parse(doc, FormatYAML, quiet)
	require.NoError(t, err)

	_, err = Parse(doc, FormatYAML, quiet, WithSchemaOptions(schema.WithDisallowUnknownFields()))
	var verr *errors.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("model.colour", errors.KindUnknownField))
}

func TestLintWarningsAreEmitted(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	logger := log.NewTestLogger(log.LevelInfo)
	_, err := Parse([]byte("preprocessing: {outlier: {method: zscore}}\nmodel: {name: m}\n"), FormatYAML, WithLogger(logger))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	var cw *errors.ConfigWarning
	require.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, "preprocessing.outlier.method", cw.Path)
	assert.True(t, logger.ContainsField(log.WarningCountKey, 1.0))
}

func TestLoadFeatureSelection(t *testing.T) {
	ld := NewLoader(WithLogger(log.NewTestLogger(log.LevelError)))

	fs, err := ld.LoadFeatureSelection(writeFile(t, "selection.yaml", "selected_features: [amt, hour]\ndropped_features: []\n"))
	require.NoError(t, err)
	assert.Equal(t, types.FeatureList{"amt", "hour"}, fs.SelectedFeatures())
	assert.Len(t, fs.DroppedFeatures(), 0)

	_, err = ld.LoadFeatureSelection(writeFile(t, "selection.json", `{"selected_features": ["amt", ""]}`))
	var verr *errors.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("selected_features.1", errors.KindConstraintViolation))
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"a.yaml": FormatYAML, "b.YML": FormatYAML, "c.json": FormatJSON} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("config")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	assert.Equal(t, "yaml", string(FormatYAML))
	assert.Equal(t, "json", string(FormatJSON))
	assert.Equal(t, "CCFRAUD_PREPROCESSING_OUTLIER_REMOVE", EnvVar(DefaultEnvPrefix, "preprocessing.outlier.remove"))
}
