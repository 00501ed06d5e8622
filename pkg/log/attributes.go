// Package log defines standard attribute keys for configuration handling.
//
// Using these keys keeps the records of the loader, the CLI and any training
// driver that logs a Config consistent and filterable. They follow a
// hierarchical naming convention (e.g. "config.path", "model.name").

package log

// Configuration source
// These attributes identify where a configuration came from.
const (
	// ConfigPathKey is the file a configuration was read from.
	ConfigPathKey = "config.path"

	// ConfigFormatKey is the document format: "yaml" or "json".
	ConfigFormatKey = "config.format"

	// ConfigSchemaKey names the record being built: "Config" or "FeatureSelection".
	ConfigSchemaKey = "config.schema"

	// EnvOverridesKey counts the fields replaced from CCFRAUD_* variables.
	EnvOverridesKey = "config.env_overrides"

	// EnvVarKey is the environment variable that supplied a value.
	EnvVarKey = "config.env_var"

	// FieldPathKey is the dotted path of a single configuration field.
	FieldPathKey = "config.field"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Validation outcome
const (
	// ValidationCountKey is the number of field errors in a rejected input.
	ValidationCountKey = "validation.count"

	// ValidationFieldsKey groups the failing paths and their reasons.
	ValidationFieldsKey = "validation.fields"

	// WarningCountKey is the number of lint warnings for an accepted input.
	WarningCountKey = "validation.warnings"
)

// Model and feature selection
const (
	// ModelNameKey is the model reference name, also the tracking run name.
	ModelNameKey = "model.name"

	// ModelTypeKey is the model family: "sklearn", "xgboost" or "lightgbm".
	ModelTypeKey = "model.type"

	// SelectionMethodKey is the feature selection method.
	SelectionMethodKey = "features.selection_method"

	// SelectedCountKey and DroppedCountKey count a FeatureSelection's lists.
	SelectedCountKey = "features.selected"
	DroppedCountKey  = "features.dropped"
)

// Experiment tracking
const (
	ExperimentKey  = "mlflow.experiment"
	TrackingURIKey = "mlflow.tracking_uri"
	DatasetIDKey   = "openml.dataset_id"
)

// Component and operation context
const (
	// ComponentKey identifies which package is logging.
	// Examples: "configfile", "cli"
	ComponentKey = "ccfraud.component"

	// OperationKey specifies the operation being performed.
	OperationKey = "ccfraud.operation"
)

// Standard attribute values.
const (
	OperationLoad     = "load"
	OperationValidate = "validate"
	OperationDefaults = "defaults"
	OperationOverride = "override"
)
