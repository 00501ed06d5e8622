// Package configfile loads pipeline configurations from YAML or JSON files and
// applies CCFRAUD_* environment overrides before validation.
//
// A document has the same nested shape that schema.Construct accepts:
//
//	preprocessing:
//	  scaling_method: minmax
//	  outlier:
//	    remove: true
//	features:
//	  max_features: null
//	model:
//	  name: fraud-lgbm
//	  model_type: lightgbm
//
// Every leaf path can be overridden from the environment. The variable name is
// the prefix followed by the upper-cased path with dots replaced by
// underscores, e.g. CCFRAUD_MODEL_RANDOM_STATE. Values are read as YAML
// scalars, so "42", "true" and "null" keep their types.
package configfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/pkg/log"
	"github.com/YuminosukeSato/ccfraud/schema"
)

// DefaultEnvPrefix is the prefix of override variables.
const DefaultEnvPrefix = "CCFRAUD"

// Format is a configuration document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedFormat, "%q", filepath.Ext(path))
}

// stringPaths are fields whose override value is used verbatim instead of
// being decoded as a YAML scalar.
var stringPaths = map[string]bool{"model.name": true}

// Loader reads and validates configuration documents.
type Loader struct {
	logger    log.Logger
	envPrefix string
	useEnv    bool
	opts      []schema.Option
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default is log.GetLoggerWithName("configfile").
func WithLogger(l log.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithEnvPrefix changes the override variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(ld *Loader) { ld.envPrefix = prefix }
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(ld *Loader) { ld.useEnv = false }
}

// WithSchemaOptions passes construction options through to schema.Construct.
func WithSchemaOptions(opts ...schema.Option) Option {
	return func(ld *Loader) { ld.opts = append(ld.opts, opts...) }
}

// NewLoader returns a Loader with environment overrides enabled.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{envPrefix: DefaultEnvPrefix, useEnv: true}
	for _, opt := range opts {
		opt(ld)
	}
	if ld.logger == nil {
		ld.logger = log.GetLoggerWithName("configfile")
	}
	return ld
}

// Load reads the file at path; see Loader.Load.
func Load(path string, opts ...Option) (schema.Config, error) {
	return NewLoader(opts...).Load(path)
}

// Parse validates an in-memory document; see Loader.Parse.
func Parse(data []byte, format Format, opts ...Option) (schema.Config, error) {
	return NewLoader(opts...).Parse(data, format)
}

// Load reads, overrides and validates the configuration file at path.
func (ld *Loader) Load(path string) (schema.Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return schema.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Config{}, errors.Wrapf(err, "reading %s", path)
	}
	logger := ld.logger.With(log.ConfigPathKey, path)
	cfg, err := ld.parse(logger, data, format)
	if err != nil {
		return schema.Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Parse decodes data, applies environment overrides, constructs the Config
// and reports lint warnings through errors.Warn.
func (ld *Loader) Parse(data []byte, format Format) (schema.Config, error) {
	return ld.parse(ld.logger, data, format)
}

func (ld *Loader) parse(logger log.Logger, data []byte, format Format) (cfg schema.Config, err error) {
	defer errors.Recover(&err, "configfile.Parse")
	logger = logger.With(log.ConfigFormatKey, string(format), log.OperationKey, log.OperationLoad)

	fields, err := decode(data, format)
	if err != nil {
		logger.Error("config unreadable", err)
		return schema.Config{}, err
	}

	overrides := 0
	if ld.useEnv {
		if overrides, err = ld.applyEnv(logger, fields); err != nil {
			return schema.Config{}, err
		}
	}

	cfg, err = schema.Construct(fields, ld.opts...)
	if err != nil {
		logger.Error("config rejected", err, log.EnvOverridesKey, overrides)
		return schema.Config{}, err
	}

	warnings := schema.Lint(cfg)
	for _, w := range warnings {
		errors.Warn(w)
	}
	logger.Info("config loaded",
		log.ModelNameKey, cfg.Model().Name(),
		log.ModelTypeKey, string(cfg.Model().ModelType()),
		log.RandomSeedKey, cfg.Model().RandomState(),
		log.EnvOverridesKey, overrides,
		log.WarningCountKey, len(warnings),
	)
	return cfg, nil
}

// LoadFeatureSelection reads a saved feature selection result. Environment
// overrides do not apply.
func (ld *Loader) LoadFeatureSelection(path string) (schema.FeatureSelection, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return schema.FeatureSelection{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.FeatureSelection{}, errors.Wrapf(err, "reading %s", path)
	}
	fields, err := decode(data, format)
	if err != nil {
		return schema.FeatureSelection{}, errors.Wrapf(err, "loading %s", path)
	}
	fs, err := schema.ConstructFeatureSelection(fields, ld.opts...)
	if err != nil {
		ld.logger.Error("feature selection rejected", err, log.ConfigPathKey, path)
		return schema.FeatureSelection{}, errors.Wrapf(err, "loading %s", path)
	}
	ld.logger.Debug("feature selection loaded",
		log.ConfigPathKey, path,
		log.SelectedCountKey, len(fs.SelectedFeatures()),
		log.DroppedCountKey, len(fs.DroppedFeatures()),
	)
	return fs, nil
}

// decode parses a document into a mapping. An empty document is an error; a
// document that is explicitly null yields an empty mapping.
func decode(data []byte, format Format) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ErrEmptyDocument
	}
	fields := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, errors.Wrap(err, "decoding YAML")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, errors.Wrap(err, "decoding JSON")
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return nil, errors.Wrap(errors.ErrTrailingData, "decoding JSON")
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "%q", string(format))
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// EnvVar returns the override variable for a dotted path.
func EnvVar(prefix, path string) string {
	return strings.ToUpper(prefix + "_" + strings.ReplaceAll(path, ".", "_"))
}

// applyEnv writes every set override variable into fields and returns how
// many were applied.
func (ld *Loader) applyEnv(logger log.Logger, fields map[string]any) (int, error) {
	v := viper.New()
	v.SetEnvPrefix(ld.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applied := 0
	for _, path := range schema.Paths() {
		if err := v.BindEnv(path); err != nil {
			return applied, errors.Wrapf(err, "binding %s", path)
		}
		if !v.IsSet(path) {
			continue
		}
		raw := v.GetString(path)
		value, err := scalar(path, raw)
		if err != nil {
			return applied, errors.Wrapf(err, "decoding %s", EnvVar(ld.envPrefix, path))
		}
		setPath(fields, path, value)
		applied++
		logger.Debug("config field overridden from environment",
			log.FieldPathKey, path,
			log.EnvVarKey, EnvVar(ld.envPrefix, path),
		)
	}
	return applied, nil
}

func scalar(path, raw string) (any, error) {
	if stringPaths[path] {
		return raw, nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// setPath stores value at a dotted path, creating missing sections. A
// section that exists but is not a mapping is left alone so that
// construction reports it.
func setPath(fields map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	m := fields
	for _, p := range parts[:len(parts)-1] {
		switch child := m[p].(type) {
		case map[string]any:
			m = child
		case nil:
			if _, present := m[p]; present {
				return
			}
			next := map[string]any{}
			m[p] = next
			m = next
		default:
			return
		}
	}
	m[parts[len(parts)-1]] = value
}
