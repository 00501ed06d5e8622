package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// ToMap returns the canonical mapping of o. Construct accepts it back.
func (o OutlierConfig) ToMap() map[string]any {
	return map[string]any{
		keyOutlierRemove: o.remove,
		keyOutlierMethod: string(o.method),
	}
}

// ToMap returns the canonical mapping of p.
func (p PreprocessingConfig) ToMap() map[string]any {
	return map[string]any{
		keyImputeStrategy: string(p.imputeStrategy),
		keyScalingMethod:  string(p.scalingMethod),
		keyOutlier:        p.outlier.ToMap(),
	}
}

// ToMap returns the canonical mapping of f. An unbounded max_features is nil.
func (f FeatureConfig) ToMap() map[string]any {
	var maxFeatures any
	if f.bounded {
		maxFeatures = f.maxFeatures
	}
	return map[string]any{
		keyMaxFeatures:          maxFeatures,
		keySelectionMethod:      string(f.selectionMethod),
		keyCorrelationThreshold: f.correlationThreshold,
	}
}

// ToMap returns the canonical mapping of m.
func (m ModelConfig) ToMap() map[string]any {
	return map[string]any{
		keyName:        m.name,
		keyModelType:   string(m.modelType),
		keyRandomState: m.randomState,
	}
}

// ToMap returns the canonical nested mapping of c. For every valid c,
// Construct(c.ToMap()) returns a value equal to c.
func (c Config) ToMap() map[string]any {
	return map[string]any{
		keyPreprocessing: c.preprocessing.ToMap(),
		keyFeatures:      c.features.ToMap(),
		keyModel:         c.model.ToMap(),
	}
}

// Params flattens c into dotted-path string parameters, the form logged to
// the experiment tracker. An unbounded max_features is rendered as "none".
func (c Config) Params() map[string]string {
	params := make(map[string]string, len(Paths()))
	flatten("", c.ToMap(), params)
	return params
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		path := join(prefix, k)
		switch val := v.(type) {
		case map[string]any:
			flatten(path, val, out)
		case nil:
			out[path] = "none"
		case bool:
			out[path] = strconv.FormatBool(val)
		case int64:
			out[path] = strconv.FormatInt(val, 10)
		case float64:
			out[path] = strconv.FormatFloat(val, 'g', -1, 64)
		case string:
			out[path] = val
		case []string:
			out[path] = strings.Join(val, ",")
		}
	}
}

// MarshalJSON encodes c as its canonical mapping.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// ParseJSON decodes a JSON object and constructs a Config from it. Numbers are
// decoded as json.Number so integer fields keep their exact value.
func ParseJSON(data []byte, opts ...Option) (Config, error) {
	fields, err := decodeJSONObject(data)
	if err != nil {
		return Config{}, err
	}
	return Construct(fields, opts...)
}

func decodeJSONObject(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ErrEmptyDocument
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, errors.Wrap(err, "decoding JSON")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.Wrap(errors.ErrTrailingData, "decoding JSON")
	}
	return fields, nil
}

// Override returns a new Config equal to c except for the field at path,
// which is set to value and validated like any other input. path may name a
// leaf (for example "model.random_state") or a whole section ("features").
// c itself is never modified.
func (c Config) Override(path string, value any, opts ...Option) (Config, error) {
	if !isConfigPath(path) {
		return Config{}, errors.NewValidationErrors(schemaConfig, []*errors.FieldError{
			errors.NewFieldError(path, errors.KindUnknownField, "no such field", value),
		})
	}
	fields := c.ToMap()
	parts := strings.Split(path, ".")
	m := fields
	for _, p := range parts[:len(parts)-1] {
		m = m[p].(map[string]any)
	}
	m[parts[len(parts)-1]] = value
	return Construct(fields, opts...)
}

func isConfigPath(path string) bool {
	if contains(configKeys, path) || path == join(keyPreprocessing, keyOutlier) {
		return true
	}
	return contains(Paths(), path)
}
