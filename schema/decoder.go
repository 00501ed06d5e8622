package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/types"
)

// decoder walks a raw mapping field by field and collects every violation
// instead of stopping at the first one.
type decoder struct {
	opts options
	errs []*errors.FieldError
}

func newDecoder(opts []Option) *decoder {
	d := &decoder{}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// err returns the aggregated failure, or nil when nothing was recorded.
func (d *decoder) err(schema string) error {
	if len(d.errs) == 0 {
		return nil
	}
	return errors.NewValidationErrors(schema, d.errs)
}

func (d *decoder) fail(path string, kind errors.Kind, reason string, value any) {
	d.errs = append(d.errs, errors.NewFieldError(path, kind, reason, value))
}

// reject records a constraint or vocabulary error returned by the types package.
func (d *decoder) reject(path string, err error, value any) {
	kind := errors.KindConstraintViolation
	var uerr *errors.UnrecognizedValueError
	if errors.As(err, &uerr) {
		kind = errors.KindUnrecognizedEnum
	}
	d.fail(path, kind, err.Error(), value)
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// unknown reports keys of m that the schema does not declare. Keys are
// visited in sorted order so the error list is deterministic.
func (d *decoder) unknown(m map[string]any, prefix string, known []string) {
	if !d.opts.disallowUnknown || len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !contains(known, k) {
			d.fail(join(prefix, k), errors.KindUnknownField, "extra fields not permitted", m[k])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// section resolves the nested mapping stored under key. An absent key yields
// a nil map so every child falls back to its default. ok is false when the
// value is present but not a mapping; the error is already recorded and the
// children must not be visited.
func (d *decoder) section(parent map[string]any, key, path string, typed func(any) (map[string]any, bool)) (m map[string]any, ok bool) {
	raw, present := parent[key]
	if !present {
		return nil, true
	}
	if typed != nil {
		if tm, isTyped := typed(raw); isTyped {
			return tm, true
		}
	}
	if m, isMap := asMapping(raw); isMap {
		return m, true
	}
	d.fail(path, errors.KindTypeMismatch, "expected a mapping", raw)
	return nil, false
}

func asMapping(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, v != nil
	case map[any]any:
		if v == nil {
			return nil, false
		}
		out := make(map[string]any, len(v))
		for k, val := range v {
			ks, isStr := k.(string)
			if !isStr {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// boolean accepts only a real bool; 0/1 and "true"/"false" are type errors.
func (d *decoder) boolean(m map[string]any, key, prefix string, def bool) bool {
	raw, present := m[key]
	if !present {
		return def
	}
	b, isBool := raw.(bool)
	if !isBool {
		d.fail(join(prefix, key), errors.KindTypeMismatch, "expected a boolean", raw)
		return def
	}
	return b
}

// requiredString accepts only a Go string of length >= 1.
func (d *decoder) requiredString(m map[string]any, key, prefix string) string {
	path := join(prefix, key)
	raw, present := m[key]
	if !present {
		d.fail(path, errors.KindMissingRequired, "field required", nil)
		return ""
	}
	s, isStr := raw.(string)
	if !isStr {
		d.fail(path, errors.KindTypeMismatch, "expected a string", raw)
		return ""
	}
	if err := types.CheckNonEmpty(s); err != nil {
		d.reject(path, err, s)
	}
	return s
}

// integer decodes an integer field and runs checks in order, stopping at the
// first failing one.
func (d *decoder) integer(m map[string]any, key, prefix string, def int64, checks ...func(int64) error) int64 {
	raw, present := m[key]
	if !present {
		return def
	}
	return d.coerceInt(join(prefix, key), raw, checks)
}

// optionalInteger is integer for fields where an explicit null means "no value".
func (d *decoder) optionalInteger(m map[string]any, key, prefix string, def int64, checks ...func(int64) error) (int64, bool) {
	raw, present := m[key]
	if !present {
		return def, true
	}
	if raw == nil {
		return 0, false
	}
	return d.coerceInt(join(prefix, key), raw, checks), true
}

func (d *decoder) coerceInt(path string, raw any, checks []func(int64) error) int64 {
	n, ok := toInt64(raw)
	if !ok {
		reason := "expected an integer"
		if uintOverflow(raw) {
			reason = "out of int64 range"
		}
		d.fail(path, errors.KindTypeMismatch, reason, raw)
		return 0
	}
	for _, check := range checks {
		if err := check(n); err != nil {
			d.reject(path, err, n)
			break
		}
	}
	return n
}

func (d *decoder) float(m map[string]any, key, prefix string, def float64, check func(float64) error) float64 {
	raw, present := m[key]
	if !present {
		return def
	}
	path := join(prefix, key)
	f, ok := toFloat64(raw)
	if !ok {
		d.fail(path, errors.KindTypeMismatch, "expected a number", raw)
		return 0
	}
	if err := check(f); err != nil {
		d.reject(path, err, f)
	}
	return f
}

// enum decodes a vocabulary field. The input must be a string (or a value of
// the vocabulary type itself) that exactly matches a member.
func enum[T ~string](d *decoder, m map[string]any, key, prefix string, def T, parse func(string) (T, error)) T {
	raw, present := m[key]
	if !present {
		return def
	}
	path := join(prefix, key)
	var s string
	switch v := raw.(type) {
	case T:
		s = string(v)
	case string:
		s = v
	default:
		d.fail(path, errors.KindTypeMismatch, "expected a string", raw)
		return def
	}
	member, err := parse(s)
	if err != nil {
		d.reject(path, err, s)
		return def
	}
	return member
}

// featureList decodes a list of non-empty strings. Absent means empty;
// an explicit null is a type error. Element errors are reported at
// "<path>.<index>".
func (d *decoder) featureList(m map[string]any, key, prefix string) []string {
	raw, present := m[key]
	if !present {
		return []string{}
	}
	path := join(prefix, key)

	var items []any
	switch v := raw.(type) {
	case []string:
		if v == nil {
			d.fail(path, errors.KindTypeMismatch, "expected a list of strings", nil)
			return nil
		}
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case types.FeatureList:
		if v == nil {
			d.fail(path, errors.KindTypeMismatch, "expected a list of strings", nil)
			return nil
		}
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case []any:
		if v == nil {
			d.fail(path, errors.KindTypeMismatch, "expected a list of strings", nil)
			return nil
		}
		items = v
	default:
		d.fail(path, errors.KindTypeMismatch, "expected a list of strings", raw)
		return nil
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		elemPath := fmt.Sprintf("%s.%d", path, i)
		s, isStr := item.(string)
		if !isStr {
			d.fail(elemPath, errors.KindTypeMismatch, "expected a string", item)
			continue
		}
		if err := types.CheckNonEmpty(s); err != nil {
			d.reject(elemPath, err, s)
			continue
		}
		out = append(out, s)
	}
	return out
}

// toInt64 performs lax integer coercion: integer kinds, integral floats,
// json.Number and base-10 strings. Booleans are never integers.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case float32:
		return integral(float64(v))
	case float64:
		return integral(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if uintOverflow(v) {
			return 0, false
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func uintOverflow(raw any) bool {
	switch v := raw.(type) {
	case uint:
		return uint64(v) > math.MaxInt64
	case uint64:
		return v > math.MaxInt64
	}
	return false
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// toFloat64 performs lax float coercion over numeric kinds, json.Number and
// numeric strings.
func toFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		return f, err == nil
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
	return 0, false
}
