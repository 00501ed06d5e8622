package schema

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/types"
)

// FeatureSelection records which features a selection run kept and which it
// dropped. A name may appear in both lists; Overlap reports such names.
type FeatureSelection struct {
	selected []string
	dropped  []string
}

// NewFeatureSelection builds a FeatureSelection from typed lists. A nil slice
// is treated as an empty list. Both lists are copied.
func NewFeatureSelection(selected, dropped []string) (FeatureSelection, error) {
	fields := map[string]any{
		keySelectedFeatures: nonNil(selected),
		keyDroppedFeatures:  nonNil(dropped),
	}
	return ConstructFeatureSelection(fields)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ConstructFeatureSelection builds a FeatureSelection from a mapping. Absent
// lists default to empty; an explicit null is a type error.
func ConstructFeatureSelection(fields map[string]any, opts ...Option) (FeatureSelection, error) {
	d := newDecoder(opts)
	d.unknown(fields, "", selectionKeys)
	fs := FeatureSelection{
		selected: d.featureList(fields, keySelectedFeatures, ""),
		dropped:  d.featureList(fields, keyDroppedFeatures, ""),
	}
	if err := d.err(schemaFeatureSelection); err != nil {
		return FeatureSelection{}, err
	}
	return fs, nil
}

// SelectedFeatures returns a copy of the kept feature names in order.
func (fs FeatureSelection) SelectedFeatures() types.FeatureList {
	return clone(fs.selected)
}

// DroppedFeatures returns a copy of the dropped feature names in order.
func (fs FeatureSelection) DroppedFeatures() types.FeatureList {
	return clone(fs.dropped)
}

func clone(s []string) types.FeatureList {
	out := make(types.FeatureList, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both lists are element-wise equal, order included.
func (fs FeatureSelection) Equal(other FeatureSelection) bool {
	return equalStrings(fs.selected, other.selected) && equalStrings(fs.dropped, other.dropped)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Overlap returns the names present in both lists, in selected order.
func (fs FeatureSelection) Overlap() []string {
	dropped := make(map[string]struct{}, len(fs.dropped))
	for _, name := range fs.dropped {
		dropped[name] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, name := range fs.selected {
		if _, ok := dropped[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Assign always fails; see Config.Assign.
func (fs FeatureSelection) Assign(path string, _ any) error {
	return errors.NewImmutabilityError(schemaFeatureSelection, path)
}

// ToMap returns the canonical mapping of fs with freshly copied lists.
func (fs FeatureSelection) ToMap() map[string]any {
	return map[string]any{
		keySelectedFeatures: []string(clone(fs.selected)),
		keyDroppedFeatures:  []string(clone(fs.dropped)),
	}
}

// Params flattens fs for the experiment tracker: comma-joined names plus
// their counts.
func (fs FeatureSelection) Params() map[string]string {
	return map[string]string{
		keySelectedFeatures:            strings.Join(fs.selected, ","),
		keyDroppedFeatures:             strings.Join(fs.dropped, ","),
		keySelectedFeatures + ".count": strconv.Itoa(len(fs.selected)),
		keyDroppedFeatures + ".count":  strconv.Itoa(len(fs.dropped)),
	}
}

// MarshalJSON encodes fs as its canonical mapping.
func (fs FeatureSelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(fs.ToMap())
}

// ParseFeatureSelectionJSON decodes a JSON object into a FeatureSelection.
func ParseFeatureSelectionJSON(data []byte, opts ...Option) (FeatureSelection, error) {
	fields, err := decodeJSONObject(data)
	if err != nil {
		return FeatureSelection{}, err
	}
	return ConstructFeatureSelection(fields, opts...)
}
