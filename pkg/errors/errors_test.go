package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		fields  []*FieldError
		wantMsg string
	}{
		{
			name: "single field",
			fields: []*FieldError{
				NewFieldError("model.name", KindMissingRequired, "field required", nil),
			},
			wantMsg: "ccfraud: Config: 1 validation error\n  model.name: field required",
		},
		{
			name: "multiple fields",
			fields: []*FieldError{
				NewFieldError("features.correlation_threshold", KindConstraintViolation, "must be less than or equal to 1", 1.5),
				NewFieldError("model.name", KindConstraintViolation, "must not be empty", ""),
			},
			wantMsg: "ccfraud: Config: 2 validation errors\n" +
				"  features.correlation_threshold: must be less than or equal to 1 (got: 1.5)\n" +
				"  model.name: must not be empty (got: )",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationErrors("Config", tt.fields)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var verrs *ValidationErrors
			if !As(err, &verrs) {
				t.Fatal("Error should be castable to *ValidationErrors")
			}
			if len(verrs.Fields) != len(tt.fields) {
				t.Errorf("len(Fields) = %d, want %d", len(verrs.Fields), len(tt.fields))
			}
		})
	}
}

func TestValidationErrorsLookup(t *testing.T) {
	verrs := &ValidationErrors{
		Schema: "Config",
		Fields: []*FieldError{
			NewFieldError("model.name", KindMissingRequired, "field required", nil),
			NewFieldError("features.max_features", KindConstraintViolation, "must be greater than 0", int64(0)),
			NewFieldError("model.name", KindTypeMismatch, "expected string", 3),
		},
	}

	if !verrs.Has("model.name", KindMissingRequired) {
		t.Error("Expected missing model.name")
	}
	if verrs.Has("model.name", KindUnrecognizedEnum) {
		t.Error("Did not expect unrecognized enum on model.name")
	}

	fe, ok := verrs.Field("features.max_features")
	if !ok {
		t.Fatal("Expected features.max_features entry")
	}
	if fe.Kind != KindConstraintViolation {
		t.Errorf("Kind = %v, want %v", fe.Kind, KindConstraintViolation)
	}

	if _, ok := verrs.Field("model.random_state"); ok {
		t.Error("Did not expect model.random_state entry")
	}

	paths := verrs.Paths()
	want := []string{"features.max_features", "model.name"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("Paths() = %v, want %v", paths, want)
	}
}

func TestNewUnrecognizedValueError(t *testing.T) {
	err := NewUnrecognizedValueError("scaling method", "robust", []string{"standard", "minmax", "maxabs"})

	want := `unrecognized scaling method "robust", expected one of [standard, minmax, maxabs]`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var uerr *UnrecognizedValueError
	if !As(err, &uerr) {
		t.Fatal("Error should be castable to *UnrecognizedValueError")
	}
	if uerr.Value != "robust" {
		t.Errorf("Value = %q, want %q", uerr.Value, "robust")
	}
}

func TestNewConstraintError(t *testing.T) {
	err := NewConstraintError("must be greater than 0", -1)

	if err.Error() != "must be greater than 0" {
		t.Errorf("Error() = %v", err.Error())
	}

	var cerr *ConstraintError
	if !As(err, &cerr) {
		t.Fatal("Error should be castable to *ConstraintError")
	}
	if cerr.Value != -1 {
		t.Errorf("Value = %v, want -1", cerr.Value)
	}
}

func TestNewImmutabilityError(t *testing.T) {
	err := NewImmutabilityError("Config", "model.name")

	want := "ccfraud: Config: cannot assign to field 'model.name': instance is frozen"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var ierr *ImmutabilityError
	if !As(err, &ierr) {
		t.Fatal("Error should be castable to *ImmutabilityError")
	}

	// 検証エラーとは区別される
	var verrs *ValidationErrors
	if As(err, &verrs) {
		t.Error("ImmutabilityError must not be a ValidationErrors")
	}
}

func TestValidationErrorsZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	verrs := &ValidationErrors{
		Schema: "FeatureSelection",
		Fields: []*FieldError{
			NewFieldError("selected_features.1", KindConstraintViolation, "must not be empty", ""),
		},
	}
	logger.Error().EmbedObject(verrs).Msg("construction failed")

	out := buf.String()
	for _, want := range []string{`"schema":"FeatureSelection"`, `"count":1`, `"path":"selected_features.1"`, `"kind":"constraint_violation"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in %s", want, out)
		}
	}
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewConfigWarning("preprocessing.outlier.method", "ignored while remove is false"))

	if len(got) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(got))
	}
	want := "preprocessing.outlier.method: ignored while remove is false"
	if got[0].Error() != want {
		t.Errorf("Warning = %q, want %q", got[0].Error(), want)
	}

	// zerolog関数が設定されている場合はそちらが優先される
	var zerologged int
	SetZerologWarnFunc(func(error) { zerologged++ })
	defer SetZerologWarnFunc(nil)

	Warn(NewConfigWarning("model.random_state", "exceeds seed range"))
	if zerologged != 1 || len(got) != 1 {
		t.Errorf("Expected zerolog func to take precedence, zerologged=%d handler=%d", zerologged, len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrUnsupportedFormat, "reading config.toml")

	if !Is(wrapped, ErrUnsupportedFormat) {
		t.Error("Expected Is(wrapped, ErrUnsupportedFormat) to be true")
	}

	if !strings.Contains(wrapped.Error(), "reading config.toml") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyDocument, "in %s", "config.yaml")

	if !Is(wrapped, ErrEmptyDocument) {
		t.Error("Expected Is(wrapped, ErrEmptyDocument) to be true")
	}

	expectedMsg := "in config.yaml"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}
