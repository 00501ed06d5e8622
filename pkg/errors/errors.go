// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// スキーマ構築時のフィールド単位のエラーを集約し、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("ccfraud-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、ConfigWarningなどの警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConfigWarning は設定としては有効だが、意図しない可能性がある値に対する警告です。
// 例えば、外れ値除去が無効なのに検出手法が指定されている場合など。
type ConfigWarning struct {
	Path    string
	Message string
}

func (w *ConfigWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConfigWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("path", w.Path).
		Str("warning", w.Message).
		Str("type", "ConfigWarning")
}

// NewConfigWarning は新しいConfigWarningを作成します。
func NewConfigWarning(path, message string) *ConfigWarning {
	return &ConfigWarning{Path: path, Message: message}
}

// ===========================================================================
//
//	フィールド検証エラー
//
// ===========================================================================

// Kind はフィールド検証エラーの分類です。
type Kind string

const (
	// KindMissingRequired はデフォルト値のない必須フィールドが入力に存在しないことを示します。
	KindMissingRequired Kind = "missing_required_field"
	// KindTypeMismatch は値をフィールドの型に変換できないことを示します。
	KindTypeMismatch Kind = "type_mismatch"
	// KindConstraintViolation は型は正しいが範囲・長さなどの制約に違反していることを示します。
	KindConstraintViolation Kind = "constraint_violation"
	// KindUnrecognizedEnum は語彙に含まれない文字列が列挙型フィールドに渡されたことを示します。
	KindUnrecognizedEnum Kind = "unrecognized_enum_value"
	// KindUnknownField はスキーマに存在しないキーが入力に含まれていることを示します。
	KindUnknownField Kind = "unknown_field"
)

// FieldError は1つのフィールドに対する検証エラーです。
// Path はドット区切りのフィールドパス（例: "model.name"）です。
type FieldError struct {
	Path   string
	Kind   Kind
	Reason string
	Value  interface{}
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got: %v)", e.Path, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FieldError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("kind", string(e.Kind)).
		Str("reason", e.Reason).
		Interface("value", e.Value)
}

// NewFieldError は新しいFieldErrorを作成します。
// 集約されてValidationErrorsとして返されるため、スタックトレースは付与しません。
func NewFieldError(path string, kind Kind, reason string, value interface{}) *FieldError {
	return &FieldError{Path: path, Kind: kind, Reason: reason, Value: value}
}

type fieldErrorArray []*FieldError

func (a fieldErrorArray) MarshalZerologArray(arr *zerolog.Array) {
	for _, fe := range a {
		arr.Object(fe)
	}
}

// ValidationErrors は1回の構築で見つかった全てのフィールドエラーを集約したエラーです。
// 構築は部分的に成功することはなく、失敗時は常にこの型（スタック付き）が返されます。
type ValidationErrors struct {
	Schema string
	Fields []*FieldError
}

func (e *ValidationErrors) Error() string {
	noun := "errors"
	if len(e.Fields) == 1 {
		noun = "error"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ccfraud: %s: %d validation %s", e.Schema, len(e.Fields), noun)
	for _, fe := range e.Fields {
		b.WriteString("\n  ")
		b.WriteString(fe.Error())
	}
	return b.String()
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationErrors) MarshalZerologObject(event *zerolog.Event) {
	event.Str("schema", e.Schema).
		Int("count", len(e.Fields)).
		Array("fields", fieldErrorArray(e.Fields)).
		Str("type", "ValidationErrors")
}

// Field は指定したパスの最初のFieldErrorを返します。
func (e *ValidationErrors) Field(path string) (*FieldError, bool) {
	for _, fe := range e.Fields {
		if fe.Path == path {
			return fe, true
		}
	}
	return nil, false
}

// Has は指定したパスに指定した種類のエラーが存在するかを返します。
func (e *ValidationErrors) Has(path string, kind Kind) bool {
	for _, fe := range e.Fields {
		if fe.Path == path && fe.Kind == kind {
			return true
		}
	}
	return false
}

// Paths はエラーのあるパスを重複なしでソートして返します。
func (e *ValidationErrors) Paths() []string {
	seen := make(map[string]struct{}, len(e.Fields))
	paths := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		if _, ok := seen[fe.Path]; ok {
			continue
		}
		seen[fe.Path] = struct{}{}
		paths = append(paths, fe.Path)
	}
	sort.Strings(paths)
	return paths
}

// NewValidationErrors は集約エラーを作成し、スタックトレースを付与します。
func NewValidationErrors(schema string, fields []*FieldError) error {
	err := &ValidationErrors{Schema: schema, Fields: fields}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	値レベルのエラー
//
// ===========================================================================

// UnrecognizedValueError は閉じた語彙に含まれない値が渡された場合のエラーです。
type UnrecognizedValueError struct {
	Vocabulary string
	Value      string
	Allowed    []string
}

func (e *UnrecognizedValueError) Error() string {
	return fmt.Sprintf("unrecognized %s %q, expected one of [%s]",
		e.Vocabulary, e.Value, strings.Join(e.Allowed, ", "))
}

// NewUnrecognizedValueError は新しいUnrecognizedValueErrorを作成し、スタックトレースを付与します。
func NewUnrecognizedValueError(vocabulary, value string, allowed []string) error {
	err := &UnrecognizedValueError{Vocabulary: vocabulary, Value: value, Allowed: allowed}
	return errors.WithStack(err)
}

// ConstraintError は値が制約述語を満たさない場合のエラーです。
// Error() は人間が読める理由をそのまま返します。
type ConstraintError struct {
	Constraint string
	Value      interface{}
}

func (e *ConstraintError) Error() string {
	return e.Constraint
}

// NewConstraintError は新しいConstraintErrorを作成し、スタックトレースを付与します。
func NewConstraintError(constraint string, value interface{}) error {
	err := &ConstraintError{Constraint: constraint, Value: value}
	return errors.WithStack(err)
}

// ImmutabilityError は構築後のインスタンスのフィールドを変更しようとした場合のエラーです。
// データ品質の問題ではなく、常にプログラミングエラーです。
type ImmutabilityError struct {
	Schema string
	Path   string
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("ccfraud: %s: cannot assign to field '%s': instance is frozen", e.Schema, e.Path)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ImmutabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("schema", e.Schema).
		Str("path", e.Path).
		Str("type", "ImmutabilityError")
}

// NewImmutabilityError は新しいImmutabilityErrorを作成し、スタックトレースを付与します。
func NewImmutabilityError(schema, path string) error {
	err := &ImmutabilityError{Schema: schema, Path: path}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrUnsupportedFormat は読み込めない設定ファイル形式の場合のエラーです。
	ErrUnsupportedFormat = New("unsupported config format")

	// ErrEmptyDocument は空の設定ドキュメントが渡された場合のエラーです。
	ErrEmptyDocument = New("empty config document")

	// ErrTrailingData は設定ドキュメントの後に余分なデータが続く場合のエラーです。
	ErrTrailingData = New("unexpected data after config document")
)
