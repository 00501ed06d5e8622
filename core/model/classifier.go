// Package model は学習ドライバが差し込む分類器の契約を定義します。
// 設定スキーマ（schema.Config）の ModelType に対応する実装は外部で提供され、
// ここでは振る舞いの形だけを宣言します。
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。X は (サンプル数 × 特徴量数)、y は (サンプル数 × 1)
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対するクラスラベル（0 または 1）を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier は全ての分類器が満たす基本契約
type Classifier interface {
	Fitter
	Predictor
}

// ProbabilisticClassifier はクラス確率を出力できる分類器
type ProbabilisticClassifier interface {
	Classifier
	// PredictProba は (サンプル数 × クラス数) の確率行列を返す
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// NonProbabilisticClassifier は確率の代わりに決定関数の値を出力する分類器
type NonProbabilisticClassifier interface {
	Classifier
	// DecisionFunction はサンプルごとの信頼度スコアを返す
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// ClassifierKind は値が満たす分類器契約の種類
type ClassifierKind int

const (
	// NotClassifier は Fit/Predict を持たない値
	NotClassifier ClassifierKind = iota
	// Probabilistic は PredictProba を持つ分類器
	Probabilistic
	// NonProbabilistic は DecisionFunction のみを持つ分類器
	NonProbabilistic
	// BaseOnly は Fit/Predict のみを持ち、スコアを出力できない分類器
	BaseOnly
)

func (k ClassifierKind) String() string {
	switch k {
	case Probabilistic:
		return "probabilistic"
	case NonProbabilistic:
		return "non_probabilistic"
	case BaseOnly:
		return "base"
	default:
		return "not_classifier"
	}
}

// Kind は c が満たす契約を返します。PredictProba と DecisionFunction の
// 両方を持つ場合は Probabilistic を優先します。
func Kind(c any) ClassifierKind {
	switch c.(type) {
	case ProbabilisticClassifier:
		return Probabilistic
	case NonProbabilisticClassifier:
		return NonProbabilistic
	case Classifier:
		return BaseOnly
	}
	return NotClassifier
}

// ErrNotScoringClassifier はスコアを出力できない値が渡された場合のエラー
var ErrNotScoringClassifier = errors.New("value is neither a probabilistic nor a non-probabilistic classifier")

// Check は c が ProbabilisticClassifier または NonProbabilisticClassifier
// のいずれかを満たすことを確認します。
func Check(c any) error {
	switch k := Kind(c); k {
	case Probabilistic, NonProbabilistic:
		return nil
	default:
		return errors.Wrapf(ErrNotScoringClassifier, "%T (%s)", c, k)
	}
}

// Scores は c が出力できるスコアを返します。確率分類器では陽性クラス
// （最終列）の確率、それ以外では決定関数の値です。
func Scores(c Classifier, X mat.Matrix) (*mat.VecDense, error) {
	var (
		out mat.Matrix
		err error
	)
	switch v := c.(type) {
	case ProbabilisticClassifier:
		out, err = v.PredictProba(X)
	case NonProbabilisticClassifier:
		out, err = v.DecisionFunction(X)
	default:
		return nil, Check(c)
	}
	if err != nil {
		return nil, err
	}
	rows, cols := out.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Newf("%T returned an empty %dx%d score matrix", c, rows, cols)
	}
	scores := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		scores.SetVec(i, out.At(i, cols-1))
	}
	return scores, nil
}
