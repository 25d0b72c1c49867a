// Package linear fits linear regression by minimizing the mean squared error
// with the Adam optimizer.
package linear

import (
	"github.com/YuminosukeSato/ssmkit/optim"
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Defaults used unless overridden through WithNumIters or WithAdam.
const (
	DefaultNumIters  = 20000
	DefaultStepSize  = 0.05
	DefaultTolerance = 1e-5
)

// Regression は勾配法で学習する線形回帰モデル
type Regression struct {
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	// Result は最後の Fit の最適化結果
	Result *optim.Result
	// LossTrace は WithLossTrace(true) の場合の反復ごとの学習損失
	LossTrace []float64

	fitIntercept bool
	numIters     int
	adamOpts     []optim.AdamOption
	recordLoss   bool
	logger       log.Logger
	fitted       bool
}

// NewRegression は新しい線形回帰モデルを作成する
func NewRegression(opts ...Option) *Regression {
	r := &Regression{
		fitIntercept: true,
		numIters:     DefaultNumIters,
		adamOpts: []optim.AdamOption{
			optim.WithStepSize(DefaultStepSize),
			optim.WithTolerance(DefaultTolerance),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLoggerWithName("linear")
	}
	return r
}

// objective は平均二乗誤差とその勾配。パラメータは重みの後に切片が続く。
type objective struct {
	X         mat.Matrix
	y         mat.Vector
	intercept bool
}

func (o *objective) residual(params []float64) *mat.VecDense {
	n, p := o.X.Dims()
	var r mat.VecDense
	r.MulVec(o.X, mat.NewVecDense(p, params[:p]))
	if o.intercept {
		for i := 0; i < n; i++ {
			r.SetVec(i, r.AtVec(i)+params[p])
		}
	}
	r.SubVec(&r, o.y)
	return &r
}

func (o *objective) loss(params []float64) float64 {
	r := o.residual(params)
	return mat.Dot(r, r) / float64(r.Len())
}

// gradient = 2/n [Xᵀr, Σr]
func (o *objective) gradient(params []float64, _ int) []float64 {
	n, p := o.X.Dims()
	r := o.residual(params)

	g := make([]float64, len(params))
	gw := mat.NewVecDense(p, g[:p])
	gw.MulVec(o.X.T(), r)
	gw.ScaleVec(2/float64(n), gw)
	if o.intercept {
		g[p] = 2 * mat.Sum(r) / float64(n)
	}
	return g
}

// Fit はモデルを訓練データで学習させる。パラメータはゼロから始める。
func (lr *Regression) Fit(X mat.Matrix, y mat.Vector) error {
	const op = "Regression.Fit"

	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if y.Len() != n {
		return errors.NewDimensionError(op, n, y.Len(), 0)
	}

	obj := &objective{X: X, y: y, intercept: lr.fitIntercept}
	size := p
	if lr.fitIntercept {
		size++
	}

	opts := append([]optim.AdamOption{optim.WithLogger(lr.logger)}, lr.adamOpts...)
	lr.LossTrace = nil
	if lr.recordLoss {
		opts = append(opts, optim.WithCallback(func(x []float64, _ int, _ []float64) {
			lr.LossTrace = append(lr.LossTrace, obj.loss(x))
		}))
	}

	res, err := optim.Adam(obj.gradient, make([]float64, size), lr.numIters, opts...)
	if err != nil {
		return errors.Wrap(err, op)
	}

	lr.Result = res
	lr.NFeatures = p
	lr.Weights = mat.NewVecDense(p, append([]float64(nil), res.X[:p]...))
	lr.Intercept = 0
	if lr.fitIntercept {
		lr.Intercept = res.X[p]
	}
	lr.fitted = true

	lr.logger.Info("regression fitted",
		log.SamplesKey, n,
		log.DimensionKey, p,
		log.LossKey, obj.loss(res.X),
	)
	return nil
}

// Predict は入力データに対する予測 y = X·w + b を返す
func (lr *Regression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.fitted {
		return nil, errors.Wrap(errors.ErrNotFitted, "Regression.Predict")
	}
	n, p := X.Dims()
	if p != lr.NFeatures {
		return nil, errors.NewDimensionError("Regression.Predict", lr.NFeatures, p, 1)
	}

	pred := mat.NewVecDense(n, nil)
	pred.MulVec(X, lr.Weights)
	for i := 0; i < n; i++ {
		pred.SetVec(i, pred.AtVec(i)+lr.Intercept)
	}
	return pred, nil
}

// IsFitted reports whether Fit has completed successfully.
func (lr *Regression) IsFitted() bool { return lr.fitted }
