package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/internal/validation"
)

// perfectFitTolerance is the SS_res / SS_tot ratio at or below which a
// fit is treated as exact
const perfectFitTolerance = 1e-15

const smallSampleWarning = "Small sample size. Results may be unreliable."

// checkPair maps the correlation gate onto precondition errors
func checkPair(name string, x, y []float64) error {
	if !validation.EqualSampleSizes(x, y) {
		return core.NewUnequalSampleSizesError(name, len(x), len(y))
	}
	if !validation.MinimumSampleSize(x, 3) {
		return core.NewInsufficientDataError(name, 3, len(x))
	}
	if ok, msg := validation.CorrelationData(x, y); !ok {
		return core.NewPreconditionError(core.ErrConstantVariable, fmt.Sprintf("%s: %s", name, msg))
	}
	return nil
}

// linearFit is an ordinary least squares fit of y on x
type linearFit struct {
	n          int
	slope      float64
	intercept  float64
	r          float64
	meanX      float64
	sxx        float64
	ssTotal    float64
	ssResidual float64
	ssRegress  float64
	residuals  []float64
}

func fitLine(x, y []float64) linearFit {
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	meanX, meanY := numeric.Mean(x), numeric.Mean(y)
	f := linearFit{
		n:         len(x),
		slope:     slope,
		intercept: intercept,
		r:         r,
		meanX:     meanX,
		residuals: make([]float64, len(x)),
	}
	for i := range x {
		f.sxx += (x[i] - meanX) * (x[i] - meanX)
		f.ssTotal += (y[i] - meanY) * (y[i] - meanY)
		res := y[i] - (intercept + slope*x[i])
		f.residuals[i] = res
		f.ssResidual += res * res
	}
	if f.ssResidual > f.ssTotal {
		f.ssResidual = f.ssTotal
	}
	f.ssRegress = f.ssTotal - f.ssResidual
	return f
}

func (f linearFit) perfect() bool {
	return f.ssResidual <= perfectFitTolerance*f.ssTotal
}

func (f linearFit) dfResidual() float64 {
	return float64(f.n - 2)
}

// fisherInterval is the Fisher z interval for a correlation r
func fisherInterval(r float64, n int, alpha float64) (float64, float64) {
	z := math.Atanh(r)
	se := 1 / math.Sqrt(float64(n-3))
	zc := numeric.NormalQuantile(1 - alpha/2)
	return math.Tanh(z - zc*se), math.Tanh(z + zc*se)
}
