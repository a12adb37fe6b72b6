package correlation

import (
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/stats"
)

// LinearRegression fits y = intercept + slope·x and tests the fit
func LinearRegression(x, y []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Simple Linear Regression"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if err := checkPair(name, x, y); err != nil {
		return nil, err
	}

	fit := fitLine(x, y)
	fn := float64(fit.n)
	dfRes := fit.dfResidual()
	dfTot := fn - 1

	r := stats.NewResult(stats.KindLinearRegression, name, opts)
	if fit.n < 10 {
		r.Warn(smallSampleWarning)
	}

	msRes := fit.ssResidual / dfRes
	seReg := math.Sqrt(msRes)
	seSlope := seReg / math.Sqrt(fit.sxx)
	seIntercept := seReg * math.Sqrt(1/fn+fit.meanX*fit.meanX/fit.sxx)
	margin := numeric.TQuantile(1-opts.Alpha/2, dfRes) * seSlope

	details := &stats.RegressionDetails{
		N:                 fit.n,
		Slope:             fit.slope,
		Intercept:         fit.intercept,
		R:                 fit.r,
		RSquared:          fit.r * fit.r,
		AdjustedRSquared:  1 - msRes/(fit.ssTotal/dfTot),
		SlopeStdError:     seSlope,
		InterceptStdError: seIntercept,
		SlopeCI:           stats.Interval{Lower: fit.slope - margin, Upper: fit.slope + margin, Level: 1 - opts.Alpha},
		ResidualStdError:  seReg,
		Residuals:         fit.residuals,
	}

	regRow := stats.ANOVARow{Source: "Regression", SS: fit.ssRegress, DF: 1, MS: stats.Float(fit.ssRegress)}
	if fit.perfect() {
		r.Warn("Perfect linear fit: residual variance is zero; F and t statistics are not reported.")
		details.FP = 0
		details.SlopeP = 0
	} else {
		f := fit.ssRegress / msRes
		t := fit.slope / seSlope
		details.FStatistic = stats.Float(f)
		details.FP = numeric.FSurvival(f, 1, dfRes)
		details.SlopeT = stats.Float(t)
		details.SlopeP = numeric.TTwoTailed(t, dfRes)
		regRow.F = details.FStatistic
		regRow.P = stats.Float(details.FP)

		if fit.n > 2 && fit.ssResidual > 0 {
			num := 0.0
			for i := 1; i < len(fit.residuals); i++ {
				d := fit.residuals[i] - fit.residuals[i-1]
				num += d * d
			}
			details.DurbinWatson = stats.Float(num / fit.ssResidual)
		}
	}
	details.Table = []stats.ANOVARow{
		regRow,
		{Source: "Residual", SS: fit.ssResidual, DF: dfRes, MS: stats.Float(msRes)},
		{Source: "Total", SS: fit.ssTotal, DF: dfTot},
	}

	r.StatisticName = "F"
	r.Statistic = details.FStatistic
	r.DegreesOfFreedom = stats.Float(dfRes)
	r.EffectSizeName = "r_squared"
	r.EffectSize = stats.Float(details.RSquared)
	r.ConfidenceInterval = &details.SlopeCI
	r.Conclude(details.FP)
	r.Regression = details
	return r, nil
}
