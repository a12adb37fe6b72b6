package correlation

import (
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
)

// Determination reports R² of the least squares line through (x, y)
func Determination(x, y []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Coefficient of Determination"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if len(x) <= 2 {
		return nil, core.NewInsufficientDataError(name+" (adjusted R²)", 3, len(x))
	}
	if err := checkPair(name, x, y); err != nil {
		return nil, err
	}

	fit := fitLine(x, y)
	n := fit.n
	fn := float64(n)
	df := fit.dfResidual()

	r := stats.NewResult(stats.KindDetermination, name, opts)
	if n < 10 {
		r.Warn(smallSampleWarning)
	}

	r2 := fit.r * fit.r
	details := &stats.DeterminationDetails{
		N:                n,
		R:                fit.r,
		RSquared:         r2,
		AdjustedRSquared: 1 - (1-r2)*(fn-1)/(fn-2),
		Slope:            fit.slope,
		Intercept:        fit.intercept,
		RMSE:             math.Sqrt(fit.ssResidual / df),
	}

	var p float64
	if fit.perfect() || math.Abs(fit.r) >= 1 {
		r.Warn("Perfect linear fit: residual variance is zero; F is not reported.")
		p = 0
	} else {
		details.FStatistic = stats.Float(fit.ssRegress / (fit.ssResidual / df))
		t := fit.r * math.Sqrt(df/(1-r2))
		p = numeric.TTwoTailed(t, df)
	}

	if n > 10 && r2 > 0 && math.Abs(fit.r) < fisherCutoff {
		lo, hi := fisherInterval(math.Abs(fit.r), n, opts.Alpha)
		if lo < 0 {
			lo = 0
		}
		details.RSquaredCI = &stats.Interval{Lower: lo * lo, Upper: hi * hi, Level: 1 - opts.Alpha}
		r.ConfidenceInterval = details.RSquaredCI
	}

	r.StatisticName = "R²"
	r.Statistic = stats.Float(r2)
	r.DegreesOfFreedom = stats.Float(df)
	r.Conclude(p)
	r.Determination = details
	return r, nil
}
