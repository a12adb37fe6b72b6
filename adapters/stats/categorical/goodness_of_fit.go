package categorical

import (
	"fmt"
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// rescaleTolerance is the relative gap between expected and observed
// totals that triggers rescaling
const rescaleTolerance = 1e-9

// GoodnessOfFit compares observed category counts with expected
// frequencies. A nil expected slice means equal frequencies.
func GoodnessOfFit(observed, expected []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Chi-square Goodness of Fit Test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.CategoricalData(observed) {
		return nil, core.NewPreconditionError(core.ErrInvalidFrequencies, "observed frequencies must be non-negative integers")
	}
	if len(observed) < 2 {
		return nil, core.NewInsufficientDataError(name, 2, len(observed))
	}
	if expected != nil {
		if len(expected) != len(observed) {
			return nil, core.NewPreconditionError(core.ErrInvalidFrequencies,
				fmt.Sprintf("observed and expected must have the same length (%d vs %d)", len(observed), len(expected)))
		}
		for i, e := range expected {
			if !(e > 0) || math.IsInf(e, 0) {
				return nil, core.NewPreconditionError(core.ErrInvalidFrequencies,
					fmt.Sprintf("expected frequency %d must be positive, got %g", i+1, e))
			}
		}
	}

	r := stats.NewResult(stats.KindGoodnessOfFit, name, opts)
	total := numeric.Sum(observed)
	k := len(observed)

	exp := make([]float64, k)
	uniform := expected == nil
	if uniform {
		for i := range exp {
			exp[i] = total / float64(k)
		}
		r.Warn("No expected frequencies given; using equal expected frequencies (%.2f per category).", total/float64(k))
	} else {
		copy(exp, expected)
	}

	if total == 0 {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"observed total is zero; the chi-square statistic is undefined"), nil
	}

	if expTotal := numeric.Sum(exp); math.Abs(expTotal-total) > rescaleTolerance*total {
		for i := range exp {
			exp[i] *= total / expTotal
		}
		r.Warn("Expected frequencies sum to %g; rescaled to the observed total %g.", expTotal, total)
	}

	for _, e := range exp {
		if e < 5 {
			r.Warn("Some expected frequencies < 5. Results may be unreliable.")
			break
		}
	}
	if total < 30 {
		r.Warn("Total sample size < 30. Consider exact tests.")
	}

	chi2 := 0.0
	residuals := make([]float64, k)
	for i := range observed {
		d := observed[i] - exp[i]
		chi2 += d * d / exp[i]
		residuals[i] = d / math.Sqrt(exp[i])
	}
	df := float64(k - 1)
	v := math.Sqrt(chi2 / (total * df))

	r.StatisticName = "chi2"
	r.Statistic = stats.Float(chi2)
	r.DegreesOfFreedom = stats.Float(df)
	r.EffectSizeName = "cramers_v"
	r.EffectSize = stats.Float(v)
	r.Conclude(numeric.ChiSquareSurvival(chi2, df))
	r.GoodnessOfFit = &stats.GoodnessOfFitDetails{
		Observed:        append([]float64(nil), observed...),
		Expected:        exp,
		Residuals:       residuals,
		Total:           total,
		UniformExpected: uniform,
		CramersV:        v,
	}
	return r, nil
}
