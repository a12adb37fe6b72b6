package parametric

import (
	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// FTest compares two sample variances. The larger variance is always the
// numerator, so F >= 1 and the degrees of freedom follow the samples.
func FTest(a, b []float64, opts stats.Options) (*stats.Result, error) {
	const name = "F-test for Equality of Variances"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.MinimumSampleSize(a, 2) {
		return nil, core.NewInsufficientDataError(name+" (sample 1)", 2, len(a))
	}
	if !validation.MinimumSampleSize(b, 2) {
		return nil, core.NewInsufficientDataError(name+" (sample 2)", 2, len(b))
	}

	r := stats.NewResult(stats.KindFTest, name, opts)
	if !validation.MinimumSampleSize(a, 3) || !validation.MinimumSampleSize(b, 3) {
		r.Warn("Very small sample sizes. Results may be unreliable.")
	}
	warnNormality(r, "Sample 1", a, opts.NormalityMinSize)
	warnNormality(r, "Sample 2", b, opts.NormalityMinSize)

	v1, v2 := numeric.Variance(a), numeric.Variance(b)
	num, den := v1, v2
	df1, df2 := float64(len(a)-1), float64(len(b)-1)
	if v2 > v1 {
		num, den = v2, v1
		df1, df2 = df2, df1
	}
	if den == 0 {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"a sample has zero variance; the variance ratio is undefined"), nil
	}

	f := num / den
	p := 2 * numeric.FSurvival(f, df1, df2)
	if p > 1 {
		p = 1
	}

	r.StatisticName = "F"
	r.Statistic = stats.Float(f)
	r.ConfidenceInterval = &stats.Interval{
		Lower: f / numeric.FQuantile(1-opts.Alpha/2, df1, df2),
		Upper: f / numeric.FQuantile(opts.Alpha/2, df1, df2),
		Level: confidenceLevel(opts.Alpha),
	}
	r.Conclude(p)
	r.FTest = &stats.FTestDetails{
		DF1:           df1,
		DF2:           df2,
		Variance1:     v1,
		Variance2:     v2,
		VarianceRatio: f,
	}
	return r, nil
}
