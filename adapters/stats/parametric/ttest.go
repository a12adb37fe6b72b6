package parametric

import (
	"fmt"
	"math"
	"strings"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// VarianceModel selects how the independent t-test treats group variances
type VarianceModel string

const (
	VarianceAuto   VarianceModel = "auto"   // Levene decides
	VariancePooled VarianceModel = "pooled" // Student, unless Levene rejects
	VarianceWelch  VarianceModel = "welch"  // Welch–Satterthwaite
)

// leveneCutoff is the Levene p-value above which equal variances are assumed
const leveneCutoff = 0.05

// ParseVarianceModel maps a flag value to a VarianceModel; "" means auto
func ParseVarianceModel(s string) (VarianceModel, error) {
	switch VarianceModel(strings.ToLower(strings.TrimSpace(s))) {
	case "", VarianceAuto:
		return VarianceAuto, nil
	case VariancePooled:
		return VariancePooled, nil
	case VarianceWelch:
		return VarianceWelch, nil
	}
	return "", core.NewPreconditionError(core.ErrInvalidParameter, fmt.Sprintf("unknown variance model %q (want auto, pooled or welch)", s))
}

// OneSampleT compares the mean of data with a hypothesised mean mu
func OneSampleT(data []float64, mu float64, opts stats.Options) (*stats.Result, error) {
	const name = "One-Sample Student's t-test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.MinimumSampleSize(data, 2) {
		return nil, core.NewInsufficientDataError(name, 2, len(data))
	}

	var warnings []string
	if !validation.MinimumSampleSize(data, 5) {
		warnings = append(warnings, smallSampleWarning)
	}
	r := stats.NewResult(stats.KindOneSampleT, name, opts)
	r.Warnings = warnings
	warnNormality(r, "", data, opts.NormalityMinSize)

	return meanTest(r, data, mu, opts, false), nil
}

// PairedT runs a one-sample t-test on the differences b - a
func PairedT(a, b []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Paired Samples t-test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.EqualSampleSizes(a, b) {
		return nil, core.NewUnequalSampleSizesError(name, len(a), len(b))
	}
	if !validation.MinimumSampleSize(a, 2) {
		return nil, core.NewInsufficientDataError(name, 2, len(a))
	}

	diffs := numeric.Differences(a, b)
	r := stats.NewResult(stats.KindPairedT, name, opts)
	if !validation.MinimumSampleSize(diffs, 5) {
		r.Warn(smallSampleWarning)
	}
	warnNormality(r, "Differences", diffs, opts.NormalityMinSize)

	return meanTest(r, diffs, 0, opts, true), nil
}

// meanTest fills r with the t-test of mean(data) against mu
func meanTest(r *stats.Result, data []float64, mu float64, opts stats.Options, paired bool) *stats.Result {
	n := len(data)
	mean := numeric.Mean(data)
	sd := numeric.StdDev(data)
	df := float64(n - 1)
	if sd == 0 {
		if mean == mu {
			return stats.NewUndefinedResult(r.Kind, r.TestName, opts, r.Warnings,
				"sample variance is zero and the mean equals the hypothesised value; the t statistic is undefined")
		}
		// every observation sits at the same distance from mu: |t| is unbounded
		r.Warn("Sample variance is zero; the t statistic is unbounded and is not reported.")
		r.StatisticName = "t"
		r.DegreesOfFreedom = stats.Float(df)
		r.ConfidenceInterval = &stats.Interval{Lower: mean, Upper: mean, Level: confidenceLevel(opts.Alpha)}
		r.Conclude(0)
		r.TTest = meanDetails(n, mean, sd, 0, mu, paired)
		return r
	}

	se := sd / math.Sqrt(float64(n))
	t := (mean - mu) / se
	margin := numeric.TQuantile(1-opts.Alpha/2, df) * se

	r.StatisticName = "t"
	r.Statistic = stats.Float(t)
	r.DegreesOfFreedom = stats.Float(df)
	r.EffectSizeName = "cohens_d"
	r.EffectSize = stats.Float((mean - mu) / sd)
	r.ConfidenceInterval = &stats.Interval{Lower: mean - margin, Upper: mean + margin, Level: confidenceLevel(opts.Alpha)}
	r.Conclude(numeric.TTwoTailed(t, df))

	r.TTest = meanDetails(n, mean, sd, se, mu, paired)
	return r
}

func meanDetails(n int, mean, sd, se, mu float64, paired bool) *stats.TTestDetails {
	details := &stats.TTestDetails{
		N:          n,
		SampleMean: mean,
		StdDev:     sd,
		StdError:   se,
	}
	if paired {
		details.MeanDifference = stats.Float(mean)
	} else {
		details.HypothesizedMean = stats.Float(mu)
	}
	return details
}

// IndependentT compares the means of two independent samples. Levene's
// test always runs; model decides how its verdict is used.
func IndependentT(a, b []float64, opts stats.Options, model VarianceModel) (*stats.Result, error) {
	const name = "Independent Samples t-test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = VarianceAuto
	}
	if _, err := ParseVarianceModel(string(model)); err != nil {
		return nil, err
	}
	if !validation.MinimumSampleSize(a, 2) {
		return nil, core.NewInsufficientDataError(name+" (sample 1)", 2, len(a))
	}
	if !validation.MinimumSampleSize(b, 2) {
		return nil, core.NewInsufficientDataError(name+" (sample 2)", 2, len(b))
	}

	r := stats.NewResult(stats.KindIndependentT, name, opts)
	if !validation.MinimumSampleSize(a, 5) || !validation.MinimumSampleSize(b, 5) {
		r.Warn(smallSamplesWarning)
	}
	warnNormality(r, "Sample 1", a, opts.NormalityMinSize)
	warnNormality(r, "Sample 2", b, opts.NormalityMinSize)

	lev := leveneOf([][]float64{a, b})
	pooled := true
	switch model {
	case VarianceWelch:
		pooled = false
	case VariancePooled:
		if lev.p <= leveneCutoff {
			r.Warn("Unequal variances detected (Levene p = %.4f). Pooled variance overridden; using Welch's t-test.", lev.p)
			pooled = false
		}
	default:
		if lev.p <= leveneCutoff {
			r.Warn(welchWarning)
			pooled = false
		}
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := numeric.Mean(a), numeric.Mean(b)
	v1, v2 := numeric.Variance(a), numeric.Variance(b)
	diff := m1 - m2

	var se, df, d float64
	var pooledStd *float64
	if pooled {
		sp := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
		se = sp * math.Sqrt(1/n1+1/n2)
		df = n1 + n2 - 2
		if sp > 0 {
			d = diff / sp
		}
		pooledStd = stats.Float(sp)
	} else {
		q1, q2 := v1/n1, v2/n2
		se = math.Sqrt(q1 + q2)
		if denom := q1*q1/(n1-1) + q2*q2/(n2-1); denom > 0 {
			df = (q1 + q2) * (q1 + q2) / denom
		}
		if s := math.Sqrt((v1 + v2) / 2); s > 0 {
			d = diff / s
		}
	}
	r.StatisticName = "t"
	switch {
	case se == 0 && diff == 0:
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"both samples are constant and equal; the t statistic is undefined"), nil
	case se == 0:
		r.Warn("Both samples have zero variance; the t statistic is unbounded and is not reported.")
		r.ConfidenceInterval = &stats.Interval{Lower: diff, Upper: diff, Level: confidenceLevel(opts.Alpha)}
		r.Conclude(0)
	default:
		t := diff / se
		margin := numeric.TQuantile(1-opts.Alpha/2, df) * se
		r.Statistic = stats.Float(t)
		r.DegreesOfFreedom = stats.Float(df)
		r.EffectSizeName = "cohens_d"
		r.EffectSize = stats.Float(d)
		r.ConfidenceInterval = &stats.Interval{Lower: diff - margin, Upper: diff + margin, Level: confidenceLevel(opts.Alpha)}
		r.Conclude(numeric.TTwoTailed(t, df))
	}

	r.TTest = &stats.TTestDetails{
		N:                     len(a),
		N2:                    len(b),
		SampleMean:            m1,
		SampleMean2:           stats.Float(m2),
		MeanDifference:        stats.Float(diff),
		StdDev:                math.Sqrt(v1),
		StdDev2:               stats.Float(math.Sqrt(v2)),
		StdError:              se,
		EqualVariancesAssumed: stats.Bool(pooled),
		PooledStd:             pooledStd,
		LeveneStatistic:       lev.statistic,
		LeveneP:               stats.Float(lev.p),
	}
	return r, nil
}
