package nonparametric

import (
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

const (
	methodExact  = "exact"
	methodNormal = "normal"
)

// WilcoxonOneSample tests whether data is centred on median
func WilcoxonOneSample(data []float64, median float64, opts stats.Options) (*stats.Result, error) {
	const name = "Wilcoxon Signed-Rank Test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.MinimumSampleSize(data, 1) {
		return nil, core.NewInsufficientDataError(name, 1, len(data))
	}

	diffs := make([]float64, len(data))
	for i, v := range data {
		diffs[i] = v - median
	}

	r := signedRank(stats.NewResult(stats.KindWilcoxonOneSample, name, opts), diffs, opts)
	if r.SignedRank != nil {
		r.SignedRank.SampleMedian = stats.Float(numeric.Median(data))
		r.SignedRank.HypothesizedMedian = stats.Float(median)
	}
	return r, nil
}

// WilcoxonPaired tests whether the differences b - a are centred on zero
func WilcoxonPaired(a, b []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Wilcoxon Signed-Rank Test (Paired)"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.EqualSampleSizes(a, b) {
		return nil, core.NewUnequalSampleSizesError(name, len(a), len(b))
	}
	if !validation.MinimumSampleSize(a, 1) {
		return nil, core.NewInsufficientDataError(name, 1, len(a))
	}

	return signedRank(stats.NewResult(stats.KindWilcoxonPaired, name, opts), numeric.Differences(a, b), opts), nil
}

func signedRank(r *stats.Result, diffs []float64, opts stats.Options) *stats.Result {
	if !validation.MinimumSampleSize(diffs, 6) {
		r.Warn("Small sample size. Consider exact p-values.")
	}

	nonZero := make([]float64, 0, len(diffs))
	abs := make([]float64, 0, len(diffs))
	for _, d := range diffs {
		if d != 0 {
			nonZero = append(nonZero, d)
			abs = append(abs, math.Abs(d))
		}
	}
	dropped := len(diffs) - len(nonZero)
	if dropped > 0 {
		r.Warn("Removed %d zero differences.", dropped)
	}
	if len(nonZero) == 0 {
		r.Warn("All differences are zero. Cannot perform test.")
		return stats.NewUndefinedResult(r.Kind, r.TestName, opts, r.Warnings,
			"all differences are zero")
	}

	ranking := numeric.Rank(abs)
	var wPlus, wMinus float64
	for i, d := range nonZero {
		if d > 0 {
			wPlus += ranking.Ranks[i]
		} else {
			wMinus += ranking.Ranks[i]
		}
	}
	w := math.Min(wPlus, wMinus)

	n := len(nonZero)
	fn := float64(n)
	mean := fn * (fn + 1) / 4
	sd := math.Sqrt(fn * (fn + 1) * (2*fn + 1) / 24)

	details := &stats.SignedRankDetails{
		N:                n,
		ZerosDropped:     dropped,
		WPlus:            wPlus,
		WMinus:           wMinus,
		MedianDifference: numeric.Median(diffs),
	}

	var p float64
	if n <= numeric.MaxExactSignedRankN && len(ranking.Ties) == 0 {
		details.Method = methodExact
		p = numeric.SignedRankExactTwoSided(w, n)
	} else {
		details.Method = methodNormal
		tieSD := math.Sqrt(sd*sd - ranking.TieSum()/48)
		z := (w - mean) / tieSD
		details.Z = stats.Float(z)
		p = numeric.NormalTwoTailed(z)
	}

	r.StatisticName = "W"
	r.Statistic = stats.Float(w)
	if n > 10 {
		z := (w - mean) / sd
		r.EffectSizeName = "r"
		r.EffectSize = stats.Float(math.Abs(z) / math.Sqrt(fn))
	}
	r.Conclude(p)
	r.SignedRank = details
	return r
}
