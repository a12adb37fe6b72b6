package nonparametric

import (
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// MannWhitneyU compares two independent samples through their pooled ranks.
// The p-value comes from the normal approximation with tie and continuity
// corrections.
func MannWhitneyU(a, b []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Mann-Whitney U Test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if !validation.MinimumSampleSize(a, 1) {
		return nil, core.NewInsufficientDataError(name+" (sample 1)", 1, len(a))
	}
	if !validation.MinimumSampleSize(b, 1) {
		return nil, core.NewInsufficientDataError(name+" (sample 2)", 1, len(b))
	}

	r := stats.NewResult(stats.KindMannWhitney, name, opts)
	if !validation.MinimumSampleSize(a, 3) || !validation.MinimumSampleSize(b, 3) {
		r.Warn("Very small sample sizes. Results may be unreliable.")
	}

	n1, n2 := float64(len(a)), float64(len(b))
	total := n1 + n2
	ranking := numeric.Rank(numeric.Concat(a, b))

	rankSum := 0.0
	for _, rank := range ranking.Ranks[:len(a)] {
		rankSum += rank
	}
	u := rankSum - n1*(n1+1)/2

	mean := n1 * n2 / 2
	variance := n1 * n2 / 12 * ((total + 1) - ranking.TieSum()/(total*(total-1)))
	if variance <= 0 {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"all pooled values are identical; the rank statistic is undefined"), nil
	}

	dev := math.Abs(u-mean) - 0.5
	if dev < 0 {
		dev = 0
	}
	z := math.Copysign(dev/math.Sqrt(variance), u-mean)

	r.StatisticName = "U"
	r.Statistic = stats.Float(u)
	r.EffectSizeName = "r"
	r.EffectSize = stats.Float(math.Abs(z) / math.Sqrt(total))
	r.Conclude(numeric.NormalTwoTailed(z))
	r.MannWhitney = &stats.MannWhitneyDetails{
		N1:                     len(a),
		N2:                     len(b),
		RankSum1:               rankSum,
		Z:                      z,
		Median1:                numeric.Median(a),
		Median2:                numeric.Median(b),
		ProbabilitySuperiority: u / (n1 * n2),
	}
	return r, nil
}
