package nonparametric

import (
	"fmt"
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// KruskalWallis is the rank-based one-way analysis of k groups
func KruskalWallis(groups [][]float64, opts stats.Options) (*stats.Result, error) {
	const name = "Kruskal-Wallis H Test"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	k := len(groups)
	if k < 2 {
		return nil, core.NewTooFewGroupsError(name, k)
	}
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewPreconditionError(core.ErrInsufficientData, fmt.Sprintf("%s: group %d is empty", name, i+1))
		}
	}

	r := stats.NewResult(stats.KindKruskalWallis, name, opts)
	for i, g := range groups {
		if !validation.MinimumSampleSize(g, 5) {
			r.Warn("Group %d has small sample size.", i+1)
		}
	}

	pooled := numeric.Concat(groups...)
	total := float64(len(pooled))
	ranking := numeric.Rank(pooled)

	correction := 1 - ranking.TieSum()/(total*total*total-total)
	if correction <= 0 {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"all values are identical; the H statistic is undefined"), nil
	}

	meanRanks := make([]float64, k)
	medians := make([]float64, k)
	offset := 0
	h := 0.0
	for i, g := range groups {
		sum := 0.0
		for _, rank := range ranking.Ranks[offset : offset+len(g)] {
			sum += rank
		}
		offset += len(g)
		meanRanks[i] = sum / float64(len(g))
		medians[i] = numeric.Median(g)
		h += sum * sum / float64(len(g))
	}
	h = (12/(total*(total+1))*h - 3*(total+1)) / correction
	if h < 0 {
		h = 0
	}

	df := float64(k - 1)
	eta := 0.0
	if total > float64(k) {
		eta = math.Max(0, (h-float64(k)+1)/(total-float64(k)))
	}

	r.StatisticName = "H"
	r.Statistic = stats.Float(h)
	r.DegreesOfFreedom = stats.Float(df)
	r.EffectSizeName = "eta_squared"
	r.EffectSize = stats.Float(eta)
	r.Conclude(numeric.ChiSquareSurvival(h, df))
	r.KruskalWallis = &stats.KruskalWallisDetails{
		Groups:         k,
		TotalN:         len(pooled),
		GroupMedians:   medians,
		GroupMeanRanks: meanRanks,
		TieCorrection:  correction,
		EtaSquared:     eta,
	}
	return r, nil
}
