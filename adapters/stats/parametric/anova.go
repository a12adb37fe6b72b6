package parametric

import (
	"fmt"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// OneWayANOVA tests whether k group means are equal
func OneWayANOVA(groups [][]float64, opts stats.Options) (*stats.Result, error) {
	const name = "One-way ANOVA"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	k := len(groups)
	if k < 2 {
		return nil, core.NewTooFewGroupsError(name, k)
	}
	total := 0
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewPreconditionError(core.ErrInsufficientData, fmt.Sprintf("%s: group %d is empty", name, i+1))
		}
		total += len(g)
	}
	if total <= k {
		return nil, core.NewInsufficientDataError(name, k+1, total)
	}

	r := stats.NewResult(stats.KindOneWayANOVA, name, opts)
	for i, g := range groups {
		if !validation.MinimumSampleSize(g, 3) {
			r.Warn("Group %d has very small sample size.", i+1)
		}
		warnNormality(r, fmt.Sprintf("Group %d", i+1), g, opts.NormalityMinSize)
	}

	grand := numeric.Mean(numeric.Concat(groups...))
	means := make([]float64, k)
	sizes := make([]int, k)
	var ssBetween, ssWithin float64
	for i, g := range groups {
		m := numeric.Mean(g)
		means[i] = m
		sizes[i] = len(g)
		ssBetween += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}
	if ssWithin == 0 {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"no variation within groups; the F statistic is undefined"), nil
	}

	ssTotal := ssBetween + ssWithin
	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	msBetween := ssBetween / dfBetween
	msWithin := ssWithin / dfWithin
	f := msBetween / msWithin

	eta := 0.0
	if ssTotal > 0 {
		eta = ssBetween / ssTotal
	}

	r.StatisticName = "F"
	r.Statistic = stats.Float(f)
	r.EffectSizeName = "eta_squared"
	r.EffectSize = stats.Float(eta)
	r.Conclude(numeric.FSurvival(f, dfBetween, dfWithin))
	r.ANOVA = &stats.ANOVADetails{
		DFBetween:   dfBetween,
		DFWithin:    dfWithin,
		SSBetween:   ssBetween,
		SSWithin:    ssWithin,
		SSTotal:     ssTotal,
		MSBetween:   msBetween,
		MSWithin:    msWithin,
		EtaSquared:  eta,
		GroupMeans:  means,
		GroupSizes:  sizes,
		OverallMean: grand,
	}
	return r, nil
}
