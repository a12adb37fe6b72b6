package parametric

import (
	"fmt"
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
)

type leveneOutcome struct {
	statistic *float64 // nil when the within-group spread is zero
	p         float64
	dfBetween float64
	dfWithin  float64
}

// leveneOf computes the Brown–Forsythe variant of Levene's test: absolute
// deviations from each group median, then a one-way ANOVA on them.
func leveneOf(groups [][]float64) leveneOutcome {
	k := len(groups)
	total := 0
	deviations := make([][]float64, k)
	for i, g := range groups {
		med := numeric.Median(g)
		dev := make([]float64, len(g))
		for j, v := range g {
			dev[j] = math.Abs(v - med)
		}
		deviations[i] = dev
		total += len(g)
	}

	grand := numeric.Mean(numeric.Concat(deviations...))
	var between, within float64
	for _, dev := range deviations {
		m := numeric.Mean(dev)
		between += float64(len(dev)) * (m - grand) * (m - grand)
		for _, z := range dev {
			within += (z - m) * (z - m)
		}
	}

	out := leveneOutcome{dfBetween: float64(k - 1), dfWithin: float64(total - k)}
	num := out.dfWithin * between
	den := out.dfBetween * within
	switch {
	case den > 0:
		w := num / den
		out.statistic = stats.Float(w)
		out.p = numeric.FSurvival(w, out.dfBetween, out.dfWithin)
	case num > 0:
		// identical spread inside groups but different between them
		out.p = 0
	default:
		out.p = 1
	}
	return out
}

// Levene tests whether groups share a common variance
func Levene(groups [][]float64, opts stats.Options) (*stats.Result, error) {
	const name = "Levene's Test for Equality of Variances"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return nil, core.NewTooFewGroupsError(name, len(groups))
	}
	total := 0
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewPreconditionError(core.ErrInsufficientData, fmt.Sprintf("%s: group %d is empty", name, i+1))
		}
		total += len(g)
	}
	if total <= len(groups) {
		return nil, core.NewInsufficientDataError(name, len(groups)+1, total)
	}

	r := stats.NewResult(stats.KindLevene, name, opts)
	for i, g := range groups {
		if len(g) < 3 {
			r.Warn("Group %d has very small sample size.", i+1)
		}
	}

	lev := leveneOf(groups)
	if lev.statistic == nil {
		return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
			"no spread within groups; the Levene statistic is undefined"), nil
	}

	variances := make([]float64, len(groups))
	for i, g := range groups {
		variances[i] = numeric.Variance(g)
	}

	r.StatisticName = "W"
	r.Statistic = lev.statistic
	r.Conclude(lev.p)
	r.Levene = &stats.LeveneDetails{
		Groups:         len(groups),
		TotalN:         total,
		DFBetween:      lev.dfBetween,
		DFWithin:       lev.dfWithin,
		GroupVariances: variances,
	}
	return r, nil
}
