package correlation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"statkit/adapters/stats/numeric"
	"statkit/domain/stats"
)

// fisherCutoff bounds |rho| for the Fisher z interval; beyond it atanh explodes
const fisherCutoff = 0.999

// Spearman computes the rank correlation of x and y
func Spearman(x, y []float64, opts stats.Options) (*stats.Result, error) {
	const name = "Spearman's Rank Correlation"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if err := checkPair(name, x, y); err != nil {
		return nil, err
	}

	n := len(x)
	r := stats.NewResult(stats.KindSpearman, name, opts)
	if n < 10 {
		r.Warn(smallSampleWarning)
	}
	xTies, yTies := n-distinct(x), n-distinct(y)
	if float64(xTies) > 0.1*float64(n) {
		r.Warn("Many ties in X variable. Consider alternative methods.")
	}
	if float64(yTies) > 0.1*float64(n) {
		r.Warn("Many ties in Y variable. Consider alternative methods.")
	}

	rx, ry := numeric.Rank(x), numeric.Rank(y)
	var rho float64
	if len(rx.Ties) == 0 && len(ry.Ties) == 0 {
		sumD2 := 0.0
		for i := range rx.Ranks {
			d := rx.Ranks[i] - ry.Ranks[i]
			sumD2 += d * d
		}
		fn := float64(n)
		rho = 1 - 6*sumD2/(fn*(fn*fn-1))
	} else {
		rho = stat.Correlation(rx.Ranks, ry.Ranks, nil)
	}
	rho = math.Max(-1, math.Min(1, rho))

	df := float64(n - 2)
	details := &stats.SpearmanDetails{
		N:        n,
		Rho:      rho,
		Strength: strength(rho),
		XTies:    xTies,
		YTies:    yTies,
	}

	r.StatisticName = "rho"
	r.Statistic = stats.Float(rho)
	r.DegreesOfFreedom = stats.Float(df)
	if math.Abs(rho) >= 1 {
		r.Conclude(0)
	} else {
		t := rho * math.Sqrt(df/(1-rho*rho))
		details.TStatistic = stats.Float(t)
		r.Conclude(numeric.TTwoTailed(t, df))
	}
	if math.Abs(rho) < fisherCutoff && n > 3 {
		lo, hi := fisherInterval(rho, n, opts.Alpha)
		r.ConfidenceInterval = &stats.Interval{Lower: lo, Upper: hi, Level: 1 - opts.Alpha}
	}
	r.Spearman = details
	return r, nil
}

func strength(rho float64) string {
	a := math.Abs(rho)
	switch {
	case a < 0.1:
		return "negligible"
	case a < 0.3:
		return "weak"
	case a < 0.5:
		return "moderate"
	case a < 0.7:
		return "strong"
	}
	return "very strong"
}

func distinct(data []float64) int {
	seen := make(map[float64]struct{}, len(data))
	for _, v := range data {
		seen[v] = struct{}{}
	}
	return len(seen)
}
