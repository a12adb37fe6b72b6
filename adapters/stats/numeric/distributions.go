package numeric

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Probability helpers over the gonum distributions. Every function returns
// a finite value for finite input; degenerate parameters fall back to the
// least committal answer (p = 1).

// TTwoTailed returns P(|T| >= |t|) for Student's t with df degrees of freedom.
// It uses the incomplete-beta identity, which keeps precision in the far tails
// where 1 - CDF would round to zero.
func TTwoTailed(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	if math.IsInf(t, 0) {
		return 0
	}
	x := df / (df + t*t)
	return clamp01(mathext.RegIncBeta(df/2, 0.5, x))
}

// TQuantile is the inverse CDF of Student's t
func TQuantile(p, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// FSurvival returns P(F >= f)
func FSurvival(f, d1, d2 float64) float64 {
	if d1 <= 0 || d2 <= 0 || math.IsNaN(f) {
		return 1
	}
	if f <= 0 {
		return 1
	}
	return clamp01(distuv.F{D1: d1, D2: d2}.Survival(f))
}

// FCDF returns P(F <= f)
func FCDF(f, d1, d2 float64) float64 {
	return 1 - FSurvival(f, d1, d2)
}

// FQuantile is the inverse CDF of the F distribution
func FQuantile(p, d1, d2 float64) float64 {
	return distuv.F{D1: d1, D2: d2}.Quantile(p)
}

// ChiSquareSurvival returns P(X >= x) for a chi-square with k degrees of freedom
func ChiSquareSurvival(x, k float64) float64 {
	if k <= 0 || math.IsNaN(x) || x <= 0 {
		return 1
	}
	return clamp01(distuv.ChiSquared{K: k}.Survival(x))
}

// NormalTwoTailed returns P(|Z| >= |z|) for a standard normal
func NormalTwoTailed(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return clamp01(2 * distuv.UnitNormal.Survival(math.Abs(z)))
}

// NormalQuantile is the inverse CDF of the standard normal
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
