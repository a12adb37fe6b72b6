package numeric

import "math"

// MaxExactSignedRankN bounds the exact null distribution; 2^25 outcomes
// still count exactly in uint64.
const MaxExactSignedRankN = 25

// SignedRankExactTwoSided returns the exact two-sided p-value of the
// Wilcoxon signed-rank statistic w for n untied, non-zero differences.
func SignedRankExactTwoSided(w float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	if n > MaxExactSignedRankN {
		n = MaxExactSignedRankN
	}

	total := n * (n + 1) / 2
	obs := int(math.Round(w))
	if obs < 0 {
		obs = 0
	}
	if obs > total {
		obs = total
	}
	// symmetric null: fold onto the lower tail
	if total-obs < obs {
		obs = total - obs
	}

	// counts[s] = number of sign assignments with W+ = s
	counts := make([]uint64, total+1)
	counts[0] = 1
	for r := 1; r <= n; r++ {
		for s := total; s >= r; s-- {
			counts[s] += counts[s-r]
		}
	}

	var cum uint64
	for s := 0; s <= obs; s++ {
		cum += counts[s]
	}

	outcomes := float64(uint64(1) << uint(n))
	return clamp01(2 * float64(cum) / outcomes)
}
