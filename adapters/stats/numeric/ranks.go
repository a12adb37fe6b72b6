package numeric

import "sort"

// Ranking is the result of ranking a sample with average ranks for ties
type Ranking struct {
	Ranks []float64 // 1-based, aligned with the input
	Ties  []int     // sizes of every tie group with more than one member
}

// Rank assigns average ranks. The input slice is left untouched.
func Rank(data []float64) Ranking {
	n := len(data)
	ranks := make([]float64, n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return data[order[i]] < data[order[j]]
	})

	var ties []int
	i := 0
	for i < n {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}
		size := j - i
		avg := float64(i+1) + float64(size-1)/2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		if size > 1 {
			ties = append(ties, size)
		}
		i = j
	}

	return Ranking{Ranks: ranks, Ties: ties}
}

// TieSum returns Σ(t³ - t) over the tie groups
func (r Ranking) TieSum() float64 {
	total := 0.0
	for _, t := range r.Ties {
		ft := float64(t)
		total += ft*ft*ft - ft
	}
	return total
}

// TiedValues counts observations that share their value with another one
func (r Ranking) TiedValues() int {
	total := 0
	for _, t := range r.Ties {
		total += t
	}
	return total
}
