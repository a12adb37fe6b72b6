package numeric

import (
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean of data; 0 for an empty slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance is the sample (n-1) variance; 0 when n < 2
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	v := stat.Variance(data, nil)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// StdDev is the sample standard deviation
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Median of data without mutating it
func Median(data []float64) float64 {
	m, err := mstats.Median(mstats.Float64Data(data))
	if err != nil {
		return 0
	}
	return m
}

// Sum of data
func Sum(data []float64) float64 {
	return floats.Sum(data)
}

// Differences returns b[i] - a[i]; callers guarantee equal lengths
func Differences(a, b []float64) []float64 {
	return floats.SubTo(make([]float64, len(a)), b, a)
}

// Concat joins groups into one pooled sample
func Concat(groups ...[]float64) []float64 {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	pooled := make([]float64, 0, n)
	for _, g := range groups {
		pooled = append(pooled, g...)
	}
	return pooled
}
