package parametric

import (
	"fmt"

	"statkit/domain/stats"
	"statkit/internal/validation"
)

const (
	smallSampleWarning  = "Very small sample size. Results may be unreliable."
	smallSamplesWarning = "Small sample sizes. Results may be unreliable."
	welchWarning        = "Unequal variances detected. Using Welch's t-test."
)

// warnNormality adds the advisory normality screen for one sample.
// label is prefixed when several samples are screened.
func warnNormality(r *stats.Result, label string, data []float64, minSize int) {
	ok, msg := validation.NormalityAssumption(data, minSize)
	if ok {
		return
	}
	if label == "" {
		r.Warnings = append(r.Warnings, msg)
		return
	}
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", label, msg))
}

func confidenceLevel(alpha float64) float64 {
	return 1 - alpha
}
