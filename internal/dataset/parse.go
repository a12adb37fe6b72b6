package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"statkit/internal/errors"
)

// ParseCommaSeparated turns "1, 2.5,3" into numbers. Whitespace is ignored
// and empty entries are skipped; anything non-numeric is rejected.
func ParseCommaSeparated(text string) ([]float64, error) {
	var values []float64
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.InvalidInput(fmt.Sprintf("%q is not a number", part))
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.InvalidInput("no numeric values given")
	}
	return values, nil
}
