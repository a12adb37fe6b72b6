package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Gate checks run before any test executes. They never panic and never
// mutate their inputs.

// MinimumSampleSize reports whether data holds at least minSize observations
func MinimumSampleSize(data []float64, minSize int) bool {
	return len(data) >= minSize
}

// EqualSampleSizes reports whether two samples can be paired
func EqualSampleSizes(a, b []float64) bool {
	return len(a) == len(b)
}

// NumericData reports whether every raw entry parses as a finite number
func NumericData(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// CategoricalData reports whether data is a non-empty list of frequencies
// (non-negative integers)
func CategoricalData(data []float64) bool {
	if len(data) == 0 {
		return false
	}
	for _, v := range data {
		if !isCount(v) {
			return false
		}
	}
	return true
}

func isCount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && v == math.Trunc(v)
}

// ContingencyTable checks shape and sign of a two-way frequency table
func ContingencyTable(table [][]float64) (bool, string) {
	if len(table) < 2 {
		return false, "Contingency table must have at least 2 rows"
	}
	cols := len(table[0])
	if cols < 2 {
		return false, "Contingency table must have at least 2 columns"
	}
	for i, row := range table {
		if len(row) != cols {
			return false, fmt.Sprintf("Row %d has %d columns, expected %d", i+1, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false, fmt.Sprintf("Cell (%d, %d) is not a finite number", i+1, j+1)
			}
			if v < 0 {
				return false, "All values must be non-negative"
			}
		}
	}
	return true, "Valid contingency table"
}

// ParseContingencyTable reads the "10,15,20;25,30,35" text form.
// Rows are separated by ';' and cells by ','.
func ParseContingencyTable(text string) ([][]float64, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "Contingency table is empty"
	}

	var table [][]float64
	for i, rowText := range strings.Split(text, ";") {
		rowText = strings.TrimSpace(rowText)
		if rowText == "" {
			continue
		}
		var row []float64
		for _, cell := range strings.Split(rowText, ",") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Sprintf("Row %d: %q is not a number", i+1, cell)
			}
			row = append(row, v)
		}
		table = append(table, row)
	}

	if ok, msg := ContingencyTable(table); !ok {
		return nil, msg
	}
	return table, ""
}

// CorrelationData checks that x and y can be correlated
func CorrelationData(x, y []float64) (bool, string) {
	if len(x) != len(y) {
		return false, fmt.Sprintf("Variables must have equal length (%d vs %d)", len(x), len(y))
	}
	if len(x) < 3 {
		return false, "At least 3 data points are required for correlation"
	}
	if isConstant(x) {
		return false, "X variable is constant"
	}
	if isConstant(y) {
		return false, "Y variable is constant"
	}
	return true, "Valid correlation data"
}

func isConstant(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}

// NormalityAssumption is an advisory screen: small samples and heavy
// outlier mass (>5% beyond 3 population SDs) are flagged
func NormalityAssumption(data []float64, minSize int) (bool, string) {
	if len(data) < minSize {
		return false, fmt.Sprintf("Sample size (%d) is small for the normality assumption (recommended >= %d)", len(data), minSize)
	}

	mean, variance := stat.PopMeanVariance(data, nil)
	sd := math.Sqrt(variance)
	if sd == 0 {
		return true, "adequate"
	}

	outliers := 0
	for _, v := range data {
		if math.Abs(v-mean) > 3*sd {
			outliers++
		}
	}
	if float64(outliers)/float64(len(data)) > 0.05 {
		return false, fmt.Sprintf("%d extreme values detected (beyond 3 SD)", outliers)
	}
	return true, "adequate"
}
