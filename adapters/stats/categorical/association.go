package categorical

import (
	"math"

	"statkit/adapters/stats/numeric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// Association tests independence of the rows and columns of a contingency
// table. 2x2 tables get the Yates continuity correction.
func Association(table [][]float64, opts stats.Options) (*stats.Result, error) {
	const name = "Chi-square Test of Independence"
	opts, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if ok, msg := validation.ContingencyTable(table); !ok {
		return nil, core.NewPreconditionError(core.ErrInvalidContingencyTable, msg)
	}

	rows, cols := len(table), len(table[0])
	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	for i, row := range table {
		rowTotals[i] = numeric.Sum(row)
		for j, v := range row {
			colTotals[j] += v
		}
	}
	total := numeric.Sum(rowTotals)

	r := stats.NewResult(stats.KindAssociation, name, opts)
	for _, t := range append(append([]float64(nil), rowTotals...), colTotals...) {
		if t == 0 {
			return stats.NewUndefinedResult(r.Kind, name, opts, r.Warnings,
				"a row or column total is zero; expected frequencies are undefined"), nil
		}
	}

	expected := make([][]float64, rows)
	lowExpected := false
	for i := range expected {
		expected[i] = make([]float64, cols)
		for j := range expected[i] {
			e := rowTotals[i] * colTotals[j] / total
			expected[i][j] = e
			if e < 5 {
				lowExpected = true
			}
		}
	}
	if lowExpected {
		r.Warn("Some expected frequencies < 5. Consider Fisher's exact test.")
	}
	if total < 30 {
		r.Warn("Total sample size < 30. Results may be unreliable.")
	}

	yates := rows == 2 && cols == 2
	chi2 := 0.0
	residuals := make([][]float64, rows)
	for i, row := range table {
		residuals[i] = make([]float64, cols)
		for j, o := range row {
			e := expected[i][j]
			residuals[i][j] = (o - e) / math.Sqrt(e)

			d := o - e
			if yates {
				// pull O toward E by at most 0.5
				shrink := math.Min(0.5, math.Abs(d))
				d = math.Copysign(math.Abs(d)-shrink, d)
			}
			chi2 += d * d / e
		}
	}

	df := float64((rows - 1) * (cols - 1))
	minDim := math.Min(float64(rows-1), float64(cols-1))
	v := math.Sqrt(chi2 / (total * minDim))

	details := &stats.AssociationDetails{
		Rows:                   rows,
		Cols:                   cols,
		Total:                  total,
		RowTotals:              rowTotals,
		ColTotals:              colTotals,
		Expected:               expected,
		StandardizedResiduals:  residuals,
		YatesCorrected:         yates,
		CramersV:               v,
		ContingencyCoefficient: math.Sqrt(chi2 / (chi2 + total)),
	}
	if yates {
		details.Phi = stats.Float(math.Sqrt(chi2 / total))
	}

	r.StatisticName = "chi2"
	r.Statistic = stats.Float(chi2)
	r.DegreesOfFreedom = stats.Float(df)
	r.EffectSizeName = "cramers_v"
	r.EffectSize = stats.Float(v)
	r.Conclude(numeric.ChiSquareSurvival(chi2, df))
	r.Association = details
	return r, nil
}
