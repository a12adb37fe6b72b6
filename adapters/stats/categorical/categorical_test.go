package categorical

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/core"
	"statkit/domain/stats"
)

func TestGoodnessOfFit_UniformDefault(t *testing.T) {
	r, err := GoodnessOfFit([]float64{10, 10, 10, 10}, nil, stats.Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, *r.Statistic)
	assert.Equal(t, 1.0, *r.PValue)
	assert.Equal(t, 3.0, *r.DegreesOfFreedom)
	assert.Equal(t, []float64{10, 10, 10, 10}, r.GoodnessOfFit.Expected)
	assert.True(t, r.GoodnessOfFit.UniformExpected)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, stats.DecisionFailToReject, r.Decision)
}

func TestGoodnessOfFit_Values(t *testing.T) {
	r, err := GoodnessOfFit([]float64{10, 20, 30}, []float64{20, 20, 20}, stats.Options{})
	require.NoError(t, err)

	assert.InDelta(t, 10.0, *r.Statistic, 1e-12)
	assert.InDelta(t, math.Exp(-5), *r.PValue, 1e-9)
	assert.InDelta(t, math.Sqrt(10.0/120), *r.EffectSize, 1e-12)
	assert.InDeltaSlice(t, []float64{-10 / math.Sqrt(20), 0, 10 / math.Sqrt(20)}, r.GoodnessOfFit.Residuals, 1e-12)
	assert.False(t, r.GoodnessOfFit.UniformExpected)
	assert.Empty(t, r.Warnings)
}

func TestGoodnessOfFit_RescalesExpected(t *testing.T) {
	expected := []float64{1, 1, 2}
	r, err := GoodnessOfFit([]float64{10, 10, 20}, expected, stats.Options{})
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 10, 20}, r.GoodnessOfFit.Expected)
	assert.Equal(t, 0.0, *r.Statistic)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, []float64{1, 1, 2}, expected, "caller slice must not change")
}

func TestGoodnessOfFit_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		observed []float64
		expected []float64
		want     error
	}{
		{"fractional counts", []float64{1.5, 2}, nil, core.ErrInvalidFrequencies},
		{"negative counts", []float64{-1, 2}, nil, core.ErrInvalidFrequencies},
		{"single category", []float64{4}, nil, core.ErrInsufficientData},
		{"length mismatch", []float64{1, 2}, []float64{1}, core.ErrInvalidFrequencies},
		{"zero expected", []float64{1, 2}, []float64{0, 3}, core.ErrInvalidFrequencies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GoodnessOfFit(tt.observed, tt.expected, stats.Options{})
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGoodnessOfFit_ZeroTotal(t *testing.T) {
	r, err := GoodnessOfFit([]float64{0, 0, 0}, nil, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.True(t, r.Finite())
}

func TestAssociation_YatesOnTwoByTwo(t *testing.T) {
	r, err := Association([][]float64{{10, 20}, {30, 40}}, stats.Options{})
	require.NoError(t, err)

	assert.True(t, r.Association.YatesCorrected)
	assert.InDelta(t, 0.4464285714285714, *r.Statistic, 1e-12)
	assert.InDelta(t, 0.5040358664525048, *r.PValue, 1e-9)
	assert.Equal(t, 1.0, *r.DegreesOfFreedom)
	require.NotNil(t, r.Association.Phi)
	assert.InDelta(t, math.Sqrt(0.4464285714285714/100), *r.Association.Phi, 1e-12)
	assert.Equal(t, [][]float64{{12, 18}, {28, 42}}, r.Association.Expected)
	assert.InDelta(t, -2/math.Sqrt(12), r.Association.StandardizedResiduals[0][0], 1e-12)
}

func TestAssociation_TwoByThree(t *testing.T) {
	r, err := Association([][]float64{{10, 15, 20}, {25, 30, 35}}, stats.Options{})
	require.NoError(t, err)

	assert.False(t, r.Association.YatesCorrected)
	assert.Nil(t, r.Association.Phi)
	assert.InDelta(t, 0.5844155844155845, *r.Statistic, 1e-12)
	assert.InDelta(t, 0.746613379411278, *r.PValue, 1e-9)
	assert.InDelta(t, 0.0657951694959769, *r.EffectSize, 1e-12)
	assert.InDelta(t, 0.06565321642986129, r.Association.ContingencyCoefficient, 1e-12)
	assert.Equal(t, []float64{45, 90}, r.Association.RowTotals)
	assert.Equal(t, []float64{35, 45, 55}, r.Association.ColTotals)
}

func TestAssociation_InvalidTable(t *testing.T) {
	_, err := Association([][]float64{{1, 2, 3}}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrInvalidContingencyTable))

	_, err = Association([][]float64{{1, -2}, {3, 4}}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrInvalidContingencyTable))
}

func TestAssociation_ZeroMarginal(t *testing.T) {
	r, err := Association([][]float64{{0, 5}, {0, 7}}, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.True(t, r.Finite())
}
