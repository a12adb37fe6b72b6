package parametric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/core"
	"statkit/domain/stats"
)

var (
	sample1 = []float64{2, 1, 3, 4}
	sample2 = []float64{6, 5, 7, 9}
)

func TestOneSampleT_ReferenceValues(t *testing.T) {
	tests := []struct {
		name string
		mu   float64
		t    float64
		p    float64
	}{
		{"mu zero", 0, 3.872983346207417, 0.030466291662170977},
		{"mu at mean", 2.5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := OneSampleT(sample1, tt.mu, stats.Options{})
			require.NoError(t, err)
			require.False(t, r.Failed())
			require.NotNil(t, r.Statistic)
			assert.InDelta(t, tt.t, *r.Statistic, 1e-9)
			assert.InDelta(t, tt.p, *r.PValue, 1e-9)
			assert.Equal(t, 3.0, *r.DegreesOfFreedom)
			assert.Equal(t, 0.05, r.Alpha)
			assert.True(t, r.Finite())
			assert.Contains(t, r.Warnings, smallSampleWarning)
		})
	}
}

func TestOneSampleT_Decision(t *testing.T) {
	r, err := OneSampleT(sample1, 0, stats.Options{})
	require.NoError(t, err)
	assert.Equal(t, stats.DecisionReject, r.Decision)
	assert.Equal(t, "Reject H0 at α = 0.05", r.Interpretation)

	r, err = OneSampleT(sample1, 0, stats.Options{Alpha: 0.01})
	require.NoError(t, err)
	assert.Equal(t, stats.DecisionFailToReject, r.Decision)
	assert.Equal(t, "Fail to reject H0 at α = 0.01", r.Interpretation)
	assert.Equal(t, "No significant difference/effect", r.Hypotheses.Null)
}

func TestOneSampleT_ConstantAtMu(t *testing.T) {
	r, err := OneSampleT([]float64{10, 10, 10, 10}, 10, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.Nil(t, r.Statistic)
	assert.Nil(t, r.PValue)
	assert.Nil(t, r.TTest)
	assert.Equal(t, stats.DecisionUndefined, r.Decision)
	assert.Equal(t, "One-Sample Student's t-test", r.TestName)
}

func TestOneSampleT_Preconditions(t *testing.T) {
	_, err := OneSampleT([]float64{1}, 0, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = OneSampleT(sample1, 0, stats.Options{Alpha: 1.5})
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
	assert.True(t, core.IsPreconditionError(err))
}

func TestPairedT_ReferenceValues(t *testing.T) {
	r, err := PairedT(sample1, sample2, stats.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 17.0, *r.Statistic, 1e-9)
	assert.InDelta(t, 0.00044334353831207749, *r.PValue, 1e-10)
	assert.Equal(t, 3.0, *r.DegreesOfFreedom)
	require.NotNil(t, r.TTest.MeanDifference)
	assert.InDelta(t, 4.25, *r.TTest.MeanDifference, 1e-12)
}

func TestPairedT_ConstantShift(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}

	r, err := PairedT(a, b, stats.Options{})
	require.NoError(t, err)
	require.False(t, r.Failed())
	assert.Nil(t, r.Statistic)
	assert.Equal(t, 0.0, *r.PValue)
	assert.Equal(t, stats.DecisionReject, r.Decision)
	assert.True(t, r.Finite())
}

func TestPairedT_UnequalLengths(t *testing.T) {
	_, err := PairedT([]float64{1, 2, 3}, []float64{1, 2}, stats.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnequalSampleSizes))
}

func TestIndependentT_ReferenceValues(t *testing.T) {
	r, err := IndependentT(sample1, sample2, stats.Options{}, VarianceAuto)
	require.NoError(t, err)
	assert.InDelta(t, -3.9703446152237674, *r.Statistic, 1e-9)
	assert.InDelta(t, 0.0073640592242113214, *r.PValue, 1e-10)
	assert.Equal(t, 6.0, *r.DegreesOfFreedom)
	assert.True(t, *r.TTest.EqualVariancesAssumed)
	assert.NotNil(t, r.TTest.PooledStd)
	assert.Greater(t, *r.TTest.LeveneP, 0.05)

	r, err = IndependentT(sample1, sample2, stats.Options{}, VarianceWelch)
	require.NoError(t, err)
	assert.InDelta(t, 0.0085128631313781695, *r.PValue, 1e-10)
	assert.InDelta(t, 5.584615384615385, *r.DegreesOfFreedom, 1e-9)
	assert.False(t, *r.TTest.EqualVariancesAssumed)
	assert.Nil(t, r.TTest.PooledStd)
}

func TestIndependentT_SelectsWelchOnUnequalVariances(t *testing.T) {
	narrow := []float64{9, 10, 11, 9, 10, 11, 9, 10, 11, 10}
	wide := []float64{-100, 100, -150, 150, -50, 50, -120, 120, 0, 0}

	for _, model := range []VarianceModel{VarianceAuto, VariancePooled} {
		t.Run(string(model), func(t *testing.T) {
			r, err := IndependentT(narrow, wide, stats.Options{}, model)
			require.NoError(t, err)
			assert.False(t, *r.TTest.EqualVariancesAssumed)
			assert.Less(t, *r.TTest.LeveneP, 0.05)
			assert.NotEmpty(t, r.Warnings)
			assert.True(t, r.Finite())
		})
	}
}

func TestIndependentT_Idempotent(t *testing.T) {
	first, err := IndependentT(sample1, sample2, stats.Options{}, VarianceAuto)
	require.NoError(t, err)
	second, err := IndependentT(sample1, sample2, stats.Options{}, VarianceAuto)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []float64{2, 1, 3, 4}, sample1)
}

func TestIndependentT_ConstantSamples(t *testing.T) {
	r, err := IndependentT([]float64{3, 3, 3}, []float64{3, 3, 3}, stats.Options{}, VarianceAuto)
	require.NoError(t, err)
	assert.True(t, r.Failed())

	r, err = IndependentT([]float64{3, 3, 3}, []float64{5, 5, 5}, stats.Options{}, VarianceAuto)
	require.NoError(t, err)
	assert.False(t, r.Failed())
	assert.Equal(t, 0.0, *r.PValue)
	assert.True(t, r.Finite())
}

func TestParseVarianceModel(t *testing.T) {
	m, err := ParseVarianceModel("")
	require.NoError(t, err)
	assert.Equal(t, VarianceAuto, m)

	m, err = ParseVarianceModel(" Welch ")
	require.NoError(t, err)
	assert.Equal(t, VarianceWelch, m)

	_, err = ParseVarianceModel("student")
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
}

func TestLevene(t *testing.T) {
	r, err := Levene([][]float64{sample1, sample2}, stats.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, *r.Statistic, 1e-12)
	assert.Equal(t, 1.0, r.Levene.DFBetween)
	assert.Equal(t, 6.0, r.Levene.DFWithin)
	assert.Equal(t, stats.DecisionFailToReject, r.Decision)

	_, err = Levene([][]float64{sample1}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrTooFewGroups))

	r, err = Levene([][]float64{{1, 1, 1}, {2, 2, 2}}, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
}

func TestFTest(t *testing.T) {
	r, err := FTest(sample1, sample2, stats.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.75, *r.Statistic, 1e-12)
	assert.GreaterOrEqual(t, *r.Statistic, 1.0)
	assert.Equal(t, 3.0, r.FTest.DF1)
	assert.Equal(t, 3.0, r.FTest.DF2)
	assert.LessOrEqual(t, *r.PValue, 1.0)
	require.NotNil(t, r.ConfidenceInterval)
	assert.Less(t, r.ConfidenceInterval.Lower, 1.75)
	assert.Greater(t, r.ConfidenceInterval.Upper, 1.75)
	assert.True(t, r.Finite())
}

func TestFTest_ConstantSample(t *testing.T) {
	r, err := FTest([]float64{4, 4, 4, 4}, []float64{4, 4, 4, 4}, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.True(t, r.Finite())

	r, err = FTest([]float64{1, 2, 3}, []float64{4, 4, 4}, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
}

func TestOneWayANOVA(t *testing.T) {
	groups := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	r, err := OneWayANOVA(groups, stats.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 27.0, *r.Statistic, 1e-9)
	assert.InDelta(t, 0.001, *r.PValue, 1e-9)
	assert.InDelta(t, 0.9, *r.EffectSize, 1e-12)
	assert.Equal(t, []float64{2, 5, 8}, r.ANOVA.GroupMeans)
	assert.Equal(t, 5.0, r.ANOVA.OverallMean)
	assert.InDelta(t, r.ANOVA.SSTotal, r.ANOVA.SSBetween+r.ANOVA.SSWithin, 1e-9)
}

func TestOneWayANOVA_Preconditions(t *testing.T) {
	_, err := OneWayANOVA([][]float64{{1, 2, 3}}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrTooFewGroups))

	_, err = OneWayANOVA([][]float64{{1, 2}, {}}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = OneWayANOVA([][]float64{{1}, {2}}, stats.Options{})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestOneWayANOVA_ConstantGroups(t *testing.T) {
	r, err := OneWayANOVA([][]float64{{5, 5, 5}, {5, 5, 5}}, stats.Options{})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.True(t, r.Finite())
}
