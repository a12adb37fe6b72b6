package stats

import (
	"fmt"
	"math"
	"reflect"

	"statkit/domain/core"
)

// ============================================================================
// TEST KINDS
// ============================================================================

// TestKind identifies the statistical test that produced a Result
type TestKind string

const (
	KindOneSampleT        TestKind = "one_sample_t"
	KindPairedT           TestKind = "paired_t"
	KindIndependentT      TestKind = "independent_t"
	KindLevene            TestKind = "levene"
	KindFTest             TestKind = "f_test"
	KindOneWayANOVA       TestKind = "one_way_anova"
	KindWilcoxonOneSample TestKind = "wilcoxon_one_sample"
	KindWilcoxonPaired    TestKind = "wilcoxon_paired"
	KindMannWhitney       TestKind = "mann_whitney"
	KindKruskalWallis     TestKind = "kruskal_wallis"
	KindGoodnessOfFit     TestKind = "chi_square_gof"
	KindAssociation       TestKind = "chi_square_association"
	KindSpearman          TestKind = "spearman"
	KindDetermination     TestKind = "determination"
	KindLinearRegression  TestKind = "linear_regression"
)

// AllKinds lists every supported test in menu order.
func AllKinds() []TestKind {
	return []TestKind{
		KindOneSampleT, KindPairedT, KindIndependentT, KindLevene, KindFTest, KindOneWayANOVA,
		KindWilcoxonOneSample, KindWilcoxonPaired, KindMannWhitney, KindKruskalWallis,
		KindGoodnessOfFit, KindAssociation,
		KindSpearman, KindDetermination, KindLinearRegression,
	}
}

const (
	// DefaultAlpha is the significance level used when the caller supplies none
	DefaultAlpha = 0.05
	// DefaultNormalityMinSize is the sample size below which normality is flagged
	DefaultNormalityMinSize = 30
)

// ============================================================================
// INPUT PARAMETERS
// ============================================================================

// Hypotheses is the free-text null/alternative pair carried through a test run
type Hypotheses struct {
	Null        string `json:"null" yaml:"null"`
	Alternative string `json:"alternative" yaml:"alternative"`
}

const (
	defaultNullHypothesis        = "No significant difference/effect"
	defaultAlternativeHypothesis = "Significant difference/effect exists"
)

// WithDefaults fills empty statements with the generic defaults
func (h Hypotheses) WithDefaults() Hypotheses {
	if h.Null == "" {
		h.Null = defaultNullHypothesis
	}
	if h.Alternative == "" {
		h.Alternative = defaultAlternativeHypothesis
	}
	return h
}

// Options carries the parameters shared by every test
type Options struct {
	Alpha            float64    // 0 means DefaultAlpha
	Hypotheses       Hypotheses // empty statements get defaults
	NormalityMinSize int        // 0 means DefaultNormalityMinSize
}

// Resolve applies defaults and validates alpha
func (o Options) Resolve() (Options, error) {
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if !(o.Alpha > 0 && o.Alpha < 1) {
		return o, core.NewPreconditionError(core.ErrInvalidParameter, fmt.Sprintf("alpha must be in (0, 1), got %g", o.Alpha))
	}
	if o.NormalityMinSize < 0 {
		return o, core.NewPreconditionError(core.ErrInvalidParameter, fmt.Sprintf("normality minimum size must be positive, got %d", o.NormalityMinSize))
	}
	if o.NormalityMinSize == 0 {
		o.NormalityMinSize = DefaultNormalityMinSize
	}
	o.Hypotheses = o.Hypotheses.WithDefaults()
	return o, nil
}

// ============================================================================
// RESULT RECORD
// ============================================================================

// Decision is the outcome of comparing the p-value to alpha
type Decision string

const (
	DecisionReject       Decision = "reject"
	DecisionFailToReject Decision = "fail_to_reject"
	DecisionUndefined    Decision = "undefined"
)

// Interval is a two-sided confidence interval
type Interval struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Level float64 `json:"level" yaml:"level"` // e.g. 0.95
}

// Result is the common output of every test.
// INVARIANTS:
// - TestName and Kind always set
// - Error set => no numeric base fields, no detail block
// - no NaN or Inf anywhere (see Finite)
type Result struct {
	TestName           string     `json:"test_name" yaml:"test_name"`
	Kind               TestKind   `json:"kind" yaml:"kind"`
	StatisticName      string     `json:"statistic_name,omitempty" yaml:"statistic_name,omitempty"`
	Statistic          *float64   `json:"statistic,omitempty" yaml:"statistic,omitempty"`
	PValue             *float64   `json:"p_value,omitempty" yaml:"p_value,omitempty"`
	DegreesOfFreedom   *float64   `json:"degrees_of_freedom,omitempty" yaml:"degrees_of_freedom,omitempty"`
	Alpha              float64    `json:"alpha" yaml:"alpha"`
	Decision           Decision   `json:"decision" yaml:"decision"`
	Interpretation     string     `json:"interpretation,omitempty" yaml:"interpretation,omitempty"`
	EffectSizeName     string     `json:"effect_size_name,omitempty" yaml:"effect_size_name,omitempty"`
	EffectSize         *float64   `json:"effect_size,omitempty" yaml:"effect_size,omitempty"`
	ConfidenceInterval *Interval  `json:"confidence_interval,omitempty" yaml:"confidence_interval,omitempty"`
	Hypotheses         Hypotheses `json:"hypotheses" yaml:"hypotheses"`
	Warnings           []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error              string     `json:"error,omitempty" yaml:"error,omitempty"`

	// Exactly one detail block is set on a successful result
	TTest         *TTestDetails         `json:"t_test,omitempty" yaml:"t_test,omitempty"`
	Levene        *LeveneDetails        `json:"levene,omitempty" yaml:"levene,omitempty"`
	FTest         *FTestDetails         `json:"f_test,omitempty" yaml:"f_test,omitempty"`
	ANOVA         *ANOVADetails         `json:"anova,omitempty" yaml:"anova,omitempty"`
	SignedRank    *SignedRankDetails    `json:"signed_rank,omitempty" yaml:"signed_rank,omitempty"`
	MannWhitney   *MannWhitneyDetails   `json:"mann_whitney,omitempty" yaml:"mann_whitney,omitempty"`
	KruskalWallis *KruskalWallisDetails `json:"kruskal_wallis,omitempty" yaml:"kruskal_wallis,omitempty"`
	GoodnessOfFit *GoodnessOfFitDetails `json:"goodness_of_fit,omitempty" yaml:"goodness_of_fit,omitempty"`
	Association   *AssociationDetails   `json:"association,omitempty" yaml:"association,omitempty"`
	Spearman      *SpearmanDetails      `json:"spearman,omitempty" yaml:"spearman,omitempty"`
	Determination *DeterminationDetails `json:"determination,omitempty" yaml:"determination,omitempty"`
	Regression    *RegressionDetails    `json:"regression,omitempty" yaml:"regression,omitempty"`
}

// TTestDetails backs the one-sample, paired and independent t-tests
type TTestDetails struct {
	N                     int      `json:"n" yaml:"n"`
	N2                    int      `json:"n2,omitempty" yaml:"n2,omitempty"`
	SampleMean            float64  `json:"sample_mean" yaml:"sample_mean"`
	SampleMean2           *float64 `json:"sample_mean_2,omitempty" yaml:"sample_mean_2,omitempty"`
	HypothesizedMean      *float64 `json:"hypothesized_mean,omitempty" yaml:"hypothesized_mean,omitempty"`
	MeanDifference        *float64 `json:"mean_difference,omitempty" yaml:"mean_difference,omitempty"`
	StdDev                float64  `json:"std_dev" yaml:"std_dev"`
	StdDev2               *float64 `json:"std_dev_2,omitempty" yaml:"std_dev_2,omitempty"`
	StdError              float64  `json:"std_error" yaml:"std_error"`
	EqualVariancesAssumed *bool    `json:"equal_variances_assumed,omitempty" yaml:"equal_variances_assumed,omitempty"`
	PooledStd             *float64 `json:"pooled_std,omitempty" yaml:"pooled_std,omitempty"`
	LeveneStatistic       *float64 `json:"levene_statistic,omitempty" yaml:"levene_statistic,omitempty"`
	LeveneP               *float64 `json:"levene_p,omitempty" yaml:"levene_p,omitempty"`
}

// LeveneDetails describes a Brown-Forsythe (median-centred) Levene test
type LeveneDetails struct {
	Groups         int       `json:"groups" yaml:"groups"`
	TotalN         int       `json:"total_n" yaml:"total_n"`
	DFBetween      float64   `json:"df_between" yaml:"df_between"`
	DFWithin       float64   `json:"df_within" yaml:"df_within"`
	GroupVariances []float64 `json:"group_variances" yaml:"group_variances"`
}

// FTestDetails describes the variance-ratio test
type FTestDetails struct {
	DF1           float64 `json:"df1" yaml:"df1"`
	DF2           float64 `json:"df2" yaml:"df2"`
	Variance1     float64 `json:"variance_1" yaml:"variance_1"`
	Variance2     float64 `json:"variance_2" yaml:"variance_2"`
	VarianceRatio float64 `json:"variance_ratio" yaml:"variance_ratio"`
}

// ANOVADetails carries the one-way ANOVA table
type ANOVADetails struct {
	DFBetween   float64   `json:"df_between" yaml:"df_between"`
	DFWithin    float64   `json:"df_within" yaml:"df_within"`
	SSBetween   float64   `json:"ss_between" yaml:"ss_between"`
	SSWithin    float64   `json:"ss_within" yaml:"ss_within"`
	SSTotal     float64   `json:"ss_total" yaml:"ss_total"`
	MSBetween   float64   `json:"ms_between" yaml:"ms_between"`
	MSWithin    float64   `json:"ms_within" yaml:"ms_within"`
	EtaSquared  float64   `json:"eta_squared" yaml:"eta_squared"`
	GroupMeans  []float64 `json:"group_means" yaml:"group_means"`
	GroupSizes  []int     `json:"group_sizes" yaml:"group_sizes"`
	OverallMean float64   `json:"overall_mean" yaml:"overall_mean"`
}

// SignedRankDetails backs both Wilcoxon signed-rank forms
type SignedRankDetails struct {
	N                  int      `json:"n" yaml:"n"` // non-zero differences
	ZerosDropped       int      `json:"zeros_dropped" yaml:"zeros_dropped"`
	WPlus              float64  `json:"w_plus" yaml:"w_plus"`
	WMinus             float64  `json:"w_minus" yaml:"w_minus"`
	Method             string   `json:"method" yaml:"method"` // "exact" or "normal"
	Z                  *float64 `json:"z,omitempty" yaml:"z,omitempty"`
	MedianDifference   float64  `json:"median_difference" yaml:"median_difference"`
	SampleMedian       *float64 `json:"sample_median,omitempty" yaml:"sample_median,omitempty"`
	HypothesizedMedian *float64 `json:"hypothesized_median,omitempty" yaml:"hypothesized_median,omitempty"`
}

// MannWhitneyDetails describes the rank-sum comparison of two samples
type MannWhitneyDetails struct {
	N1                     int     `json:"n1" yaml:"n1"`
	N2                     int     `json:"n2" yaml:"n2"`
	RankSum1               float64 `json:"rank_sum_1" yaml:"rank_sum_1"`
	Z                      float64 `json:"z" yaml:"z"`
	Median1                float64 `json:"median_1" yaml:"median_1"`
	Median2                float64 `json:"median_2" yaml:"median_2"`
	ProbabilitySuperiority float64 `json:"probability_superiority" yaml:"probability_superiority"`
}

// KruskalWallisDetails describes the rank-based one-way analysis
type KruskalWallisDetails struct {
	Groups         int       `json:"groups" yaml:"groups"`
	TotalN         int       `json:"total_n" yaml:"total_n"`
	GroupMedians   []float64 `json:"group_medians" yaml:"group_medians"`
	GroupMeanRanks []float64 `json:"group_mean_ranks" yaml:"group_mean_ranks"`
	TieCorrection  float64   `json:"tie_correction" yaml:"tie_correction"`
	EtaSquared     float64   `json:"eta_squared" yaml:"eta_squared"`
}

// GoodnessOfFitDetails describes a one-way frequency comparison
type GoodnessOfFitDetails struct {
	Observed        []float64 `json:"observed" yaml:"observed"`
	Expected        []float64 `json:"expected" yaml:"expected"`
	Residuals       []float64 `json:"standardized_residuals" yaml:"standardized_residuals"`
	Total           float64   `json:"total" yaml:"total"`
	UniformExpected bool      `json:"uniform_expected" yaml:"uniform_expected"`
	CramersV        float64   `json:"cramers_v" yaml:"cramers_v"`
}

// AssociationDetails describes a contingency-table independence test
type AssociationDetails struct {
	Rows                   int         `json:"rows" yaml:"rows"`
	Cols                   int         `json:"cols" yaml:"cols"`
	Total                  float64     `json:"total" yaml:"total"`
	RowTotals              []float64   `json:"row_totals" yaml:"row_totals"`
	ColTotals              []float64   `json:"col_totals" yaml:"col_totals"`
	Expected               [][]float64 `json:"expected" yaml:"expected"`
	StandardizedResiduals  [][]float64 `json:"standardized_residuals" yaml:"standardized_residuals"`
	YatesCorrected         bool        `json:"yates_corrected" yaml:"yates_corrected"`
	CramersV               float64     `json:"cramers_v" yaml:"cramers_v"`
	Phi                    *float64    `json:"phi,omitempty" yaml:"phi,omitempty"`
	ContingencyCoefficient float64     `json:"contingency_coefficient" yaml:"contingency_coefficient"`
}

// SpearmanDetails describes a rank correlation
type SpearmanDetails struct {
	N          int      `json:"n" yaml:"n"`
	Rho        float64  `json:"rho" yaml:"rho"`
	Strength   string   `json:"strength" yaml:"strength"`
	TStatistic *float64 `json:"t_statistic,omitempty" yaml:"t_statistic,omitempty"`
	XTies      int      `json:"x_ties" yaml:"x_ties"`
	YTies      int      `json:"y_ties" yaml:"y_ties"`
}

// DeterminationDetails describes R² and its companions
type DeterminationDetails struct {
	N                int       `json:"n" yaml:"n"`
	R                float64   `json:"r" yaml:"r"`
	RSquared         float64   `json:"r_squared" yaml:"r_squared"`
	AdjustedRSquared float64   `json:"adjusted_r_squared" yaml:"adjusted_r_squared"`
	FStatistic       *float64  `json:"f_statistic,omitempty" yaml:"f_statistic,omitempty"`
	Slope            float64   `json:"slope" yaml:"slope"`
	Intercept        float64   `json:"intercept" yaml:"intercept"`
	RMSE             float64   `json:"rmse" yaml:"rmse"`
	RSquaredCI       *Interval `json:"r_squared_ci,omitempty" yaml:"r_squared_ci,omitempty"`
}

// ANOVARow is one line of a regression ANOVA table
type ANOVARow struct {
	Source string   `json:"source" yaml:"source"`
	SS     float64  `json:"ss" yaml:"ss"`
	DF     float64  `json:"df" yaml:"df"`
	MS     *float64 `json:"ms,omitempty" yaml:"ms,omitempty"`
	F      *float64 `json:"f,omitempty" yaml:"f,omitempty"`
	P      *float64 `json:"p,omitempty" yaml:"p,omitempty"`
}

// RegressionDetails carries a full simple linear regression
type RegressionDetails struct {
	N                 int        `json:"n" yaml:"n"`
	Slope             float64    `json:"slope" yaml:"slope"`
	Intercept         float64    `json:"intercept" yaml:"intercept"`
	R                 float64    `json:"r" yaml:"r"`
	RSquared          float64    `json:"r_squared" yaml:"r_squared"`
	AdjustedRSquared  float64    `json:"adjusted_r_squared" yaml:"adjusted_r_squared"`
	SlopeStdError     float64    `json:"slope_std_error" yaml:"slope_std_error"`
	InterceptStdError float64    `json:"intercept_std_error" yaml:"intercept_std_error"`
	SlopeT            *float64   `json:"slope_t,omitempty" yaml:"slope_t,omitempty"`
	SlopeP            float64    `json:"slope_p" yaml:"slope_p"`
	SlopeCI           Interval   `json:"slope_ci" yaml:"slope_ci"`
	ResidualStdError  float64    `json:"residual_std_error" yaml:"residual_std_error"`
	FStatistic        *float64   `json:"f_statistic,omitempty" yaml:"f_statistic,omitempty"`
	FP                float64    `json:"f_p_value" yaml:"f_p_value"`
	Table             []ANOVARow `json:"anova_table" yaml:"anova_table"`
	DurbinWatson      *float64   `json:"durbin_watson,omitempty" yaml:"durbin_watson,omitempty"`
	Residuals         []float64  `json:"residuals" yaml:"residuals"`
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewResult starts a record for a resolved set of options
func NewResult(kind TestKind, name string, opts Options) *Result {
	return &Result{
		TestName:   name,
		Kind:       kind,
		Alpha:      opts.Alpha,
		Decision:   DecisionUndefined,
		Hypotheses: opts.Hypotheses,
	}
}

// NewUndefinedResult builds the record returned when a test is mathematically undefined
func NewUndefinedResult(kind TestKind, name string, opts Options, warnings []string, reason string) *Result {
	r := NewResult(kind, name, opts)
	r.Warnings = warnings
	r.Error = reason
	return r
}

// NewErrorResult wraps a precondition failure so batch callers can keep going
func NewErrorResult(kind TestKind, name string, err error) *Result {
	return &Result{
		TestName: name,
		Kind:     kind,
		Decision: DecisionUndefined,
		Error:    err.Error(),
	}
}

// Float returns a pointer to v, for optional fields
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v
func Bool(v bool) *bool {
	return &v
}

// Warn appends an assumption warning
func (r *Result) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Conclude records the p-value and the decision at the result's alpha
func (r *Result) Conclude(pValue float64) {
	pValue = ClampProbability(pValue)
	r.PValue = &pValue
	if pValue < r.Alpha {
		r.Decision = DecisionReject
		r.Interpretation = fmt.Sprintf("Reject H0 at α = %g", r.Alpha)
	} else {
		r.Decision = DecisionFailToReject
		r.Interpretation = fmt.Sprintf("Fail to reject H0 at α = %g", r.Alpha)
	}
}

// Failed reports whether the result carries an error instead of statistics
func (r *Result) Failed() bool {
	return r.Error != ""
}

// ClampProbability pins rounding noise into [0, 1]
func ClampProbability(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Finite reports whether every float reachable from the record is finite
func (r *Result) Finite() bool {
	return finiteValue(reflect.ValueOf(r))
}

func finiteValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float64, reflect.Float32:
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return finiteValue(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !finiteValue(v.Field(i)) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !finiteValue(v.Index(i)) {
				return false
			}
		}
	}
	return true
}
