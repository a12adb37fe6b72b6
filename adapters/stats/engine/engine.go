package engine

import (
	"context"
	"fmt"

	"statkit/adapters/stats/categorical"
	"statkit/adapters/stats/correlation"
	"statkit/adapters/stats/nonparametric"
	"statkit/adapters/stats/parametric"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
)

// Request is one fully resolved test invocation
type Request struct {
	Kind stats.TestKind

	Samples  [][]float64 // one or two samples (x, y for correlation)
	Groups   [][]float64 // k-sample tests; Samples are used when empty
	Table    [][]float64 // contingency table
	Expected []float64   // goodness of fit; nil means equal frequencies

	Mu            float64 // one-sample t
	Median        float64 // one-sample Wilcoxon
	VarianceModel parametric.VarianceModel

	Options stats.Options
}

// StatsEngine dispatches requests to the test suites
type StatsEngine struct {
	logger   *internal.Logger
	defaults stats.Options
}

// NewStatsEngine creates an engine. defaults fill in options a request
// leaves at their zero value.
func NewStatsEngine(logger *internal.Logger, defaults stats.Options) *StatsEngine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StatsEngine{logger: logger, defaults: defaults}
}

var titles = map[stats.TestKind]string{
	stats.KindOneSampleT:        "One-Sample Student's t-test",
	stats.KindPairedT:           "Paired Samples t-test",
	stats.KindIndependentT:      "Independent Samples t-test",
	stats.KindLevene:            "Levene's Test for Equality of Variances",
	stats.KindFTest:             "F-test for Equality of Variances",
	stats.KindOneWayANOVA:       "One-way ANOVA",
	stats.KindWilcoxonOneSample: "Wilcoxon Signed-Rank Test",
	stats.KindWilcoxonPaired:    "Wilcoxon Signed-Rank Test (Paired)",
	stats.KindMannWhitney:       "Mann-Whitney U Test",
	stats.KindKruskalWallis:     "Kruskal-Wallis H Test",
	stats.KindGoodnessOfFit:     "Chi-square Goodness of Fit Test",
	stats.KindAssociation:       "Chi-square Test of Independence",
	stats.KindSpearman:          "Spearman's Rank Correlation",
	stats.KindDetermination:     "Coefficient of Determination",
	stats.KindLinearRegression:  "Simple Linear Regression",
}

// Kinds lists the supported tests
func (e *StatsEngine) Kinds() []stats.TestKind {
	return stats.AllKinds()
}

// Title returns the display name of a test kind
func Title(kind stats.TestKind) string {
	if t, ok := titles[kind]; ok {
		return t
	}
	return string(kind)
}

// Run executes a single request
func (e *StatsEngine) Run(ctx context.Context, req Request) (*stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req.Options = e.withDefaults(req.Options)
	e.logger.Debug("running %s (alpha=%g)", req.Kind, req.Options.Alpha)

	result, err := e.dispatch(req)
	if err != nil {
		e.logger.Debug("%s rejected: %v", req.Kind, err)
		return nil, err
	}
	if result.Failed() {
		e.logger.Warn("%s undefined: %s", req.Kind, result.Error)
	} else {
		e.logger.Debug("%s done: decision=%s warnings=%d", req.Kind, result.Decision, len(result.Warnings))
	}
	return result, nil
}

// RunBatch runs requests one after another. Precondition failures and
// unknown kinds become error records so later requests still run; a
// cancelled context stops the batch.
func (e *StatsEngine) RunBatch(ctx context.Context, reqs []Request) []*stats.Result {
	results := make([]*stats.Result, 0, len(reqs))
	for i, req := range reqs {
		result, err := e.Run(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				e.logger.Info("batch stopped after %d of %d requests: %v", i, len(reqs), ctx.Err())
				break
			}
			result = stats.NewErrorResult(req.Kind, Title(req.Kind), err)
		}
		results = append(results, result)
	}
	return results
}

func (e *StatsEngine) withDefaults(opts stats.Options) stats.Options {
	if opts.Alpha == 0 {
		opts.Alpha = e.defaults.Alpha
	}
	if opts.NormalityMinSize == 0 {
		opts.NormalityMinSize = e.defaults.NormalityMinSize
	}
	if opts.Hypotheses.Null == "" {
		opts.Hypotheses.Null = e.defaults.Hypotheses.Null
	}
	if opts.Hypotheses.Alternative == "" {
		opts.Hypotheses.Alternative = e.defaults.Hypotheses.Alternative
	}
	return opts
}

func (e *StatsEngine) dispatch(req Request) (*stats.Result, error) {
	opts := req.Options
	switch req.Kind {
	case stats.KindOneSampleT:
		s, err := samples(req, 1)
		if err != nil {
			return nil, err
		}
		return parametric.OneSampleT(s[0], req.Mu, opts)
	case stats.KindPairedT:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return parametric.PairedT(s[0], s[1], opts)
	case stats.KindIndependentT:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return parametric.IndependentT(s[0], s[1], opts, req.VarianceModel)
	case stats.KindFTest:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return parametric.FTest(s[0], s[1], opts)
	case stats.KindLevene:
		return parametric.Levene(groups(req), opts)
	case stats.KindOneWayANOVA:
		return parametric.OneWayANOVA(groups(req), opts)
	case stats.KindWilcoxonOneSample:
		s, err := samples(req, 1)
		if err != nil {
			return nil, err
		}
		return nonparametric.WilcoxonOneSample(s[0], req.Median, opts)
	case stats.KindWilcoxonPaired:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return nonparametric.WilcoxonPaired(s[0], s[1], opts)
	case stats.KindMannWhitney:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return nonparametric.MannWhitneyU(s[0], s[1], opts)
	case stats.KindKruskalWallis:
		return nonparametric.KruskalWallis(groups(req), opts)
	case stats.KindGoodnessOfFit:
		s, err := samples(req, 1)
		if err != nil {
			return nil, err
		}
		return categorical.GoodnessOfFit(s[0], req.Expected, opts)
	case stats.KindAssociation:
		return categorical.Association(req.Table, opts)
	case stats.KindSpearman:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return correlation.Spearman(s[0], s[1], opts)
	case stats.KindDetermination:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return correlation.Determination(s[0], s[1], opts)
	case stats.KindLinearRegression:
		s, err := samples(req, 2)
		if err != nil {
			return nil, err
		}
		return correlation.LinearRegression(s[0], s[1], opts)
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownTest, req.Kind)
}

func samples(req Request, want int) ([][]float64, error) {
	if len(req.Samples) != want {
		return nil, core.NewPreconditionError(core.ErrInsufficientData,
			fmt.Sprintf("%s expects %d sample(s), got %d", Title(req.Kind), want, len(req.Samples)))
	}
	return req.Samples, nil
}

func groups(req Request) [][]float64 {
	if len(req.Groups) > 0 {
		return req.Groups
	}
	return req.Samples
}
