package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
)

func newTestEngine(t *testing.T, defaults stats.Options) (*StatsEngine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := internal.NewLoggerTo(internal.LogLevelDebug, zapcore.AddSync(&buf))
	return NewStatsEngine(logger, defaults), &buf
}

func TestRun_DispatchesEveryKind(t *testing.T) {
	e, _ := newTestEngine(t, stats.Options{})
	a := []float64{2, 1, 3, 4, 6, 5}
	b := []float64{6, 5, 7, 9, 8, 12}

	reqs := map[stats.TestKind]Request{
		stats.KindOneSampleT:        {Samples: [][]float64{a}},
		stats.KindPairedT:           {Samples: [][]float64{a, b}},
		stats.KindIndependentT:      {Samples: [][]float64{a, b}},
		stats.KindLevene:            {Groups: [][]float64{a, b}},
		stats.KindFTest:             {Samples: [][]float64{a, b}},
		stats.KindOneWayANOVA:       {Groups: [][]float64{a, b}},
		stats.KindWilcoxonOneSample: {Samples: [][]float64{a}, Median: 1},
		stats.KindWilcoxonPaired:    {Samples: [][]float64{a, b}},
		stats.KindMannWhitney:       {Samples: [][]float64{a, b}},
		stats.KindKruskalWallis:     {Samples: [][]float64{a, b}},
		stats.KindGoodnessOfFit:     {Samples: [][]float64{{10, 20, 30}}},
		stats.KindAssociation:       {Table: [][]float64{{10, 20}, {30, 40}}},
		stats.KindSpearman:          {Samples: [][]float64{a, b}},
		stats.KindDetermination:     {Samples: [][]float64{a, b}},
		stats.KindLinearRegression:  {Samples: [][]float64{a, b}},
	}
	require.Len(t, reqs, len(e.Kinds()))

	for _, kind := range e.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			req := reqs[kind]
			req.Kind = kind
			r, err := e.Run(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, kind, r.Kind)
			assert.Equal(t, Title(kind), r.TestName)
			assert.False(t, r.Failed(), r.Error)
			assert.True(t, r.Finite())
		})
	}
}

func TestRun_AppliesDefaults(t *testing.T) {
	e, _ := newTestEngine(t, stats.Options{Alpha: 0.01, Hypotheses: stats.Hypotheses{Null: "means equal"}})

	r, err := e.Run(context.Background(), Request{Kind: stats.KindOneSampleT, Samples: [][]float64{{2, 1, 3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, 0.01, r.Alpha)
	assert.Equal(t, "means equal", r.Hypotheses.Null)
	assert.Equal(t, "Significant difference/effect exists", r.Hypotheses.Alternative)

	r, err = e.Run(context.Background(), Request{
		Kind:    stats.KindOneSampleT,
		Samples: [][]float64{{2, 1, 3, 4}},
		Options: stats.Options{Alpha: 0.1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.1, r.Alpha)
}

func TestRun_Errors(t *testing.T) {
	e, _ := newTestEngine(t, stats.Options{})

	_, err := e.Run(context.Background(), Request{Kind: "bogus"})
	assert.True(t, errors.Is(err, core.ErrUnknownTest))

	_, err = e.Run(context.Background(), Request{Kind: stats.KindPairedT, Samples: [][]float64{{1, 2}}})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx, Request{Kind: stats.KindOneSampleT, Samples: [][]float64{{1, 2, 3}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_LogsUndefinedAtWarn(t *testing.T) {
	e, buf := newTestEngine(t, stats.Options{})

	r, err := e.Run(context.Background(), Request{Kind: stats.KindOneSampleT, Samples: [][]float64{{10, 10, 10, 10}}, Mu: 10})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "one_sample_t undefined")
}

func TestRunBatch_ContinuesPastPreconditionFailures(t *testing.T) {
	e, _ := newTestEngine(t, stats.Options{})

	results := e.RunBatch(context.Background(), []Request{
		{Kind: stats.KindPairedT, Samples: [][]float64{{1, 2, 3}, {1, 2}}},
		{Kind: stats.KindOneWayANOVA, Groups: [][]float64{{1, 2, 3}}},
		{Kind: "bogus"},
		{Kind: stats.KindOneSampleT, Samples: [][]float64{{2, 1, 3, 4}}},
	})

	require.Len(t, results, 4)
	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Error, "unequal sample sizes")
	assert.True(t, results[1].Failed())
	assert.Contains(t, results[1].Error, "too few groups")
	assert.True(t, results[2].Failed())
	assert.Equal(t, "bogus", results[2].TestName)
	assert.False(t, results[3].Failed())
	assert.InDelta(t, 3.872983346207417, *results[3].Statistic, 1e-9)
}

func TestRunBatch_StopsOnCancel(t *testing.T) {
	e, _ := newTestEngine(t, stats.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := e.RunBatch(ctx, []Request{
		{Kind: stats.KindOneSampleT, Samples: [][]float64{{1, 2, 3}}},
	})
	assert.Empty(t, results)
}
