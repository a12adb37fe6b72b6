package dataset

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/internal/errors"
)

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []float64
		wantErr bool
	}{
		{"plain", "1,2,3", []float64{1, 2, 3}, false},
		{"spaces and blanks", " 1.5 , ,-2,, 4e1 ", []float64{1.5, -2, 40}, false},
		{"word", "1, two, 3", nil, true},
		{"nan", "1, NaN", nil, true},
		{"only commas", " , ,", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommaSeparated(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreAddGetRemove(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Add("before", []float64{1, 2, 3}))
	assert.True(t, s.Add("after", []float64{4, 5}))
	assert.False(t, s.Add("before", []float64{9}), "duplicate names are rejected")
	assert.False(t, s.Add("  ", []float64{1}))
	assert.False(t, s.Add("empty", nil))

	assert.Equal(t, []string{"before", "after"}, s.List())
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get("before")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, got)

	got[0] = 100
	again, _ := s.Get("before")
	assert.Equal(t, 1.0, again[0], "Get returns a copy")

	ds, ok := s.Dataset("after")
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, ds.ID)

	assert.True(t, s.Remove("before"))
	assert.False(t, s.Remove("before"))
	_, ok = s.Get("before")
	assert.False(t, ok)
	assert.Equal(t, []string{"after"}, s.List())
}

func TestStoreAddText(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddText("scores", "10, 12, 14"))
	got, _ := s.Get("scores")
	assert.Equal(t, []float64{10, 12, 14}, got)

	err := s.AddText("scores", "1,2")
	assert.True(t, errors.HasCode(err, errors.CodeAlreadyExists))

	err = s.AddText("bad", "1,x")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	_, ok := s.Get("bad")
	assert.False(t, ok)
}

func TestStoreSummary(t *testing.T) {
	s := NewStore()
	require.True(t, s.Add("d", []float64{2, 4, 4, 4, 5, 5, 7, 9}))
	require.True(t, s.Add("single", []float64{3}))

	sum, err := s.Summary("d")
	require.NoError(t, err)
	assert.Equal(t, 8, sum.Count)
	assert.InDelta(t, 5.0, sum.Mean, 1e-12)
	assert.InDelta(t, 4.5, sum.Median, 1e-12)
	// sample SD: sqrt(32/7)
	assert.InDelta(t, 2.138089935299395, sum.StdDev, 1e-12)
	assert.Equal(t, 2.0, sum.Min)
	assert.Equal(t, 9.0, sum.Max)

	sum, err = s.Summary("single")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum.StdDev)
	assert.Equal(t, 3.0, sum.Median)

	_, err = s.Summary("missing")
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}
