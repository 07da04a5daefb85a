package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexCompare/internal/model"
)

func series(id string, closes ...float64) model.Series {
	s := model.Series{ID: id}
	for i, c := range closes {
		s.Records = append(s.Records, model.Record{SeriesID: id, Date: model.NewDate(2023, 1, 1+i), Close: c})
	}
	return s
}

func TestNormalize_TwoRecordScenario(t *testing.T) {
	ns, err := Normalize(series("NIFTY 50", 10050, 10150))
	require.NoError(t, err)
	assert.Equal(t, "NIFTY 50", ns.ID)
	require.Len(t, ns.Points, 2)
	assert.Equal(t, 100.0, ns.Points[0].Value)
	assert.InDelta(t, 100.995, ns.Points[1].Value, 0.001)
	assert.Equal(t, model.NewDate(2023, 1, 2), ns.Points[1].Date)
}

func TestNormalize_FirstPointIsBase(t *testing.T) {
	for _, closes := range [][]float64{{1}, {0.5, 3, 2}, {18000, 17500, 19000, 21000}} {
		ns, err := Normalize(series("NIFTY IT", closes...))
		require.NoError(t, err)
		assert.Equal(t, Base, ns.Points[0].Value)
	}
}

func TestNormalize_ScaleInvariant(t *testing.T) {
	a, err := Normalize(series("A", 100, 120, 90, 150))
	require.NoError(t, err)
	b, err := Normalize(series("B", 1000, 1200, 900, 1500))
	require.NoError(t, err)
	assert.InDeltaSlice(t, a.Values(), b.Values(), 1e-9)
}

func TestNormalize_Empty(t *testing.T) {
	_, err := Normalize(model.Series{ID: "NIFTY 50"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
	assert.Equal(t, model.KindEmptySeries, model.KindOf(err))
}

func TestNormalize_ZeroBase(t *testing.T) {
	_, err := Normalize(series("X", 0, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
	assert.Equal(t, model.KindEmptySeries, model.KindOf(err))
}

func TestNormalize_InputUntouched(t *testing.T) {
	s := series("NIFTY BANK", 40000, 41000)
	_, err := Normalize(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{40000, 41000}, s.Closes())
}

func TestSummarize(t *testing.T) {
	ns, err := Normalize(series("NIFTY 50", 100, 110, 88, 99, 120))
	require.NoError(t, err)

	perf, err := Summarize(ns)
	require.NoError(t, err)
	assert.Equal(t, 100.0, perf.First)
	assert.InDelta(t, 120.0, perf.Last, 1e-9)
	assert.InDelta(t, 20.0, perf.Change, 1e-9)
	assert.InDelta(t, 120.0, perf.High, 1e-9)
	assert.Equal(t, model.NewDate(2023, 1, 5), perf.HighDate)
	assert.InDelta(t, 88.0, perf.Low, 1e-9)
	assert.Equal(t, model.NewDate(2023, 1, 3), perf.LowDate)
	assert.InDelta(t, 20.0, perf.MaxDrawdown, 1e-9)
}

func TestSummarize_MonotonicHasNoDrawdown(t *testing.T) {
	ns, err := Normalize(series("NIFTY 50", 10, 11, 12))
	require.NoError(t, err)
	perf, err := Summarize(ns)
	require.NoError(t, err)
	assert.Zero(t, perf.MaxDrawdown)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(model.NormalizedSeries{ID: "NIFTY 50"})
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
}

func TestOutperformance(t *testing.T) {
	assert.InDelta(t, 5.0, Outperformance(model.Performance{Change: 12}, model.Performance{Change: 7}), 1e-9)
}
