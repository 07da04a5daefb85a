package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexCompare/internal/catalog"
	"IndexCompare/internal/model"
)

func testCatalog() catalog.Catalog {
	return catalog.New(catalog.Group{Name: "Broad", IDs: []string{"NIFTY 50", "NIFTY BANK"}})
}

func TestRetrieveSeries_TwoRecordScenario(t *testing.T) {
	fetcher := &MockFetcher{Data: map[string][]model.Record{
		"NIFTY 50": {
			{Date: model.NewDate(2023, 1, 2), Open: 10050, High: 10200, Low: 10000, Close: 10150},
			{Date: model.NewDate(2023, 1, 1), Open: 10000, High: 10100, Low: 9900, Close: 10050},
		},
	}}
	col := NewCollector(fetcher, testCatalog())

	series, err := col.RetrieveSeries(context.Background(), "NIFTY 50", model.NewDate(2023, 1, 1), model.NewDate(2023, 1, 2))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, model.NewDate(2023, 1, 1), series.Records[0].Date)
	assert.Equal(t, model.NewDate(2023, 1, 2), series.Records[1].Date)
	assert.Equal(t, []float64{10050, 10150}, series.Closes())
	assert.Len(t, fetcher.Calls(), 1)
}

func TestRetrieveSeries_ChunksLongRange(t *testing.T) {
	start := model.NewDate(2022, 1, 1)
	end := start.AddDate(0, 0, 399)
	r := model.DateRange{Start: start, End: end}
	fetcher := &MockFetcher{Data: map[string][]model.Record{
		"NIFTY BANK": GenerateMockRecords("NIFTY BANK", r, 40000),
	}}
	col := NewCollector(fetcher, testCatalog(), WithMaxSpanDays(365))

	series, err := col.RetrieveSeries(context.Background(), "NIFTY BANK", start, end)
	require.NoError(t, err)

	calls := fetcher.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, start, calls[0].Range.Start)
	assert.Equal(t, calls[0].Range.End.AddDate(0, 0, 1), calls[1].Range.Start)
	assert.Equal(t, end, calls[1].Range.End)

	assert.Equal(t, len(fetcher.Data["NIFTY BANK"]), series.Len())
	for i := 1; i < series.Len(); i++ {
		assert.True(t, series.Records[i-1].Date.Before(series.Records[i].Date))
	}
}

func TestRetrieveSeries_UnknownIndexMakesNoCalls(t *testing.T) {
	fetcher := &MockFetcher{}
	col := NewCollector(fetcher, testCatalog())

	_, err := col.RetrieveSeries(context.Background(), "INVALID INDEX", model.NewDate(2023, 1, 1), model.NewDate(2023, 1, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidSeries))
	assert.Empty(t, fetcher.Calls())
}

func TestRetrieveSeries_ReversedRange(t *testing.T) {
	fetcher := &MockFetcher{}
	col := NewCollector(fetcher, testCatalog())

	_, err := col.RetrieveSeries(context.Background(), "NIFTY 50", model.NewDate(2023, 2, 1), model.NewDate(2023, 1, 1))
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidRange, model.KindOf(err))
	assert.Empty(t, fetcher.Calls())
}

func TestRetrieveSeries_NoDataAcrossAllChunks(t *testing.T) {
	fetcher := &MockFetcher{}
	col := NewCollector(fetcher, testCatalog(), WithMaxSpanDays(30))

	_, err := col.RetrieveSeries(context.Background(), "NIFTY 50", model.NewDate(2023, 1, 1), model.NewDate(2023, 3, 31))
	require.Error(t, err)

	var nd *model.NoDataError
	require.True(t, errors.As(err, &nd))
	assert.Equal(t, "NIFTY 50", nd.SeriesID)
	assert.Equal(t, model.NewDate(2023, 1, 1), nd.Range.Start)
	assert.Len(t, fetcher.Calls(), 3)
}

func TestRetrieveSeries_EmptyChunkIsNotAnError(t *testing.T) {
	fetcher := &MockFetcher{Data: map[string][]model.Record{
		"NIFTY 50": {{Date: model.NewDate(2023, 2, 10), Close: 17800}},
	}}
	col := NewCollector(fetcher, testCatalog(), WithMaxSpanDays(31))

	series, err := col.RetrieveSeries(context.Background(), "NIFTY 50", model.NewDate(2023, 1, 1), model.NewDate(2023, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestRetrieveSeries_FailFastAnnotatesChunk(t *testing.T) {
	start := model.NewDate(2022, 1, 1)
	end := model.NewDate(2023, 12, 31)
	failing := model.NewDate(2023, 1, 1)
	cause := &model.TransportError{Endpoint: "nse", StatusCode: 503, Err: errors.New("unavailable")}

	fetcher := &MockFetcher{
		Data:   map[string][]model.Record{"NIFTY 50": GenerateMockRecords("NIFTY 50", model.DateRange{Start: start, End: end}, 18000)},
		Errors: map[string]error{MockErrorKey("NIFTY 50", failing): cause},
	}
	col := NewCollector(fetcher, testCatalog(), WithMaxSpanDays(365))

	series, err := col.RetrieveSeries(context.Background(), "NIFTY 50", start, end)
	require.Error(t, err)
	assert.True(t, series.Empty())
	assert.True(t, errors.Is(err, model.ErrTransport))

	var ce *model.ChunkError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, failing, ce.Range.Start)
	assert.Equal(t, model.NewDate(2023, 12, 31), ce.Range.End)
	assert.Len(t, fetcher.Calls(), 2)
}

func TestRetrieveSeries_StopsOnFirstFailure(t *testing.T) {
	start := model.NewDate(2020, 1, 1)
	fetcher := &MockFetcher{
		Errors: map[string]error{MockErrorKey("NIFTY 50", start): errors.New("boom")},
	}
	col := NewCollector(fetcher, testCatalog())

	_, err := col.RetrieveSeries(context.Background(), "NIFTY 50", start, model.NewDate(2023, 12, 31))
	require.Error(t, err)
	assert.Len(t, fetcher.Calls(), 1)
}

func TestRetrieveSeries_ParallelKeepsContract(t *testing.T) {
	start := model.NewDate(2015, 1, 1)
	end := model.NewDate(2023, 12, 31)
	r := model.DateRange{Start: start, End: end}
	fetcher := &MockFetcher{Data: map[string][]model.Record{
		"NIFTY BANK": GenerateMockRecords("NIFTY BANK", r, 30000),
	}}

	sequential, err := NewCollector(fetcher, testCatalog()).RetrieveSeries(context.Background(), "NIFTY BANK", start, end)
	require.NoError(t, err)

	parallel, err := NewCollector(fetcher, testCatalog(), WithParallelism(4)).RetrieveSeries(context.Background(), "NIFTY BANK", start, end)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestRetrieveSeries_ParallelFailure(t *testing.T) {
	start := model.NewDate(2015, 1, 1)
	end := model.NewDate(2023, 12, 31)
	chunks, err := Chunks(start, end, DefaultMaxSpanDays)
	require.NoError(t, err)

	fetcher := &MockFetcher{Errors: map[string]error{MockErrorKey("NIFTY 50", chunks[3].Start): errors.New("reset by peer")}}
	col := NewCollector(fetcher, testCatalog(), WithParallelism(3))

	_, err = col.RetrieveSeries(context.Background(), "NIFTY 50", start, end)
	require.Error(t, err)
	var ce *model.ChunkError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, chunks[3], ce.Range)
}

func TestRetrieveSeries_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &MockFetcher{}
	col := NewCollector(fetcher, testCatalog())

	_, err := col.RetrieveSeries(ctx, "NIFTY 50", model.NewDate(2023, 1, 1), model.NewDate(2023, 1, 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, fetcher.Calls())
}

func TestRetrieveSeries_IgnoresClockOnInputs(t *testing.T) {
	fetcher := &MockFetcher{Data: map[string][]model.Record{
		"NIFTY 50": {{Date: model.NewDate(2023, 1, 2), Close: 1}},
	}}
	col := NewCollector(fetcher, testCatalog())

	start := time.Date(2023, 1, 2, 18, 0, 0, 0, time.UTC)
	series, err := col.RetrieveSeries(context.Background(), "NIFTY 50", start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	require.Len(t, fetcher.Calls(), 1)
	assert.Equal(t, model.NewDate(2023, 1, 2), fetcher.Calls()[0].Range.Start)
}
