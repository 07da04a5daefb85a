package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"IndexCompare/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Records are served from Data filtered to the requested range; Errors fails the lookup
// whose range starts on the given date.
type MockFetcher struct {
	Data   map[string][]model.Record
	Errors map[string]error // keyed by series id + "|" + dd-mm-yyyy of the chunk start

	mu    sync.Mutex
	calls []MockCall
}

// MockCall is one recorded Fetch invocation.
type MockCall struct {
	SeriesID string
	Range    model.DateRange
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ctx context.Context, seriesID string, r model.DateRange) ([]model.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{SeriesID: seriesID, Range: r})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[MockErrorKey(seriesID, r.Start)]; ok {
		return nil, err
	}

	var out []model.Record
	for _, rec := range m.Data[seriesID] {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Calls returns the recorded lookups in call order.
func (m *MockFetcher) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// MockErrorKey builds the Errors map key for a chunk starting on start.
func MockErrorKey(seriesID string, start time.Time) string {
	return seriesID + "|" + start.Format(model.DateLayout)
}

// GenerateMockRecords produces one record per calendar day of r, skipping weekends,
// with a gently oscillating close around basePrice.
func GenerateMockRecords(seriesID string, r model.DateRange, basePrice float64) []model.Record {
	var records []model.Record
	i := 0
	for d := model.Day(r.Start); !d.After(model.Day(r.End)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.02*math.Sin(float64(i)/10) + float64(i)*0.0005)
		records = append(records, model.Record{
			SeriesID: seriesID,
			Date:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
		})
		i++
	}
	return records
}
