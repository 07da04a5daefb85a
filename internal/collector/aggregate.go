package collector

import (
	"slices"
	"time"

	"IndexCompare/internal/model"
)

// Aggregate joins chunk batches into one series. Batches are concatenated in the order
// given, a record whose date was already seen is dropped (first seen wins), and the result
// is sorted ascending by date. Input batches are not modified.
func Aggregate(seriesID string, batches [][]model.Record) model.Series {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := make(map[time.Time]struct{}, total)
	records := make([]model.Record, 0, total)
	for _, batch := range batches {
		for _, r := range batch {
			day := model.Day(r.Date)
			if _, dup := seen[day]; dup {
				continue
			}
			seen[day] = struct{}{}
			r.SeriesID = seriesID
			r.Date = day
			records = append(records, r)
		}
	}

	slices.SortStableFunc(records, func(a, b model.Record) int {
		return a.Date.Compare(b.Date)
	})

	return model.Series{ID: seriesID, Records: records}
}
