package collector

import (
	"iter"
	"slices"
	"time"

	"IndexCompare/internal/model"
)

// DefaultMaxSpanDays is the longest range the NSE history endpoint answers in one request.
const DefaultMaxSpanDays = 365

// Partition splits [start, end] into consecutive chunks of at most maxSpanDays days.
// The next chunk starts the day after the previous one ends and the last chunk ends on end.
// The returned sequence is lazy and can be ranged over any number of times.
func Partition(start, end time.Time, maxSpanDays int) (iter.Seq[model.DateRange], error) {
	start, end = model.Day(start), model.Day(end)
	if start.After(end) {
		return nil, &model.RangeError{
			Range:  model.DateRange{Start: start, End: end},
			Reason: "start date must not be after end date",
		}
	}
	if maxSpanDays < 1 {
		return nil, &model.RangeError{
			Range:  model.DateRange{Start: start, End: end},
			Reason: "max span must be at least one day",
		}
	}

	return func(yield func(model.DateRange) bool) {
		for cursor := start; !cursor.After(end); {
			// AddDate overflows for huge spans, so clamp against the days left first.
			chunkEnd := end
			if remaining := int(end.Sub(cursor)/(24*time.Hour)) + 1; maxSpanDays < remaining {
				chunkEnd = cursor.AddDate(0, 0, maxSpanDays-1)
			}
			if !yield(model.DateRange{Start: cursor, End: chunkEnd}) {
				return
			}
			cursor = chunkEnd.AddDate(0, 0, 1)
		}
	}, nil
}

// Chunks is Partition collected into a slice.
func Chunks(start, end time.Time, maxSpanDays int) ([]model.DateRange, error) {
	seq, err := Partition(start, end, maxSpanDays)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}
