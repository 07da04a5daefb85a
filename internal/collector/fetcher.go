package collector

import (
	"context"

	"IndexCompare/internal/model"
)

// Fetcher performs one remote lookup of an index over a range no longer than the
// provider's span limit. Zero records with a nil error means no trading days in r.
type Fetcher interface {
	Fetch(ctx context.Context, seriesID string, r model.DateRange) ([]model.Record, error)
	Name() string
}
