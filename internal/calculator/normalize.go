package calculator

import (
	"fmt"

	"IndexCompare/internal/model"
)

// Base is the value every normalized series starts at.
const Base = 100.0

// Normalize rebases the close prices of series so the first record maps to Base.
// The input is not modified.
func Normalize(series model.Series) (model.NormalizedSeries, error) {
	if series.Empty() {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: %w", series.ID, model.ErrEmptySeries)
	}
	first := series.Records[0].Close
	if first == 0 {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: first close is zero: %w", series.ID, model.ErrEmptySeries)
	}

	points := make([]model.NormalizedPoint, len(series.Records))
	for i, r := range series.Records {
		points[i] = model.NormalizedPoint{Date: r.Date, Value: r.Close / first * Base}
	}
	return model.NormalizedSeries{ID: series.ID, Points: points}, nil
}
