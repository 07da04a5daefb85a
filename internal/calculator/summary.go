package calculator

import (
	"fmt"
	"math"

	"IndexCompare/internal/model"
)

// Summarize scans a normalized series and returns its performance over the whole range.
// Change is expressed in percent because the series starts at Base.
func Summarize(ns model.NormalizedSeries) (model.Performance, error) {
	if len(ns.Points) == 0 {
		return model.Performance{}, fmt.Errorf("summarize %s: %w", ns.ID, model.ErrEmptySeries)
	}

	first := ns.Points[0]
	last := ns.Points[len(ns.Points)-1]
	perf := model.Performance{
		First:  first.Value,
		Last:   last.Value,
		Change: (last.Value - first.Value) / first.Value * Base,
		High:   math.Inf(-1),
		Low:    math.Inf(1),
	}

	peak := math.Inf(-1)
	for _, p := range ns.Points {
		if p.Value > perf.High {
			perf.High = p.Value
			perf.HighDate = p.Date
		}
		if p.Value < perf.Low {
			perf.Low = p.Value
			perf.LowDate = p.Date
		}
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak * 100; dd > perf.MaxDrawdown {
				perf.MaxDrawdown = dd
			}
		}
	}
	return perf, nil
}

// Outperformance returns how many percentage points a gained over b.
func Outperformance(a, b model.Performance) float64 {
	return a.Change - b.Change
}
