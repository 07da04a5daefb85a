package model

import "time"

// Record is one trading day of an index.
type Record struct {
	SeriesID string
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
}

// Series holds the records of one index sorted ascending by date, one per date.
type Series struct {
	ID      string
	Records []Record
}

// Len returns the number of records.
func (s Series) Len() int { return len(s.Records) }

// Empty reports whether the series has no records.
func (s Series) Empty() bool { return len(s.Records) == 0 }

// Closes returns the close prices in date order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Records))
	for i, r := range s.Records {
		closes[i] = r.Close
	}
	return closes
}

// Range returns the dates of the first and last records. ok is false for an empty series.
func (s Series) Range() (r DateRange, ok bool) {
	if len(s.Records) == 0 {
		return DateRange{}, false
	}
	return DateRange{Start: s.Records[0].Date, End: s.Records[len(s.Records)-1].Date}, true
}

// NormalizedPoint is a close value rebased so the first point of its series is 100.
type NormalizedPoint struct {
	Date  time.Time
	Value float64
}

// NormalizedSeries is a read-only rebased view of a Series.
type NormalizedSeries struct {
	ID     string
	Points []NormalizedPoint
}

// Dates returns the point dates.
func (n NormalizedSeries) Dates() []time.Time {
	dates := make([]time.Time, len(n.Points))
	for i, p := range n.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the rebased values.
func (n NormalizedSeries) Values() []float64 {
	values := make([]float64, len(n.Points))
	for i, p := range n.Points {
		values[i] = p.Value
	}
	return values
}

// Performance summarizes a normalized series.
type Performance struct {
	First       float64
	Last        float64
	Change      float64 // percent, Last - First on the base-100 scale
	High        float64
	HighDate    time.Time
	Low         float64
	LowDate     time.Time
	MaxDrawdown float64 // percent, peak to trough, >= 0
}

// Comparison is the result of comparing two indices over one range.
type Comparison struct {
	Range DateRange
	A     Series
	B     Series
	NormA NormalizedSeries
	NormB NormalizedSeries
	PerfA Performance
	PerfB Performance
}
