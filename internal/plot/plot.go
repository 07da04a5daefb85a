package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"IndexCompare/internal/model"
)

const (
	DefaultTitle  = "Normalized Close Price Comparison"
	DefaultWidth  = 1000
	DefaultHeight = 500

	yAxisName = "Normalized Price (Base = 100)"
)

// Options controls the rendered image. Zero fields take the defaults.
type Options struct {
	Width  int
	Height int
	Title  string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// RenderComparison renders a PNG line chart of two normalized series, one line each,
// with the index names in the legend. Returns raw PNG bytes.
func RenderComparison(a, b model.NormalizedSeries, opts Options) ([]byte, error) {
	for _, ns := range []model.NormalizedSeries{a, b} {
		if len(ns.Points) < 2 {
			return nil, fmt.Errorf("%s: need at least 2 data points, got %d", ns.ID, len(ns.Points))
		}
	}
	opts = opts.withDefaults()

	seriesA := timeSeries(a, chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
		StrokeWidth: 2,
	})
	seriesB := timeSeries(b, chart.Style{
		StrokeColor: drawing.ColorFromHex("ea580c"), // orange-600
		StrokeWidth: 2,
	})

	span := a.Points[len(a.Points)-1].Date.Sub(a.Points[0].Date)
	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateFormatter(span),
		},
		YAxis: chart.YAxis{
			Name: yAxisName,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{seriesA, seriesB},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes png to path, creating parent directories.
func WriteFile(path string, png []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func timeSeries(ns model.NormalizedSeries, style chart.Style) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    ns.ID,
		Style:   style,
		XValues: ns.Dates(),
		YValues: ns.Values(),
	}
}

// dateFormatter picks a tick label granularity for the plotted span.
func dateFormatter(span time.Duration) chart.ValueFormatter {
	layout := "Jan 06"
	if span <= 120*24*time.Hour {
		layout = "02 Jan"
	}
	return func(v interface{}) string {
		if t, ok := v.(float64); ok {
			return chart.TimeFromFloat64(t).Format(layout)
		}
		return ""
	}
}
