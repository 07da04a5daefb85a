package collector

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"IndexCompare/internal/catalog"
	"IndexCompare/internal/model"
)

// Collector retrieves a full index series by fetching it chunk by chunk.
type Collector struct {
	Fetcher     Fetcher
	Catalog     catalog.Catalog
	MaxSpanDays int
	Parallelism int // chunk fetches in flight; <= 1 means sequential in chunk order
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxSpanDays sets the longest range sent in one lookup.
func WithMaxSpanDays(days int) Option {
	return func(c *Collector) {
		c.MaxSpanDays = days
	}
}

// WithParallelism sets how many chunk lookups of one series may run at once.
func WithParallelism(n int) Option {
	return func(c *Collector) {
		c.Parallelism = n
	}
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, cat catalog.Catalog, opts ...Option) *Collector {
	c := &Collector{
		Fetcher:     fetcher,
		Catalog:     cat,
		MaxSpanDays: DefaultMaxSpanDays,
		Parallelism: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RetrieveSeries returns the daily records of seriesID between start and end, sorted by date
// with one record per date. The identifier is checked against the catalog before any lookup.
// The first failing chunk aborts the retrieval and is returned as a *model.ChunkError.
// A retrieval that succeeds but finds no records returns a *model.NoDataError.
func (c *Collector) RetrieveSeries(ctx context.Context, seriesID string, start, end time.Time) (model.Series, error) {
	if err := c.Catalog.Validate(seriesID); err != nil {
		return model.Series{}, err
	}

	seq, err := Partition(start, end, c.MaxSpanDays)
	if err != nil {
		return model.Series{}, err
	}
	var chunks []model.DateRange
	for r := range seq {
		chunks = append(chunks, r)
	}

	var batches [][]model.Record
	if c.Parallelism > 1 && len(chunks) > 1 {
		batches, err = c.fetchParallel(ctx, seriesID, chunks)
	} else {
		batches, err = c.fetchSequential(ctx, seriesID, chunks)
	}
	if err != nil {
		return model.Series{}, err
	}

	series := Aggregate(seriesID, batches)
	if series.Empty() {
		return model.Series{}, &model.NoDataError{
			SeriesID: seriesID,
			Range:    model.DateRange{Start: model.Day(start), End: model.Day(end)},
		}
	}
	return series, nil
}

func (c *Collector) fetchSequential(ctx context.Context, seriesID string, chunks []model.DateRange) ([][]model.Record, error) {
	batches := make([][]model.Record, 0, len(chunks))
	for _, r := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("retrieve %s: %w", seriesID, err)
		}
		batch, err := c.Fetcher.Fetch(ctx, seriesID, r)
		if err != nil {
			return nil, &model.ChunkError{SeriesID: seriesID, Range: r, Err: err}
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// fetchParallel slots each batch by chunk index so aggregation sees chunk order.
func (c *Collector) fetchParallel(ctx context.Context, seriesID string, chunks []model.DateRange) ([][]model.Record, error) {
	batches := make([][]model.Record, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Parallelism)

	for i, r := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("retrieve %s: %w", seriesID, err)
			}
			batch, err := c.Fetcher.Fetch(gctx, seriesID, r)
			if err != nil {
				return &model.ChunkError{SeriesID: seriesID, Range: r, Err: err}
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}
