package comparison

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"IndexCompare/internal/calculator"
	"IndexCompare/internal/model"
)

// Retriever returns the full daily series of one index.
type Retriever interface {
	RetrieveSeries(ctx context.Context, seriesID string, start, end time.Time) (model.Series, error)
}

// Request names the two indices and the inclusive range to compare them over.
type Request struct {
	IndexA string
	IndexB string
	Start  time.Time
	End    time.Time
}

// Range returns the requested range.
func (r Request) Range() model.DateRange {
	return model.DateRange{Start: model.Day(r.Start), End: model.Day(r.End)}
}

// Service compares the normalized performance of two indices.
type Service struct {
	retriever Retriever
	now       func() time.Time
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to reject future dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTimeout bounds a whole comparison, both retrievals included. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a new Service.
func NewService(retriever Retriever, opts ...Option) *Service {
	s := &Service{
		retriever: retriever,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare retrieves both indices concurrently, rebases them to 100 and summarizes them.
// The first failure cancels the other retrieval and is returned unchanged.
func (s *Service) Compare(ctx context.Context, req Request) (*model.Comparison, error) {
	r := req.Range()
	if err := r.Validate(s.now()); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var a, b model.Series
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.retriever.RetrieveSeries(gctx, req.IndexA, r.Start, r.End)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = s.retriever.RetrieveSeries(gctx, req.IndexB, r.Start, r.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &model.Comparison{Range: r, A: a, B: b}
	var err error
	if cmp.NormA, err = calculator.Normalize(a); err != nil {
		return nil, err
	}
	if cmp.NormB, err = calculator.Normalize(b); err != nil {
		return nil, err
	}
	if cmp.PerfA, err = calculator.Summarize(cmp.NormA); err != nil {
		return nil, err
	}
	if cmp.PerfB, err = calculator.Summarize(cmp.NormB); err != nil {
		return nil, err
	}
	return cmp, nil
}

// Label returns a short human description of req.
func (r Request) Label() string {
	return fmt.Sprintf("%s vs %s, %s", r.IndexA, r.IndexB, r.Range())
}
