package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"IndexCompare/internal/catalog"
	"IndexCompare/internal/comparison"
	"IndexCompare/internal/logging"
	"IndexCompare/internal/model"
	"IndexCompare/internal/notifier"
	"IndexCompare/internal/plot"
	"IndexCompare/internal/recorder"
)

const sendRetries = 3

// Comparer runs one comparison.
type Comparer interface {
	Compare(ctx context.Context, req comparison.Request) (*model.Comparison, error)
}

// Sender delivers a chart and its summary.
type Sender interface {
	SendReport(ctx context.Context, png []byte, text string, maxRetries int) error
}

// RequestFunc builds the configured comparison for the given time.
type RequestFunc func(now time.Time) (comparison.Request, error)

// Report is the outcome of a successful run.
type Report struct {
	Comparison *model.Comparison
	Chart      []byte // nil when the chart could not be rendered
	Summary    string
}

// Scheduler runs scheduled comparison reports and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Service  Comparer
	Catalog  catalog.Catalog
	Notifier Sender
	Recorder recorder.Recorder
	Logger   *logging.Logger
	Ctx      context.Context

	defaultRequest RequestFunc
	chart          plot.Options
	now            func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDefaultRequest sets the comparison used by the report task and a bare /compare.
func WithDefaultRequest(fn RequestFunc) Option {
	return func(s *Scheduler) {
		s.defaultRequest = fn
	}
}

// WithChartOptions sets the rendered chart size and title.
func WithChartOptions(opts plot.Options) Option {
	return func(s *Scheduler) {
		s.chart = opts
	}
}

// WithClock sets the clock passed to the default request.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc Comparer, cat catalog.Catalog, sender Sender, rec recorder.Recorder, logger *logging.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Service:  svc,
		Catalog:  cat,
		Notifier: sender,
		Recorder: rec,
		Logger:   logger,
		Ctx:      ctx,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the report task on reportCron.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.report(model.TriggerStartup)
}

func (s *Scheduler) reportTask() {
	s.report(model.TriggerScheduled)
}

func (s *Scheduler) report(trigger model.TriggerType) {
	req, err := s.configuredRequest()
	if err != nil {
		s.Logger.Error().Err(err).Msg("build configured comparison")
		s.trySend(nil, notifier.FormatError(err, s.Catalog))
		return
	}

	s.Logger.Info().Str("trigger", string(trigger)).Str("request", req.Label()).Msg("running report task")
	rep, err := s.Run(s.Ctx, trigger, req)
	if err != nil {
		s.trySend(nil, notifier.FormatError(err, s.Catalog))
		return
	}
	s.trySend(rep.Chart, rep.Summary)
}

// Run compares req, records the run and renders the report.
// A chart that cannot be rendered leaves Report.Chart nil without failing the run.
func (s *Scheduler) Run(ctx context.Context, trigger model.TriggerType, req comparison.Request) (*Report, error) {
	evt := recorder.NewComparisonEvent(trigger, req.IndexA, req.IndexB, req.Range())
	cmp, err := s.Service.Compare(ctx, req)
	evt.Complete(cmp, err)
	if recErr := s.Recorder.RecordComparison(evt); recErr != nil {
		s.Logger.Error().Err(recErr).Msg("record comparison")
	}

	log := s.Logger.With().Str("run_id", evt.RunID).Str("request", req.Label()).Logger()
	if err != nil {
		log.Warn().Err(err).Str("kind", string(model.KindOf(err))).Dur("elapsed", evt.Duration).Msg("comparison failed")
		return nil, err
	}
	log.Info().
		Int("rows_a", cmp.A.Len()).
		Int("rows_b", cmp.B.Len()).
		Float64("change_a", cmp.PerfA.Change).
		Float64("change_b", cmp.PerfB.Change).
		Dur("elapsed", evt.Duration).
		Msg("comparison completed")

	rep := &Report{Comparison: cmp, Summary: notifier.FormatComparison(cmp)}
	if png, err := plot.RenderComparison(cmp.NormA, cmp.NormB, s.chart); err != nil {
		log.Warn().Err(err).Msg("render chart")
	} else {
		rep.Chart = png
	}
	return rep, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) notifier.Reply {
	name, args := splitCommand(command)
	switch name {
	case "/compare":
		req, err := s.commandRequest(args)
		if errors.Is(err, errUsage) {
			return notifier.Reply{Text: notifier.FormatHelp()}
		}
		if err != nil {
			return notifier.Reply{Text: notifier.FormatError(err, s.Catalog)}
		}
		rep, err := s.Run(ctx, model.TriggerCommand, req)
		if err != nil {
			return notifier.Reply{Text: notifier.FormatError(err, s.Catalog)}
		}
		return notifier.Reply{Text: rep.Summary, Photo: rep.Chart}
	case "/indices":
		return notifier.Reply{Text: notifier.FormatCatalog(s.Catalog)}
	case "/history":
		runs, err := s.Recorder.Recent(10)
		if err != nil {
			s.Logger.Error().Err(err).Msg("load history")
			return notifier.Reply{Text: notifier.FormatError(err, s.Catalog)}
		}
		return notifier.Reply{Text: notifier.FormatHistory(runs)}
	default:
		return notifier.Reply{Text: notifier.FormatHelp()}
	}
}

func (s *Scheduler) commandRequest(args string) (comparison.Request, error) {
	if strings.TrimSpace(args) == "" {
		return s.configuredRequest()
	}
	return ParseCompareArgs(args)
}

func (s *Scheduler) configuredRequest() (comparison.Request, error) {
	if s.defaultRequest == nil {
		return comparison.Request{}, errors.New("no default comparison configured")
	}
	return s.defaultRequest(s.now())
}

func (s *Scheduler) trySend(png []byte, text string) {
	if err := s.Notifier.SendReport(s.Ctx, png, text, sendRetries); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}
