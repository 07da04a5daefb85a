package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"IndexCompare/internal/catalog"
	"IndexCompare/internal/collector"
	"IndexCompare/internal/comparison"
	"IndexCompare/internal/config"
	"IndexCompare/internal/logging"
	"IndexCompare/internal/model"
	"IndexCompare/internal/notifier"
	"IndexCompare/internal/plot"
	"IndexCompare/internal/recorder"
	"IndexCompare/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.Logging.Level)
	logger.Info().Msg("IndexCompare starting...")

	oneShot := os.Getenv("RUN_ONCE") == "true"
	validate := cfg.ValidateDaemon
	if oneShot {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		logger.Error().Err(err).Msg("config validation")
		return 1
	}

	// Init fetcher and collector
	var fetcher collector.Fetcher
	if os.Getenv("MOCK_DATA") == "true" {
		fetcher = mockFetcher(cfg)
	} else {
		fetcher = collector.NewNSEFetcher(
			collector.WithBaseURL(cfg.Provider.BaseURL),
			collector.WithHomeURL(cfg.Provider.HomeURL),
			collector.WithTimeout(cfg.Provider.Timeout),
			collector.WithRateLimit(cfg.Provider.RateLimit),
			collector.WithProxy(cfg.Proxy),
			collector.WithLogger(logger.Component("nse")),
		)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source")

	cat := catalog.Default()
	col := collector.NewCollector(fetcher, cat,
		collector.WithMaxSpanDays(cfg.Provider.MaxSpanDays),
		collector.WithParallelism(cfg.Provider.ParallelChunks),
	)
	svc := comparison.NewService(col, comparison.WithTimeout(cfg.OverallTimeout))

	// Init recorder
	rec := recorder.Open(cfg.Database.SQLitePath, logger.Component("recorder"))
	defer rec.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if oneShot {
		return runOnce(ctx, cfg, svc, cat, rec, logger)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger.Component("telegram"))

	// Init scheduler
	sched := newScheduler(ctx, cfg, svc, cat, tn, rec, logger)
	if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
		logger.Error().Err(err).Msg("register cron tasks")
		return 1
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	logger.Info().Msg("Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing report task now")
		go sched.RunReportNow()
	}

	logger.Info().Str("report_cron", cfg.Schedule.ReportCron).Msg("IndexCompare is running. Press Ctrl+C to stop.")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping...")
	return 0
}

func newScheduler(ctx context.Context, cfg *config.Config, svc *comparison.Service, cat catalog.Catalog, sender scheduler.Sender, rec recorder.Recorder, logger *logging.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(ctx, svc, cat, sender, rec, logger.Component("scheduler"),
		scheduler.WithDefaultRequest(func(now time.Time) (comparison.Request, error) {
			r, err := cfg.ComparisonRange(now)
			if err != nil {
				return comparison.Request{}, err
			}
			return comparison.Request{IndexA: cfg.Comparison.IndexA, IndexB: cfg.Comparison.IndexB, Start: r.Start, End: r.End}, nil
		}),
		scheduler.WithChartOptions(plot.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}),
	)
}

// runOnce compares the configured pair, writes the chart and prints the summary.
func runOnce(ctx context.Context, cfg *config.Config, svc *comparison.Service, cat catalog.Catalog, rec recorder.Recorder, logger *logging.Logger) int {
	sched := newScheduler(ctx, cfg, svc, cat, nil, rec, logger)

	r, err := cfg.ComparisonRange(time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("comparison range")
		return 1
	}
	req := comparison.Request{IndexA: cfg.Comparison.IndexA, IndexB: cfg.Comparison.IndexB, Start: r.Start, End: r.End}

	rep, err := sched.Run(ctx, model.TriggerOneShot, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, notifier.PlainText(notifier.FormatError(err, cat)))
		return 1
	}
	if rep.Chart != nil {
		if err := plot.WriteFile(cfg.Chart.OutputPath, rep.Chart); err != nil {
			logger.Error().Err(err).Msg("write chart")
			return 1
		}
		logger.Info().Str("path", cfg.Chart.OutputPath).Msg("chart written")
	}
	fmt.Println(notifier.PlainText(rep.Summary))
	return 0
}

// mockFetcher serves generated data for every catalog index over the configured range.
func mockFetcher(cfg *config.Config) collector.Fetcher {
	r, err := cfg.ComparisonRange(time.Now())
	if err != nil {
		r = model.DateRange{Start: time.Now().AddDate(-1, 0, 0), End: time.Now()}
	}
	data := make(map[string][]model.Record)
	for i, id := range catalog.Default().IDs() {
		data[id] = collector.GenerateMockRecords(id, r, 10000+float64(i)*500)
	}
	return &collector.MockFetcher{Data: data}
}
