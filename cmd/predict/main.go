// Package main provides the entry point for the race prediction CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/betting"
	"github.com/yourusername/keiba-predictor/internal/config"
	"github.com/yourusername/keiba-predictor/internal/darkhorse"
	"github.com/yourusername/keiba-predictor/internal/datasource"
	"github.com/yourusername/keiba-predictor/internal/evaluator"
	"github.com/yourusername/keiba-predictor/internal/history"
	"github.com/yourusername/keiba-predictor/internal/logger"
	"github.com/yourusername/keiba-predictor/internal/metrics"
	"github.com/yourusername/keiba-predictor/internal/pace"
	"github.com/yourusername/keiba-predictor/internal/scheduler"
	"github.com/yourusername/keiba-predictor/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		source     = flag.String("source", "", "Race card source: file path or http(s) URL")
		budget     = flag.Int64("budget", 0, "Override betting budget in yen")
		format     = flag.String("format", "console", "Report format: console, markdown")
		output     = flag.String("output", "", "Write report to file instead of stdout")
		watch      = flag.Bool("watch", false, "Re-run the prediction on the configured schedule")
		recent     = flag.Int("history", 0, "List the N most recent prediction runs and exit")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)

	if *recent > 0 {
		listHistory(cfg, *recent, log)
		return
	}
	if *source == "" {
		log.Fatal("A race card source is required: -source <file|url>")
	}
	if *budget > 0 {
		cfg.Betting.TotalBudget = *budget
	}

	ctx := context.Background()
	svc := buildService(ctx, cfg, log)

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg, log)
	}

	runOnce := func(ctx context.Context, src string) error {
		pred, err := svc.Predict(ctx, src)
		if err != nil {
			return err
		}
		return writeReport(svc, pred, *format, *output)
	}

	if err := runOnce(ctx, *source); err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}

	if *watch {
		runWatch(cfg, *source, runOnce, log)
	}
}

func loadConfig(path string) *config.Config {
	bootstrap := logrus.New()
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildService(ctx context.Context, cfg *config.Config, log *logrus.Logger) *service.PredictorService {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = secondsToDuration(cfg.DataSource.TimeoutSeconds)
	httpCfg.MaxRetries = cfg.DataSource.RetryAttempts
	httpCfg.RateLimit = cfg.DataSource.RateLimitPerSecond
	client := datasource.NewRateLimitedHTTPClient(httpCfg, log)
	fetcher := datasource.NewFetcher(client, secondsToDuration(cfg.DataSource.CacheTTLSeconds), log)

	store, err := darkhorse.Open(ctx, cfg.DarkHorse.Path, log)
	if err != nil {
		log.Fatalf("Failed to open dark-horse store: %v", err)
	}
	metrics.DarkHorseEntries.Set(float64(store.Len()))

	analyzer := pace.NewAnalyzer(cfg.Evaluation.PaceTopN, cfg.Evaluation.AdjustmentScale, cfg.Evaluation.BiasThreshold)
	eval := evaluator.NewEvaluator(analyzer, store, log,
		evaluator.WithProfiles(cfg.Weights.Ability, cfg.Weights.Value),
		evaluator.WithWorkers(cfg.Evaluation.Workers),
	)

	strategy := betting.NewStrategy(cfg.Betting.TotalBudget, log)

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(ctx, cfg.History.Path, log)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
	}

	return service.NewPredictorService(fetcher, eval, strategy, hist, log)
}

func writeReport(svc *service.PredictorService, pred *service.Prediction, format, output string) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if format == "markdown" {
		return svc.ReportMarkdown(w, pred)
	}
	return svc.Report(w, pred)
}

func listHistory(cfg *config.Config, limit int, log *logrus.Logger) {
	if cfg.History.Path == "" {
		log.Fatal("History is not configured: set history.path")
	}
	ctx := context.Background()
	store, err := history.Open(ctx, cfg.History.Path, log)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer store.Close()

	records, err := store.List(ctx, limit)
	if err != nil {
		log.Fatalf("Failed to list prediction runs: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No prediction runs recorded.")
		return
	}
	for _, r := range records {
		fmt.Printf("%s  %-20s %-10s top: %-16s %s ¥%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.RaceName, r.PaceForecast, r.TopPick, r.Strategy, r.TotalBet)
	}
}

func runWatch(cfg *config.Config, source string, run scheduler.RunFunc, log *logrus.Logger) {
	sched := scheduler.NewScheduler(run, log)
	if err := sched.ScheduleRefresh(cfg.Watch.Schedule, source); err != nil {
		log.Fatalf("Failed to schedule refresh: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := sched.Stop(); err != nil {
		log.Errorf("Scheduler shutdown failed: %v", err)
	}
}

func startMetricsServer(cfg *config.Config, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	go func() {
		if err := http.ListenAndServe(cfg.MetricsAddress(), mux); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
	log.WithField("address", cfg.MetricsAddress()).Info("Metrics server started")
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
