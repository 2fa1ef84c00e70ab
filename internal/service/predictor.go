package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/betting"
	"github.com/yourusername/keiba-predictor/internal/datasource"
	"github.com/yourusername/keiba-predictor/internal/evaluator"
	"github.com/yourusername/keiba-predictor/internal/history"
	"github.com/yourusername/keiba-predictor/internal/logger"
	"github.com/yourusername/keiba-predictor/internal/metrics"
	"github.com/yourusername/keiba-predictor/internal/models"
	"github.com/yourusername/keiba-predictor/internal/report"
)

// Prediction is the outcome of one pipeline run.
type Prediction struct {
	RunID  string
	Card   *models.RaceCard
	Result *models.EvaluationResult
	Plan   *models.BettingPlan
}

// PredictorService runs the full pipeline: fetch, validate, evaluate,
// generate the betting plan, and record the run.
type PredictorService struct {
	fetcher    *datasource.Fetcher
	validator  *CardValidator
	evaluator  *evaluator.Evaluator
	strategy   *betting.Strategy
	history    *history.Store
	logger     *logrus.Logger
	predLogger *logger.PredictionLogger
}

// NewPredictorService creates the pipeline service. history may be nil to
// disable persistence.
func NewPredictorService(
	fetcher *datasource.Fetcher,
	eval *evaluator.Evaluator,
	strategy *betting.Strategy,
	hist *history.Store,
	baseLogger *logrus.Logger,
) *PredictorService {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &PredictorService{
		fetcher:    fetcher,
		validator:  NewCardValidator(baseLogger),
		evaluator:  eval,
		strategy:   strategy,
		history:    hist,
		logger:     baseLogger,
		predLogger: logger.NewPredictionLogger(baseLogger),
	}
}

// Predict runs the pipeline for one race card source.
func (s *PredictorService) Predict(ctx context.Context, source string) (*Prediction, error) {
	runID := uuid.NewString()

	fetchStart := time.Now()
	card, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		metrics.RecordEvaluationError()
		return nil, fmt.Errorf("failed to load race card: %w", err)
	}
	metrics.RecordFetch(time.Since(fetchStart).Seconds())

	card, err = s.validator.ValidateCard(card)
	if err != nil {
		metrics.RecordEvaluationError()
		return nil, fmt.Errorf("failed to validate race card: %w", err)
	}

	evalStart := time.Now()
	result, err := s.evaluator.EvaluateHorses(ctx, card)
	if err != nil {
		metrics.RecordEvaluationError()
		return nil, fmt.Errorf("failed to evaluate race: %w", err)
	}
	evalDuration := time.Since(evalStart)
	metrics.RecordEvaluation(evalDuration.Seconds(), len(card.Horses), string(result.PaceAnalysis.Pace))

	s.predLogger.LogEvaluation(runID, card.RaceInfo.Name, len(card.Horses),
		string(result.PaceAnalysis.Pace), float64(evalDuration.Milliseconds()))
	if len(result.AbilityResults) > 0 {
		top := result.AbilityResults[0]
		s.predLogger.LogTopPick(runID, "ability", top.Name, top.Number, top.FinalScore, top.Odds)
	}

	plan, err := s.strategy.GeneratePlan(result)
	if err != nil {
		// small fields or tiny budgets still produce a usable ranking
		s.logger.WithError(err).Warn("Betting plan skipped")
		plan = nil
	} else {
		metrics.RecordBettingPlan()
		s.predLogger.LogBettingPlan(runID, plan.Strategy, len(plan.Tickets), plan.TotalBet.StringFixed(0))
	}

	if s.history != nil {
		if err := s.history.Save(ctx, runID, &card.RaceInfo, result, plan, time.Now()); err != nil {
			s.logger.WithError(err).Warn("Failed to persist prediction run")
		}
	}

	return &Prediction{RunID: runID, Card: card, Result: result, Plan: plan}, nil
}

// Report writes the console report for a prediction.
func (s *PredictorService) Report(w io.Writer, p *Prediction) error {
	return report.WriteConsole(w, &p.Card.RaceInfo, p.Result, p.Plan)
}

// ReportMarkdown writes the Markdown report for a prediction.
func (s *PredictorService) ReportMarkdown(w io.Writer, p *Prediction) error {
	return report.WriteMarkdown(w, &p.Card.RaceInfo, p.Result, p.Plan, time.Now())
}
