// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction runs.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogEvaluation logs a completed race evaluation.
func (pl *PredictionLogger) LogEvaluation(runID, raceName string, horsesEvaluated int, paceForecast string, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_id":                 runID,
		"race_name":              raceName,
		"horses_evaluated":       horsesEvaluated,
		"pace_forecast":          paceForecast,
		"evaluation_duration_ms": durationMs,
	}).Info("Race evaluation completed")
}

// LogTopPick logs the favorite selected by a scoring pass.
func (pl *PredictionLogger) LogTopPick(runID, pass, horseName string, number int, finalScore, odds float64) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"pass":        pass,
		"horse_name":  horseName,
		"number":      number,
		"final_score": finalScore,
		"odds":        odds,
	}).Info("Top pick selected")
}

// LogBettingPlan logs the generated ticket plan.
func (pl *PredictionLogger) LogBettingPlan(runID, strategy string, tickets int, totalBet string) {
	pl.WithFields(logrus.Fields{
		"run_id":    runID,
		"strategy":  strategy,
		"tickets":   tickets,
		"total_bet": totalBet,
	}).Info("Betting plan generated")
}

// LogEntryDropped logs an entry removed during validation.
func (pl *PredictionLogger) LogEntryDropped(raceName, horseName, reason string) {
	pl.WithFields(logrus.Fields{
		"race_name":  raceName,
		"horse_name": horseName,
		"reason":     reason,
	}).Warn("Entry dropped from race card")
}
