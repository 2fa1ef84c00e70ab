// Package service wires fetching, validation, evaluation, betting and
// persistence into the prediction pipeline.
package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/config"
	"github.com/yourusername/keiba-predictor/internal/logger"
	"github.com/yourusername/keiba-predictor/internal/metrics"
	"github.com/yourusername/keiba-predictor/internal/models"
)

// CardValidator checks race cards before evaluation. Structural problems with
// the race fail the card; problems with a single entry drop that entry.
type CardValidator struct {
	rules      *config.CustomValidator
	predLogger *logger.PredictionLogger
}

// NewCardValidator creates a new card validator
func NewCardValidator(baseLogger *logrus.Logger) *CardValidator {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &CardValidator{
		rules:      config.NewValidator(),
		predLogger: logger.NewPredictionLogger(baseLogger),
	}
}

// ValidateCard checks the race metadata and filters out entries that are
// missing required fields. The returned card shares no entry slice with the
// input.
func (v *CardValidator) ValidateCard(card *models.RaceCard) (*models.RaceCard, error) {
	if card == nil {
		return nil, models.ErrInvalidRaceCard
	}
	if err := v.rules.ValidateStruct(&card.RaceInfo); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRaceCard, err)
	}

	kept := make([]models.HorseEntry, 0, len(card.Horses))
	for i := range card.Horses {
		horse := card.Horses[i]
		if reason := entryProblem(&horse); reason != "" {
			v.predLogger.LogEntryDropped(card.RaceInfo.Name, horse.Name, reason)
			metrics.RecordEntryDropped()
			continue
		}
		kept = append(kept, horse)
	}
	if len(kept) == 0 {
		return nil, models.ErrNoHorses
	}

	return &models.RaceCard{RaceInfo: card.RaceInfo, Horses: kept}, nil
}

// entryProblem returns a reason to drop the entry, or "".
func entryProblem(horse *models.HorseEntry) string {
	switch {
	case horse.Name == "":
		return "missing name"
	case horse.Number <= 0:
		return "missing number"
	case horse.Odds <= 0:
		return "missing odds"
	default:
		return ""
	}
}
