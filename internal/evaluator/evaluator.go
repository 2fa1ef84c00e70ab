// Package evaluator computes the weighted factor scores for every horse on a
// race card and ranks both scoring passes.
package evaluator

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/models"
	"github.com/yourusername/keiba-predictor/internal/pace"
)

// DarkHorseSource looks up curated longshot annotations. A nil source is
// valid: scoring falls back to odds buckets.
type DarkHorseSource interface {
	Search(name string) *models.DarkHorseRecord
}

// Evaluator scores race cards. Safe for concurrent use across races: every
// call takes a fresh snapshot and shares no mutable state.
type Evaluator struct {
	analyzer   *pace.Analyzer
	darkHorses DarkHorseSource
	ability    WeightProfile
	value      WeightProfile
	workers    int
	logger     *logrus.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithProfiles overrides the ability and value weight profiles.
func WithProfiles(ability, value WeightProfile) Option {
	return func(e *Evaluator) {
		e.ability = ability
		e.value = value
	}
}

// WithWorkers overrides the scoring fan-out width.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEvaluator creates an evaluator. darkHorses may be nil.
func NewEvaluator(analyzer *pace.Analyzer, darkHorses DarkHorseSource, logger *logrus.Logger, opts ...Option) *Evaluator {
	if analyzer == nil {
		analyzer = pace.NewAnalyzer(0, 0, 0)
	}
	if logger == nil {
		logger = logrus.New()
	}
	e := &Evaluator{
		analyzer:   analyzer,
		darkHorses: darkHorses,
		ability:    AbilityProfile(),
		value:      ValueProfile(),
		workers:    runtime.GOMAXPROCS(0),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateHorses runs the full pipeline for one race card: style aggregation,
// pace analysis, then the ability and value scoring passes. It is total over
// any structurally valid card; an empty field yields an empty result.
func (e *Evaluator) EvaluateHorses(ctx context.Context, card *models.RaceCard) (*models.EvaluationResult, error) {
	if card == nil || len(card.Horses) == 0 {
		return &models.EvaluationResult{
			AbilityResults: []models.ScoreBreakdown{},
			ValueResults:   []models.ScoreBreakdown{},
			PaceAnalysis:   models.PaceAnalysis{Pace: models.PaceAverage, Adjustments: map[string]float64{}},
		}, nil
	}

	features := make([]models.StyleFeatures, 0, len(card.Horses))
	for i := range card.Horses {
		horse := &card.Horses[i]
		if len(horse.RecentRaces) == 0 {
			continue
		}
		features = append(features, pace.AggregateRecent(horse.Name, horse.RecentRaces))
	}
	analysis := e.analyzer.Analyze(features)

	e.logger.WithFields(logrus.Fields{
		"race":          card.RaceInfo.Name,
		"horses":        len(card.Horses),
		"pace_forecast": analysis.Pace,
	}).Debug("Pace analysis complete")

	abilityResults := e.evaluatePass(ctx, card, e.ability, &analysis)
	valueResults := e.evaluatePass(ctx, card, e.value, &analysis)

	return &models.EvaluationResult{
		AbilityResults: abilityResults,
		ValueResults:   valueResults,
		PaceAnalysis:   analysis,
	}, nil
}

// evaluatePass scores every horse under one weight profile, fanning out
// across the worker pool and re-sorting deterministically at the end.
func (e *Evaluator) evaluatePass(ctx context.Context, card *models.RaceCard, weights WeightProfile, analysis *models.PaceAnalysis) []models.ScoreBreakdown {
	_ = ctx
	horses := card.Horses
	results := make([]models.ScoreBreakdown, len(horses))

	workers := e.workers
	if workers > len(horses) {
		workers = len(horses)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.evaluateHorse(&horses[idx], &card.RaceInfo, weights, analysis.AdjustmentFor(horses[idx].Name))
			}
		}()
	}

	for idx := range horses {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	// stable: equal finals keep input order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

// evaluateHorse scores a single entry under one weight profile.
func (e *Evaluator) evaluateHorse(horse *models.HorseEntry, race *models.RaceInfo, weights WeightProfile, adjustment float64) models.ScoreBreakdown {
	pastScore := scorePastPerformance(horse)
	courseScore := scoreCourseFit(horse, race)
	trackScore := scoreTrackCondition(horse, race)
	weightScore := scoreWeightChange(horse, race)
	intervalScore := scoreInterval(horse, race)
	oddsScore := scoreOddsValue(horse, pastScore, courseScore)
	darkScore := scoreDarkHorse(horse, e.darkHorses)

	classPenalty := 0.0
	if weights.ApplyClassPenalty {
		classPenalty = scoreClassPenalty(horse, race)
	}

	final := pastScore*weights.PastPerformance +
		courseScore*weights.CourseFit +
		trackScore*weights.TrackCondition +
		weightScore*weights.WeightChange +
		intervalScore*weights.Interval +
		oddsScore*weights.OddsValue +
		darkScore*weights.DarkHorse +
		classPenalty

	final *= adjustment

	return models.ScoreBreakdown{
		Name:           horse.Name,
		Number:         horse.Number,
		Odds:           horse.Odds,
		Jockey:         horse.Jockey,
		Weight:         horse.Weight.Int(),
		WeightChange:   horse.WeightChange.Int(),
		Popularity:     horse.Popularity.Int(),
		FinalScore:     round2(final),
		Performance:    round1(pastScore),
		CourseFit:      round1(courseScore),
		TrackCondition: round1(trackScore),
		WeightScore:    round1(weightScore),
		Interval:       round1(intervalScore),
		OddsValue:      round1(oddsScore),
		DarkHorse:      round1(darkScore),
		ClassPenalty:   round1(classPenalty),
		PaceAdjustment: adjustment,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
