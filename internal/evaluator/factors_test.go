package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keiba-predictor/internal/models"
)

func TestScorePastPerformance(t *testing.T) {
	t.Run("no history is neutral", func(t *testing.T) {
		horse := &models.HorseEntry{Name: "A"}
		assert.InDelta(t, neutralScore, scorePastPerformance(horse), 1e-9)
	})

	t.Run("dominant win caps at 100 form", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, Runners: 16, Margin: 1.0},
		}}
		// form capped at 100, blended with the neutral trend term
		assert.InDelta(t, 85.0, scorePastPerformance(horse), 1e-9)
	})

	t.Run("mid field finish", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 5, Runners: 12, Margin: 0.5},
		}}
		assert.InDelta(t, 62.6, scorePastPerformance(horse), 1e-9)
	})

	t.Run("trend term", func(t *testing.T) {
		rising := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 9, Runners: 14}, {Finish: 5, Runners: 14}, {Finish: 2, Runners: 14},
		}}
		falling := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 2, Runners: 14}, {Finish: 5, Runners: 14}, {Finish: 9, Runners: 14},
		}}
		// form averages 61.51 and 69.08; the +30/-20 trend swing dominates
		assert.InDelta(t, 67.06, scorePastPerformance(rising), 0.01)
		assert.InDelta(t, 57.36, scorePastPerformance(falling), 0.01)
	})

	t.Run("win streak bonus", func(t *testing.T) {
		oneWin := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, Runners: 14}, {Finish: 4, Runners: 14},
		}}
		twoWins := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, Runners: 14}, {Finish: 1, Runners: 14},
		}}
		assert.Greater(t, scorePastPerformance(twoWins), scorePastPerformance(oneWin))
	})
}

func TestScoreCourseFit(t *testing.T) {
	race := &models.RaceInfo{Venue: "中山", Distance: 2500}

	t.Run("no history is neutral", func(t *testing.T) {
		horse := &models.HorseEntry{}
		assert.InDelta(t, neutralCourseFit, scoreCourseFit(horse, race), 1e-9)
	})

	t.Run("in-window placings add up", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, Distance: 2400, Venue: "中山"},
			{Finish: 5, Distance: 2500, Venue: "東京"},
		}}
		// distance: 60+12+4=76, venue: 60+15=75 -> 76*0.6+75*0.4
		assert.InDelta(t, 75.6, scoreCourseFit(horse, race), 1e-9)
	})

	t.Run("distance outside window ignored", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, Distance: 1200, Venue: "阪神"},
		}}
		assert.InDelta(t, neutralCourseFit, scoreCourseFit(horse, race), 1e-9)
	})
}

func TestScoreTrackCondition(t *testing.T) {
	race := &models.RaceInfo{TrackCondition: "重"}

	t.Run("no matching going is neutral", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, TrackCondition: "良"},
		}}
		assert.InDelta(t, neutralScore, scoreTrackCondition(horse, race), 1e-9)
	})

	t.Run("matching going averaged", func(t *testing.T) {
		horse := &models.HorseEntry{RecentRaces: []models.PastRace{
			{Finish: 1, TrackCondition: "重"},
			{Finish: 3, TrackCondition: "重"},
		}}
		assert.InDelta(t, 90.0, scoreTrackCondition(horse, race), 1e-9)
	})
}

func TestScoreInterval(t *testing.T) {
	race := &models.RaceInfo{Date: "2025-12-28"}

	tests := []struct {
		name     string
		lastDate string
		want     float64
	}{
		{"ideal layoff", "2025-12-07", 15},  // 21 days
		{"quick back-up", "2025-12-18", -5}, // 10 days
		{"long but fine", "2025-11-01", 0},  // 57 days
		{"too quick", "2025-12-25", -10},    // 3 days
		{"unparseable", "year unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			horse := &models.HorseEntry{RecentRaces: []models.PastRace{{Date: tt.lastDate}}}
			assert.InDelta(t, tt.want, scoreInterval(horse, race), 1e-9)
		})
	}

	t.Run("no history", func(t *testing.T) {
		assert.Zero(t, scoreInterval(&models.HorseEntry{}, race))
	})
}

func TestScoreOddsValue(t *testing.T) {
	t.Run("invalid odds", func(t *testing.T) {
		horse := &models.HorseEntry{Odds: 0.5}
		assert.Zero(t, scoreOddsValue(horse, 80, 60))
	})

	t.Run("fair value mid price", func(t *testing.T) {
		horse := &models.HorseEntry{Odds: 5.0}
		// abilityNorm 0.7, EV 2.5 -> 75
		assert.InDelta(t, 75.0, scoreOddsValue(horse, 80, 60), 1e-9)
	})

	t.Run("low ability extreme longshot halved", func(t *testing.T) {
		horse := &models.HorseEntry{Odds: 40.0}
		score := scoreOddsValue(horse, 30, 20)
		assert.InDelta(t, 50.0, score, 1e-9)
	})

	t.Run("log damping keeps extreme odds bounded", func(t *testing.T) {
		nearCutoff := &models.HorseEntry{Odds: 20.0}
		extreme := &models.HorseEntry{Odds: 200.0}
		// damped: the factor grows logarithmically past 20
		assert.Less(t,
			scoreOddsValue(extreme, 60, 60)-scoreOddsValue(nearCutoff, 60, 60),
			50.0)
	})
}

func TestScoreDarkHorse(t *testing.T) {
	t.Run("odds buckets without store", func(t *testing.T) {
		assert.InDelta(t, darkHorseScoreHigh, scoreDarkHorse(&models.HorseEntry{Odds: 25}, nil), 1e-9)
		assert.InDelta(t, darkHorseScoreMid, scoreDarkHorse(&models.HorseEntry{Odds: 15}, nil), 1e-9)
		assert.InDelta(t, darkHorseScoreLow, scoreDarkHorse(&models.HorseEntry{Odds: 5}, nil), 1e-9)
	})

	t.Run("curated entry wins over buckets", func(t *testing.T) {
		source := stubSource{"激走": {HorseName: "激走", EvaluationScore: 88}}
		horse := &models.HorseEntry{Name: "激走", Odds: 5}
		assert.InDelta(t, 88.0, scoreDarkHorse(horse, source), 1e-9)
	})

	t.Run("zero-score entry falls back", func(t *testing.T) {
		source := stubSource{"並馬": {HorseName: "並馬", EvaluationScore: 0}}
		horse := &models.HorseEntry{Name: "並馬", Odds: 5}
		assert.InDelta(t, darkHorseScoreLow, scoreDarkHorse(horse, source), 1e-9)
	})
}

type stubSource map[string]models.DarkHorseRecord

func (s stubSource) Search(name string) *models.DarkHorseRecord {
	if record, ok := s[name]; ok {
		return &record
	}
	return nil
}

func TestScoreWeightChange(t *testing.T) {
	race := &models.RaceInfo{Date: "2025-12-28"}

	t.Run("unknown weight is neutral", func(t *testing.T) {
		assert.InDelta(t, neutralScore, scoreWeightChange(&models.HorseEntry{}, race), 1e-9)
	})

	t.Run("ideal band and stable weight", func(t *testing.T) {
		horse := &models.HorseEntry{Weight: 480, WeightChange: 0}
		assert.InDelta(t, 80.0, scoreWeightChange(horse, race), 1e-9)
	})

	t.Run("light horse with big gain", func(t *testing.T) {
		horse := &models.HorseEntry{Weight: 400, WeightChange: 20}
		assert.InDelta(t, 20.0, scoreWeightChange(horse, race), 1e-9)
	})

	t.Run("rest relief after a long break", func(t *testing.T) {
		rested := &models.HorseEntry{
			Weight: 480, WeightChange: 10,
			RecentRaces: []models.PastRace{{Date: "2025-09-01"}},
		}
		fresh := &models.HorseEntry{
			Weight: 480, WeightChange: 10,
			RecentRaces: []models.PastRace{{Date: "2025-12-07"}},
		}
		assert.InDelta(t, 55.0, scoreWeightChange(rested, race), 1e-9)
		assert.InDelta(t, 50.0, scoreWeightChange(fresh, race), 1e-9)
	})
}

func TestScoreClassPenalty(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		race := &models.RaceInfo{Grade: "GI"}
		assert.Zero(t, scoreClassPenalty(&models.HorseEntry{}, race))
	})

	tests := []struct {
		name      string
		raceGrade string
		lastRace  string
		lastClass string
		want      float64
	}{
		{"same class", "GI", "ジャパンカップ(GI)", "GI", 0},
		{"one step up", "GII", "", "GIII", -5},
		{"two steps up", "GI", "", "GIII", -10},
		{"big jump", "GI", "2勝クラス", "2勝", -15},
		{"dropping in class", "GIII", "有馬記念(GI)", "GI", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			race := &models.RaceInfo{Grade: tt.raceGrade}
			horse := &models.HorseEntry{RecentRaces: []models.PastRace{
				{RaceName: tt.lastRace, Class: tt.lastClass},
			}}
			assert.InDelta(t, tt.want, scoreClassPenalty(horse, race), 1e-9)
		})
	}
}
