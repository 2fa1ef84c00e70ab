package evaluator

import (
	"math"
	"time"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// Factor scoring constants. All of these are hand-tuned house rules carried
// as configuration of the rule tables, not derived quantities.
const (
	recentFormWindow = 5

	winBase           = 100.0
	winMarginBonusMax = 20.0
	winMarginRate     = 5.0
	placeFloor        = 30.0
	placePenaltyStep  = 8.0
	bigFieldBoost     = 1.2
	smallFieldDiscout = 0.9
	bigFieldMin       = 16
	smallFieldMax     = 10
	defaultFieldSize  = 16

	distanceTolerance = 200
	distanceBonusTop3 = 12.0
	distanceBonusTop5 = 4.0
	venueBonusTop3    = 15.0
	venueBonusTop5    = 5.0

	oddsDampThreshold = 20.0
	longshotOddsMin   = 30.0
	lowAbilityMax     = 0.3

	darkHorseOddsHigh  = 20.0
	darkHorseOddsMid   = 10.0
	darkHorseScoreHigh = 80.0
	darkHorseScoreMid  = 65.0
	darkHorseScoreLow  = 40.0

	neutralScore     = 50.0
	neutralCourseFit = 60.0

	restReliefDays = 60
)

// recencyWeights discount older starts when averaging recent form.
var recencyWeights = [recentFormWindow]float64{1.5, 1.2, 1.0, 0.8, 0.5}

// scorePastPerformance blends a recency-weighted form average (70%) with a
// short-term trend term (30%), plus a win-streak bonus.
func scorePastPerformance(horse *models.HorseEntry) float64 {
	races := horse.RecentRaces
	if len(races) == 0 {
		return neutralScore
	}

	weightSum := 0.0
	weighted := 0.0
	limit := len(races)
	if limit > recentFormWindow {
		limit = recentFormWindow
	}
	for i, race := range races[:limit] {
		finish := race.FinishPosition()
		runners := race.Runners
		if runners <= 0 {
			runners = defaultFieldSize
		}
		margin := race.Margin

		var score float64
		if finish == 1 {
			score = winBase + math.Min(winMarginBonusMax, margin*winMarginRate)
			if runners >= bigFieldMin {
				score *= bigFieldBoost
			} else if runners <= smallFieldMax {
				score *= smallFieldDiscout
			}
		} else {
			score = math.Max(placeFloor, winBase-float64(finish-1)*placePenaltyStep)
			score += math.Max(-15, (margin-0.5)*-3)
		}

		weighted += math.Max(0, score) * recencyWeights[i]
		weightSum += recencyWeights[i]
	}
	base := weighted / weightSum

	base = math.Min(100, base+streakBonus(races))

	// trend: compare the two most recent pairs of finishes
	trend := 0.0
	if len(races) >= 3 {
		for i := 1; i < 3; i++ {
			current := races[i].FinishPosition()
			previous := races[i-1].FinishPosition()
			if current < previous {
				trend += 15
			} else if current > previous {
				trend -= 10
			}
		}
	}

	return base*0.7 + (neutralScore+trend)*0.3
}

func streakBonus(races []models.PastRace) float64 {
	streak := 0
	for _, race := range races {
		if race.FinishPosition() != 1 {
			break
		}
		streak++
	}
	switch {
	case streak >= 3:
		return 15
	case streak == 2:
		return 8
	default:
		return 0
	}
}

// scoreCourseFit blends distance aptitude (60%) with venue aptitude (40%),
// both scored as bonuses over a neutral base for recent in-window placings.
func scoreCourseFit(horse *models.HorseEntry, race *models.RaceInfo) float64 {
	races := horse.RecentWindow(recentFormWindow)
	if len(races) == 0 {
		return neutralCourseFit
	}

	distScore := neutralCourseFit
	for _, past := range races {
		if abs(past.Distance-race.Distance) > distanceTolerance {
			continue
		}
		finish := past.FinishPosition()
		if finish <= 3 {
			distScore += distanceBonusTop3
		} else if finish <= 5 {
			distScore += distanceBonusTop5
		}
	}
	distScore = math.Min(100, distScore)

	venueScore := neutralCourseFit
	for _, past := range races {
		if past.Venue == "" || past.Venue != race.Venue {
			continue
		}
		finish := past.FinishPosition()
		if finish <= 3 {
			venueScore += venueBonusTop3
		} else if finish <= 5 {
			venueScore += venueBonusTop5
		}
	}
	venueScore = math.Min(100, venueScore)

	return distScore*0.6 + venueScore*0.4
}

// scoreTrackCondition averages finishes under the same going label and maps
// the average onto 0-100. No matching history scores neutral.
func scoreTrackCondition(horse *models.HorseEntry, race *models.RaceInfo) float64 {
	races := horse.RecentWindow(recentFormWindow)
	if len(races) == 0 {
		return neutralScore
	}

	sum := 0.0
	count := 0
	for _, past := range races {
		if past.TrackCondition != race.TrackCondition {
			continue
		}
		sum += float64(past.FinishPosition())
		count++
	}
	if count == 0 {
		return neutralScore
	}

	avg := sum / float64(count)
	return clampScore(100 - (avg-1)*10)
}

// scoreInterval rates the layoff since the last start. Unparseable dates
// score zero rather than erroring.
func scoreInterval(horse *models.HorseEntry, race *models.RaceInfo) float64 {
	if len(horse.RecentRaces) == 0 {
		return 0
	}
	raceDate := race.ParseDate()
	lastDate := horse.RecentRaces[0].ParseDate()
	if raceDate.IsZero() || lastDate.IsZero() {
		return 0
	}

	days := int(raceDate.Sub(lastDate).Hours() / 24)
	switch {
	case days >= 14 && days <= 42:
		return 15
	case days >= 7 && days <= 13:
		return -5
	case days >= 43 && days <= 84:
		return 0
	default:
		return -10
	}
}

// scoreOddsValue turns the ability estimate and current odds into a value
// score. Odds beyond 20 are log-damped so extreme prices cannot run away
// with the expected value, and low-ability extreme longshots are halved.
func scoreOddsValue(horse *models.HorseEntry, pastScore, courseScore float64) float64 {
	odds := horse.Odds
	if odds < 1.0 {
		return 0
	}

	abilityNorm := (pastScore + courseScore) / 2 / 100.0

	oddsFactor := odds
	if odds > oddsDampThreshold {
		oddsFactor = oddsDampThreshold + math.Log(odds/oddsDampThreshold+1)*5
	}

	adjustedEV := abilityNorm*oddsFactor - 1
	score := clampScore(50 + adjustedEV*10)

	if abilityNorm < lowAbilityMax && odds > longshotOddsMin {
		score *= 0.5
	}
	return score
}

// scoreDarkHorse prefers the curated store entry; otherwise the horse is
// bucketed by price alone.
func scoreDarkHorse(horse *models.HorseEntry, source DarkHorseSource) float64 {
	if source != nil {
		if record := source.Search(horse.Name); record != nil && record.EvaluationScore > 0 {
			return record.EvaluationScore
		}
	}
	switch {
	case horse.Odds > darkHorseOddsHigh:
		return darkHorseScoreHigh
	case horse.Odds > darkHorseOddsMid:
		return darkHorseScoreMid
	default:
		return darkHorseScoreLow
	}
}

// scoreWeightChange rates body weight band and weight delta, widening the
// delta tolerance for horses returning from a long rest.
func scoreWeightChange(horse *models.HorseEntry, race *models.RaceInfo) float64 {
	weight := horse.Weight.Int()
	if weight == 0 {
		return neutralScore
	}
	change := horse.WeightChange.Int()

	score := neutralScore
	if weight >= 450 && weight <= 520 {
		score += 10
	} else if weight < 420 || weight > 550 {
		score -= 10
	}

	switch {
	case change >= -3 && change <= 3:
		score += 20
	case change >= -8 && change < -3:
		score += 10
	case change > 3 && change <= 8:
		score += 5
	case change < -15:
		score -= 15
	case change > 15:
		score -= 20
	case change >= -15 && change < -8:
		score -= 5
	case change > 8 && change <= 15:
		score -= 10
	}

	if restDays := daysSinceLastStart(horse, race); restDays > restReliefDays {
		if change >= 0 && change <= 20 {
			score += 5
		}
	}

	return clampScore(score)
}

// daysSinceLastStart measures rest against the race date so evaluations stay
// deterministic for fixed inputs. Returns 0 when either date is missing.
func daysSinceLastStart(horse *models.HorseEntry, race *models.RaceInfo) int {
	if len(horse.RecentRaces) == 0 {
		return 0
	}
	raceDate := race.ParseDate()
	lastDate := horse.RecentRaces[0].ParseDate()
	if raceDate.IsZero() || lastDate.IsZero() {
		return 0
	}
	return int(raceDate.Sub(lastDate) / (24 * time.Hour))
}

// scoreClassPenalty subtracts for class jumps: -5/-10/-15 for a one, two, or
// three-plus step rise over the inferred grade of the last start.
func scoreClassPenalty(horse *models.HorseEntry, race *models.RaceInfo) float64 {
	if len(horse.RecentRaces) == 0 {
		return 0
	}
	last := horse.RecentRaces[0]

	currentLevel := models.GradeLevel(race.Grade)
	lastLevel := models.InferGradeLevel(last.RaceName, last.Class)

	diff := currentLevel - lastLevel
	switch {
	case diff <= 0:
		return 0
	case diff == 1:
		return -5
	case diff == 2:
		return -10
	default:
		return -15
	}
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
