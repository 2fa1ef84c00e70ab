package betting

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-predictor/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func rankedResult() *models.EvaluationResult {
	ability := []models.ScoreBreakdown{
		{Name: "本命", Number: 1, Odds: 2.5, FinalScore: 85},
		{Name: "対抗1", Number: 2, Odds: 5.0, FinalScore: 78},
		{Name: "対抗2", Number: 3, Odds: 8.0, FinalScore: 72},
		{Name: "中堅", Number: 4, Odds: 12.0, FinalScore: 65},
		{Name: "穴1", Number: 5, Odds: 28.0, FinalScore: 60},
		{Name: "穴2", Number: 6, Odds: 45.0, FinalScore: 55},
	}
	value := []models.ScoreBreakdown{
		ability[4], // 穴1
		ability[0],
		ability[5], // 穴2
		ability[1],
		ability[2],
		ability[3],
	}
	return &models.EvaluationResult{AbilityResults: ability, ValueResults: value}
}

func totalOf(plan *models.BettingPlan) decimal.Decimal {
	total := decimal.Zero
	for _, ticket := range plan.Tickets {
		total = total.Add(ticket.Amount)
	}
	return total
}

func TestGeneratePlanErrors(t *testing.T) {
	t.Run("too few entries", func(t *testing.T) {
		s := NewStrategy(400, quietLogger())
		result := &models.EvaluationResult{
			AbilityResults: rankedResult().AbilityResults[:2],
			ValueResults:   rankedResult().ValueResults[:2],
		}
		_, err := s.GeneratePlan(result)
		assert.ErrorIs(t, err, models.ErrInsufficientEntries)
	})

	t.Run("budget below one unit", func(t *testing.T) {
		s := &Strategy{budget: 50, logger: quietLogger()}
		_, err := s.GeneratePlan(rankedResult())
		assert.ErrorIs(t, err, models.ErrBudgetTooSmall)
	})
}

func TestGeneratePlanSingleTicket(t *testing.T) {
	s := NewStrategy(200, quietLogger())

	plan, err := s.GeneratePlan(rankedResult())
	require.NoError(t, err)

	require.Len(t, plan.Tickets, 1)
	assert.Equal(t, models.TicketWin, plan.Tickets[0].Type)
	assert.Equal(t, 1, plan.Tickets[0].HorseNumber)
	assert.True(t, plan.TotalBet.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, plan.Honmei)
	assert.Equal(t, "本命", plan.Honmei.Name)
}

func TestGeneratePlanTripleTicket(t *testing.T) {
	s := NewStrategy(400, quietLogger())

	plan, err := s.GeneratePlan(rankedResult())
	require.NoError(t, err)

	require.Len(t, plan.Tickets, 3)
	assert.Equal(t, 1, plan.Tickets[0].HorseNumber)
	assert.Equal(t, 2, plan.Tickets[1].HorseNumber)
	// third slot goes to the top longshot, not the second contender
	assert.Equal(t, 5, plan.Tickets[2].HorseNumber)
	assert.True(t, totalOf(plan).Equal(decimal.NewFromInt(400)))
}

func TestGeneratePlanFivePicks(t *testing.T) {
	s := NewStrategy(1000, quietLogger())

	plan, err := s.GeneratePlan(rankedResult())
	require.NoError(t, err)

	require.Len(t, plan.Tickets, 5)
	numbers := make([]int, 0, 5)
	for _, ticket := range plan.Tickets {
		numbers = append(numbers, ticket.HorseNumber)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 6}, numbers)

	assert.True(t, totalOf(plan).Equal(decimal.NewFromInt(1000)))
	assert.Len(t, plan.Anauma, 2)
	assert.Equal(t, "穴1", plan.Anauma[0].Name)

	// every ticket is a multiple of the minimum unit
	unit := decimal.NewFromInt(MinBetUnit)
	for _, ticket := range plan.Tickets {
		assert.True(t, ticket.Amount.Mod(unit).IsZero(), ticket.HorseName)
		assert.True(t, ticket.Amount.GreaterThanOrEqual(unit))
	}
}

func TestGeneratePlanLongshotsExcludeTopPicks(t *testing.T) {
	s := NewStrategy(1000, quietLogger())

	plan, err := s.GeneratePlan(rankedResult())
	require.NoError(t, err)

	picked := map[int]bool{1: true, 2: true, 3: true}
	for _, anauma := range plan.Anauma {
		assert.False(t, picked[anauma.Number], "longshot duplicates a top pick")
	}
}

func TestGeneratePlanFewLongshots(t *testing.T) {
	// value ranking offers nothing outside the top three
	ability := rankedResult().AbilityResults[:3]
	result := &models.EvaluationResult{
		AbilityResults: ability,
		ValueResults:   ability,
	}

	s := NewStrategy(1000, quietLogger())
	plan, err := s.GeneratePlan(result)
	require.NoError(t, err)

	require.Len(t, plan.Tickets, 3)
	assert.Empty(t, plan.Anauma)
	assert.True(t, totalOf(plan).Equal(decimal.NewFromInt(1000)))
}

func TestEstimateCombinedOdds(t *testing.T) {
	assert.InDelta(t, 8.0, EstimateCombinedOdds(4.0, 5.0, models.TicketQuinella), 1e-9)
	assert.InDelta(t, 10.0, EstimateCombinedOdds(4.0, 5.0, models.TicketExacta), 1e-9)
	assert.InDelta(t, 3.6, EstimateCombinedOdds(4.0, 5.0, models.TicketWide), 1e-9)
	// unknown types fall back to the quinella divisor
	assert.InDelta(t, 8.0, EstimateCombinedOdds(4.0, 5.0, models.TicketWin), 1e-9)
}

func TestNewStrategyDefaults(t *testing.T) {
	s := NewStrategy(0, nil)
	assert.Equal(t, int64(DefaultBudget), s.budget)
}
