// Package betting turns ranked evaluation results into win-ticket plans
// under a fixed budget.
package betting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// Budget tiers. Amount splits inside each tier are house rules.
const (
	DefaultBudget = 400
	MinBetUnit    = 100

	singleTicketMax = 300
	tripleTicketMax = 500
)

// combinedOddsDivisors approximate a combined ticket's odds from the two win
// odds. Advisory only; real odds will differ.
var combinedOddsDivisors = map[models.TicketType]float64{
	models.TicketQuinella: 2.5,
	models.TicketWide:     5.5,
	models.TicketExacta:   2.0,
}

// Strategy generates betting plans from evaluation results.
type Strategy struct {
	budget int64
	logger *logrus.Logger
}

// NewStrategy creates a strategy for the given budget in yen. Non-positive
// budgets fall back to the default.
func NewStrategy(budget int64, logger *logrus.Logger) *Strategy {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Strategy{budget: budget, logger: logger}
}

// EstimateCombinedOdds approximates the odds of a combined ticket over two
// horses from their win odds.
func EstimateCombinedOdds(odds1, odds2 float64, ticketType models.TicketType) float64 {
	divisor, ok := combinedOddsDivisors[ticketType]
	if !ok {
		divisor = combinedOddsDivisors[models.TicketQuinella]
	}
	combined := decimal.NewFromFloat(odds1).
		Mul(decimal.NewFromFloat(odds2)).
		Div(decimal.NewFromFloat(divisor)).
		Round(1)
	value, _ := combined.Float64()
	return value
}

// GeneratePlan builds the ticket plan: the favorite and contenders come from
// the ability ranking, longshots from the value ranking excluding the top
// ability picks. The whole budget is spent in MinBetUnit steps.
func (s *Strategy) GeneratePlan(result *models.EvaluationResult) (*models.BettingPlan, error) {
	ability := result.AbilityResults
	value := result.ValueResults

	if len(ability) < 3 {
		return nil, models.ErrInsufficientEntries
	}
	if s.budget < MinBetUnit {
		return nil, fmt.Errorf("%w: have %d, need %d", models.ErrBudgetTooSmall, s.budget, MinBetUnit)
	}

	honmei := ability[0]
	taikou := []models.ScoreBreakdown{ability[1], ability[2]}

	picked := map[int]bool{honmei.Number: true, taikou[0].Number: true, taikou[1].Number: true}
	anauma := make([]models.ScoreBreakdown, 0, 2)
	for _, horse := range value {
		if picked[horse.Number] {
			continue
		}
		anauma = append(anauma, horse)
		if len(anauma) == 2 {
			break
		}
	}

	var tickets []models.Ticket
	var strategy string
	switch {
	case s.budget < singleTicketMax:
		tickets = []models.Ticket{winTicket(honmei, s.budget)}
		strategy = "single win (favorite only)"
	case s.budget < tripleTicketMax:
		third := taikou[1]
		if len(anauma) > 0 {
			third = anauma[0]
		}
		tickets = []models.Ticket{
			winTicket(honmei, s.budget*50/100),
			winTicket(taikou[0], s.budget*30/100),
			winTicket(third, s.budget*20/100),
		}
		strategy = "triple win"
	default:
		tickets = []models.Ticket{
			winTicket(honmei, s.budget*35/100),
			winTicket(taikou[0], s.budget*25/100),
			winTicket(taikou[1], s.budget*15/100),
		}
		switch len(anauma) {
		case 0:
		case 1:
			tickets = append(tickets, winTicket(anauma[0], s.budget*25/100))
		default:
			tickets = append(tickets,
				winTicket(anauma[0], s.budget*15/100),
				winTicket(anauma[1], s.budget*10/100))
		}
		strategy = fmt.Sprintf("%d-way win", len(tickets))
	}

	tickets = adjustToBudget(tickets, s.budget)

	total := decimal.Zero
	for _, ticket := range tickets {
		total = total.Add(ticket.Amount)
	}

	s.logger.WithFields(logrus.Fields{
		"strategy":  strategy,
		"tickets":   len(tickets),
		"total_bet": total.String(),
	}).Info("Betting plan generated")

	return &models.BettingPlan{
		Strategy: strategy,
		Tickets:  tickets,
		TotalBet: total,
		Honmei:   &honmei,
		Taikou:   taikou,
		Anauma:   anauma,
	}, nil
}

func winTicket(horse models.ScoreBreakdown, amount int64) models.Ticket {
	return models.Ticket{
		Type:        models.TicketWin,
		HorseNumber: horse.Number,
		HorseName:   horse.Name,
		Amount:      decimal.NewFromInt(amount),
	}
}

// adjustToBudget rescales ticket amounts proportionally so the plan spends
// the full budget, rounding all but the last ticket down to MinBetUnit and
// giving the remainder to the last one.
func adjustToBudget(tickets []models.Ticket, budget int64) []models.Ticket {
	if len(tickets) == 0 {
		return tickets
	}

	current := decimal.Zero
	for _, ticket := range tickets {
		current = current.Add(ticket.Amount)
	}
	budgetDec := decimal.NewFromInt(budget)
	unit := decimal.NewFromInt(MinBetUnit)

	if current.IsZero() {
		per := budgetDec.Div(decimal.NewFromInt(int64(len(tickets)))).Floor()
		for i := range tickets {
			tickets[i].Amount = per
		}
		tickets[len(tickets)-1].Amount = budgetDec.Sub(per.Mul(decimal.NewFromInt(int64(len(tickets) - 1))))
		return tickets
	}

	ratio := budgetDec.Div(current)
	allocated := decimal.Zero
	for i := range tickets {
		if i < len(tickets)-1 {
			adjusted := tickets[i].Amount.Mul(ratio).Div(unit).Floor().Mul(unit)
			if adjusted.LessThan(unit) {
				adjusted = unit
			}
			tickets[i].Amount = adjusted
			allocated = allocated.Add(adjusted)
		} else {
			remainder := budgetDec.Sub(allocated)
			if remainder.LessThan(unit) {
				remainder = unit
			}
			tickets[i].Amount = remainder
		}
	}
	return tickets
}
