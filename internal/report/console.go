// Package report renders prediction results for the terminal and as
// Markdown files.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// paceLabels maps forecast constants onto display text.
var paceLabels = map[models.PaceForecast]string{
	models.PaceFrontFavored:  "front runners favored",
	models.PaceCloserFavored: "closers favored",
	models.PaceAverage:       "even pace",
}

// styleLabels maps running style constants onto display text.
var styleLabels = map[models.RunningStyle]string{
	models.StyleEscape:  "escape",
	models.StyleLeading: "leading",
	models.StyleChase:   "chase",
	models.StylePursue:  "pursue",
	models.StyleUnknown: "unknown",
}

// WriteConsole renders the evaluation and plan as a plain-text report.
func WriteConsole(w io.Writer, race *models.RaceInfo, result *models.EvaluationResult, plan *models.BettingPlan) error {
	var b strings.Builder

	b.WriteString(divider())
	fmt.Fprintf(&b, "%s  %s %dm (%s)\n", race.Name, race.Venue, race.Distance, race.TrackCondition)
	if race.Date != "" {
		fmt.Fprintf(&b, "Date: %s", race.Date)
		if race.RaceTime != "" {
			fmt.Fprintf(&b, "  Post time: %s", race.RaceTime)
		}
		b.WriteString("\n")
	}
	b.WriteString(divider())

	fmt.Fprintf(&b, "Pace forecast: %s\n\n", paceLabel(result.PaceAnalysis.Pace))

	b.WriteString("Ability ranking\n")
	writeRankingTable(&b, result.AbilityResults, 5)
	b.WriteString("\nValue ranking\n")
	writeRankingTable(&b, result.ValueResults, 5)

	if plan != nil {
		b.WriteString("\n")
		b.WriteString(divider())
		fmt.Fprintf(&b, "Betting plan (%s)\n", plan.Strategy)
		for _, ticket := range plan.Tickets {
			fmt.Fprintf(&b, "  %-8s #%-2d %-20s ¥%s\n", ticket.Type, ticket.HorseNumber, ticket.HorseName, ticket.Amount.StringFixed(0))
		}
		fmt.Fprintf(&b, "  Total: ¥%s\n", plan.TotalBet.StringFixed(0))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRankingTable(b *strings.Builder, results []models.ScoreBreakdown, limit int) {
	if len(results) == 0 {
		b.WriteString("  (no scored entries)\n")
		return
	}
	if limit > len(results) {
		limit = len(results)
	}
	fmt.Fprintf(b, "  %-4s %-3s %-20s %8s %7s %6s\n", "Rank", "No", "Horse", "Score", "Odds", "Pace")
	for i, r := range results[:limit] {
		fmt.Fprintf(b, "  %-4d %-3d %-20s %8.2f %7.1f %6.3f\n",
			i+1, r.Number, r.Name, r.FinalScore, r.Odds, r.PaceAdjustment)
	}
}

func paceLabel(pace models.PaceForecast) string {
	if label, ok := paceLabels[pace]; ok {
		return label
	}
	return string(pace)
}

func styleLabel(style models.RunningStyle) string {
	if label, ok := styleLabels[style]; ok {
		return label
	}
	return string(style)
}

func divider() string {
	return strings.Repeat("=", 60) + "\n"
}
