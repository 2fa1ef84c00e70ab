package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// WriteMarkdown renders the evaluation and plan as a Markdown document.
func WriteMarkdown(w io.Writer, race *models.RaceInfo, result *models.EvaluationResult, plan *models.BettingPlan, generatedAt time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", race.Name)
	fmt.Fprintf(&b, "- Venue: %s %dm (%s)\n", race.Venue, race.Distance, race.TrackCondition)
	if race.Grade != "" {
		fmt.Fprintf(&b, "- Grade: %s\n", race.Grade)
	}
	if race.Date != "" {
		fmt.Fprintf(&b, "- Date: %s\n", race.Date)
	}
	fmt.Fprintf(&b, "- Generated: %s\n\n", generatedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Pace forecast\n\n%s\n\n", paceLabel(result.PaceAnalysis.Pace))

	styles := result.PaceAnalysis.Metadata.RunningStyles
	if len(styles) > 0 {
		b.WriteString("| Horse | Style | Adjustment |\n|---|---|---|\n")
		names := make([]string, 0, len(styles))
		for name := range styles {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %s | %.4f |\n", name, styleLabel(styles[name]), result.PaceAnalysis.AdjustmentFor(name))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Ability ranking\n\n")
	writeMarkdownRanking(&b, result.AbilityResults)
	b.WriteString("## Value ranking\n\n")
	writeMarkdownRanking(&b, result.ValueResults)

	if plan != nil {
		fmt.Fprintf(&b, "## Betting plan (%s)\n\n", plan.Strategy)
		b.WriteString("| Type | No | Horse | Amount |\n|---|---|---|---|\n")
		for _, ticket := range plan.Tickets {
			fmt.Fprintf(&b, "| %s | %d | %s | ¥%s |\n", ticket.Type, ticket.HorseNumber, ticket.HorseName, ticket.Amount.StringFixed(0))
		}
		fmt.Fprintf(&b, "\nTotal: ¥%s\n", plan.TotalBet.StringFixed(0))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownRanking(b *strings.Builder, results []models.ScoreBreakdown) {
	if len(results) == 0 {
		b.WriteString("(no scored entries)\n\n")
		return
	}
	b.WriteString("| Rank | No | Horse | Score | Odds | Perf | Course | Track | Value | Dark |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for i, r := range results {
		fmt.Fprintf(b, "| %d | %d | %s | %.2f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			i+1, r.Number, r.Name, r.FinalScore, r.Odds,
			r.Performance, r.CourseFit, r.TrackCondition, r.OddsValue, r.DarkHorse)
	}
	b.WriteString("\n")
}
