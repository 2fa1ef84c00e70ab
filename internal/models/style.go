package models

// RunningStyle is a horse's categorical pace tendency derived from where it
// has positioned itself in recent starts.
type RunningStyle string

// Running style labels.
const (
	StyleEscape  RunningStyle = "escape"
	StyleLeading RunningStyle = "leading"
	StyleChase   RunningStyle = "chase"
	StylePursue  RunningStyle = "pursue"
	StyleUnknown RunningStyle = "unknown"
)

// PaceForecast is the race-level prediction of which running styles the
// likely race shape favors.
type PaceForecast string

// Pace forecast labels.
const (
	PaceFrontFavored  PaceForecast = "front_favored"
	PaceCloserFavored PaceForecast = "closer_favored"
	PaceAverage       PaceForecast = "average"
)

// StyleFeatures are the per-horse aggregates the style classifier and pace
// analyzer work from. Optional averages are nil when no race in the window
// carried the underlying data. Recomputed fresh on every evaluation call.
type StyleFeatures struct {
	Name       string
	FrontCount int
	CloseCount int
	AvgLast3F  *float64
	AvgFinish  *float64
}

// PaceMetadata carries the analyzer's intermediate values for observability
// and tests.
type PaceMetadata struct {
	RunningStyles map[string]RunningStyle `json:"running_styles"`
	FrontZScores  map[string]float64      `json:"front_z_scores"`
	CloseZScores  map[string]float64      `json:"close_z_scores"`
	FrontTopSum   float64                 `json:"front_top_sum"`
	CloseTopSum   float64                 `json:"close_top_sum"`
}

// PaceAnalysis is the analyzer output for one race: the forecast label plus
// each horse's bounded multiplicative score adjustment. Valid only for the
// evaluation call that produced it.
type PaceAnalysis struct {
	Pace        PaceForecast       `json:"pace"`
	Adjustments map[string]float64 `json:"adjustments"`
	Metadata    PaceMetadata       `json:"metadata"`
}

// AdjustmentFor returns the multiplier for a horse, defaulting to neutral.
func (p *PaceAnalysis) AdjustmentFor(name string) float64 {
	if p == nil {
		return 1.0
	}
	if adj, ok := p.Adjustments[name]; ok {
		return adj
	}
	return 1.0
}
