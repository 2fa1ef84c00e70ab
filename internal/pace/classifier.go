package pace

import (
	"github.com/yourusername/keiba-predictor/internal/models"
)

// Front-ratio thresholds for the style decision table. Boundary values fall
// into the more front-favoring branch: comparisons are >= on the way down.
const (
	escapeRatioMin  = 0.75
	leadingRatioMin = 0.40
	chaseRatioMin   = 0.15

	// escapeFinishMax: a horse racing forward this consistently is only an
	// escape type when it has also been finishing near the front.
	escapeFinishMax = 5.0
)

// Classify derives a horse's running style from its aggregated features.
func Classify(features models.StyleFeatures) models.RunningStyle {
	total := features.FrontCount + features.CloseCount
	if total == 0 {
		return models.StyleUnknown
	}

	frontRatio := float64(features.FrontCount) / float64(total)

	switch {
	case frontRatio >= escapeRatioMin:
		if features.AvgFinish != nil && *features.AvgFinish <= escapeFinishMax {
			return models.StyleEscape
		}
		return models.StyleLeading
	case frontRatio >= leadingRatioMin:
		return models.StyleLeading
	case frontRatio >= chaseRatioMin:
		return models.StyleChase
	default:
		return models.StylePursue
	}
}
