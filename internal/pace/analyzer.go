package pace

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// Default analyzer tuning. These are house constants carried over unchanged;
// they were chosen empirically, not derived.
const (
	DefaultTopN            = 3
	DefaultAdjustmentScale = 0.08
	DefaultBiasThreshold   = 0.12

	// maxAdjustmentCap bounds any multiplier to +-10% regardless of scale.
	maxAdjustmentCap = 0.10
)

// Analyzer aggregates per-horse style features into a race-level pace
// forecast and a bounded score adjustment per horse.
type Analyzer struct {
	TopN            int
	AdjustmentScale float64
	BiasThreshold   float64
}

// NewAnalyzer creates an analyzer with the given tuning, substituting
// defaults for zero values.
func NewAnalyzer(topN int, adjustmentScale, biasThreshold float64) *Analyzer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if adjustmentScale <= 0 {
		adjustmentScale = DefaultAdjustmentScale
	}
	if biasThreshold <= 0 {
		biasThreshold = DefaultBiasThreshold
	}
	return &Analyzer{
		TopN:            topN,
		AdjustmentScale: adjustmentScale,
		BiasThreshold:   biasThreshold,
	}
}

// Analyze produces the pace forecast for one field of horses. A field with
// no spread in features degenerates to the average forecast with all
// multipliers at 1.0.
func (a *Analyzer) Analyze(horses []models.StyleFeatures) models.PaceAnalysis {
	names := make([]string, len(horses))
	styles := make(map[string]models.RunningStyle, len(horses))
	frontFeatures := make([]float64, len(horses))
	closeFeatures := make([]float64, len(horses))

	for i, h := range horses {
		names[i] = h.Name
		styles[h.Name] = Classify(h)

		front := float64(h.FrontCount)
		if h.AvgFinish != nil {
			// a better average finish nudges the front signal
			front += math.Max(0, (11.0-*h.AvgFinish)/10.0) * 0.25
		}
		closing := float64(h.CloseCount)
		if h.AvgLast3F != nil {
			// a faster closing split nudges the close signal
			closing += math.Max(0, (40.0-*h.AvgLast3F)/6.0) * 0.6
		}
		frontFeatures[i] = front
		closeFeatures[i] = closing
	}

	frontZ := zScores(frontFeatures)
	closeZ := zScores(closeFeatures)

	frontZMap := make(map[string]float64, len(names))
	closeZMap := make(map[string]float64, len(names))
	for i, name := range names {
		frontZMap[name] = frontZ[i]
		closeZMap[name] = closeZ[i]
	}

	frontTopSum := topPositiveSum(frontZ, a.TopN)
	closeTopSum := topPositiveSum(closeZ, a.TopN)

	var label models.PaceForecast
	switch {
	case frontTopSum > closeTopSum*(1.0+a.BiasThreshold):
		label = models.PaceFrontFavored
	case closeTopSum > frontTopSum*(1.0+a.BiasThreshold):
		label = models.PaceCloserFavored
	default:
		label = models.PaceAverage
	}

	maxAdjustment := math.Min(maxAdjustmentCap, a.AdjustmentScale*1.25)
	adjustments := make(map[string]float64, len(names))
	for i, name := range names {
		var rawDiff float64
		switch label {
		case models.PaceCloserFavored:
			rawDiff = closeZ[i] - frontZ[i]
		case models.PaceFrontFavored:
			rawDiff = frontZ[i] - closeZ[i]
		}

		// tanh compresses outliers before the scale and cap apply
		scaled := math.Tanh(rawDiff) * a.AdjustmentScale
		multiplier := 1.0 + clamp(scaled, -maxAdjustment, maxAdjustment)
		adjustments[name] = round4(multiplier)
	}

	return models.PaceAnalysis{
		Pace:        label,
		Adjustments: adjustments,
		Metadata: models.PaceMetadata{
			RunningStyles: styles,
			FrontZScores:  frontZMap,
			CloseZScores:  closeZMap,
			FrontTopSum:   round3(frontTopSum),
			CloseTopSum:   round3(closeTopSum),
		},
	}
}

// zScores normalizes values using the population standard deviation. A zero
// spread yields all-zero scores.
func zScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}
	mu := stat.Mean(values, nil)
	sigma := stat.PopStdDev(values, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return scores
	}
	for i, v := range values {
		scores[i] = (v - mu) / sigma
	}
	return scores
}

// topPositiveSum sums the top n z-scores, counting only above-average horses.
func topPositiveSum(scores []float64, n int) float64 {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	if n > len(sorted) {
		n = len(sorted)
	}
	sum := 0.0
	for _, z := range sorted[:n] {
		if z > 0 {
			sum += z
		}
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
