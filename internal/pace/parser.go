// Package pace parses free-text race-log tokens and turns historical running
// positions into a race-level pace forecast.
package pace

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/keiba-predictor/internal/metrics"
	"github.com/yourusername/keiba-predictor/internal/models"
)

// StyleWindow is how many recent starts feed the style aggregation.
const StyleWindow = 5

// frontPositionMax is the corner-position cutoff for counting a start as run
// forward of the field.
const frontPositionMax = 5

var (
	cornerRunPattern = regexp.MustCompile(`(\d+(?:-\d+)+)`)
	last3FPattern    = regexp.MustCompile(`3F\s+([\d.]+)`)
	finishPattern    = regexp.MustCompile(`(\d+)着`)
)

// ParseLog extracts the average corner position and the closing 3-furlong
// split from a raw pace-log token such as "1:59.3 3-3-4 3F 33.8". Either
// value is nil when absent; malformed input never errors.
func ParseLog(token string) (avgCornerPos *int, last3F *float64) {
	if token == "" {
		return nil, nil
	}

	if match := cornerRunPattern.FindStringSubmatch(token); match != nil {
		parts := strings.Split(match[1], "-")
		sum := 0
		count := 0
		for _, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil {
				continue
			}
			sum += n
			count++
		}
		if count > 0 {
			avg := int(math.Round(float64(sum) / float64(count)))
			avgCornerPos = &avg
		}
	}

	if match := last3FPattern.FindStringSubmatch(token); match != nil {
		if v, err := strconv.ParseFloat(match[1], 64); err == nil {
			last3F = &v
		}
	}

	return avgCornerPos, last3F
}

// parseFinishDescriptor pulls the finish position out of a free-text finish
// descriptor like "3着 13頭 9番人気". Returns 0 when not found.
func parseFinishDescriptor(descriptor string) int {
	match := finishPattern.FindStringSubmatch(descriptor)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// AggregateRecent folds the most recent StyleWindow starts of a horse into
// its StyleFeatures. Races without position data affect neither count;
// averages are nil when nothing in the window parsed.
func AggregateRecent(name string, pastRaces []models.PastRace) models.StyleFeatures {
	features := models.StyleFeatures{Name: name}

	upTimes := make([]float64, 0, StyleWindow)
	finishes := make([]float64, 0, StyleWindow)

	limit := len(pastRaces)
	if limit > StyleWindow {
		limit = StyleWindow
	}

	for _, race := range pastRaces[:limit] {
		avgCornerPos, last3F := ParseLog(race.PaceLog)
		if race.PaceLog != "" && avgCornerPos == nil && last3F == nil {
			metrics.PaceLogParseFailuresTotal.Inc()
		}
		if avgCornerPos != nil {
			if *avgCornerPos <= frontPositionMax {
				features.FrontCount++
			} else {
				features.CloseCount++
			}
		}
		if last3F != nil {
			upTimes = append(upTimes, *last3F)
		}
		if pos := parseFinishDescriptor(race.FinishDescriptor); pos > 0 {
			finishes = append(finishes, float64(pos))
		}
	}

	if len(upTimes) > 0 {
		avg := mean(upTimes)
		features.AvgLast3F = &avg
	}
	if len(finishes) > 0 {
		avg := mean(finishes)
		features.AvgFinish = &avg
	}

	return features
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
