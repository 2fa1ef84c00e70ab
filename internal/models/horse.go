package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// UnknownFinish is used when a finish position is missing or unparsable.
// Treated as a tail-of-field result by the scoring rules.
const UnknownFinish = 18

var leadingIntPattern = regexp.MustCompile(`\d+`)

// FlexInt is an int that tolerates the inconsistent upstream JSON, where
// numeric fields arrive either as numbers or as free-text strings such as
// "3着" or "+4kg". Unparsable values decode to zero rather than failing.
type FlexInt int

// UnmarshalJSON accepts numbers, numeric strings and strings with a leading
// integer somewhere inside them.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	if match := leadingIntPattern.FindString(s); match != "" {
		if v, err := strconv.Atoi(match); err == nil {
			if len(s) > 0 && s[0] == '-' {
				v = -v
			}
			*f = FlexInt(v)
			return nil
		}
	}
	*f = 0
	return nil
}

// Int returns the plain int value.
func (f FlexInt) Int() int {
	return int(f)
}

// PastRace is one historical start for a horse. The pace log and finish
// descriptor stay as raw text and are parsed lazily by the pace package.
type PastRace struct {
	Date             string  `json:"date"`
	RaceName         string  `json:"race"`
	Finish           FlexInt `json:"finish"`
	Runners          int     `json:"runners"`
	Margin           float64 `json:"time_margin"`
	Distance         int     `json:"distance"`
	Venue            string  `json:"venue"`
	TrackCondition   string  `json:"track_condition"`
	Class            string  `json:"class"`
	PaceLog          string  `json:"time_margin_pace"`
	FinishDescriptor string  `json:"position_runners_pop"`
}

// FinishPosition returns the finish position, substituting UnknownFinish when
// the field was missing or unparsable.
func (p *PastRace) FinishPosition() int {
	if p.Finish <= 0 {
		return UnknownFinish
	}
	return p.Finish.Int()
}

// ParseDate returns the race date, or the zero time when malformed.
func (p *PastRace) ParseDate() time.Time {
	return parseAnyDate(p.Date)
}

// HorseEntry is one runner on the card. Owned by the caller; the scoring
// pipeline never mutates it.
type HorseEntry struct {
	Name         string     `json:"name" validate:"required"`
	Number       int        `json:"number" validate:"required,gt=0"`
	Odds         float64    `json:"odds" validate:"required,gt=0"`
	Jockey       string     `json:"jockey"`
	Weight       FlexInt    `json:"weight"`
	WeightChange FlexInt    `json:"weight_change"`
	Popularity   FlexInt    `json:"popularity"`
	PedigreeTag  string     `json:"pedigree,omitempty"`
	RecentRaces  []PastRace `json:"recent_races"`
}

// RecentWindow returns up to n of the most recent past races.
func (h *HorseEntry) RecentWindow(n int) []PastRace {
	if len(h.RecentRaces) <= n {
		return h.RecentRaces
	}
	return h.RecentRaces[:n]
}
