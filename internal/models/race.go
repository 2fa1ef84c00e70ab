package models

import (
	"time"
)

// RaceInfo describes the race being handicapped.
type RaceInfo struct {
	Name           string `json:"name"`
	Date           string `json:"date" validate:"omitempty,racedate"`
	Venue          string `json:"venue"`
	Distance       int    `json:"distance" validate:"required,gt=0"`
	TrackCondition string `json:"track_condition"`
	Grade          string `json:"grade"`
	RaceTime       string `json:"race_time,omitempty"`
}

// RaceCard is the full input snapshot for one evaluation: race metadata plus
// the field of entries. It is read-only to the scoring pipeline.
type RaceCard struct {
	RaceInfo RaceInfo     `json:"race_info"`
	Horses   []HorseEntry `json:"horses"`
}

// dateLayouts lists the date formats race cards carry, ISO first.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006年01月02日", "2006年1月2日"}

// ParseDate returns the race date, or the zero time if missing or malformed.
func (r *RaceInfo) ParseDate() time.Time {
	return parseAnyDate(r.Date)
}

func parseAnyDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// gradeLevels orders race grades from maiden class up to GI. Unlisted grades
// are treated as open class.
var gradeLevels = map[string]int{
	"GI":   5,
	"GII":  4,
	"GIII": 3,
	"OP":   2,
	"3勝":   1,
	"2勝":   0,
	"1勝":   -1,
}

// GradeLevel maps a grade label onto the class ladder. Higher means a bigger race.
func GradeLevel(grade string) int {
	if level, ok := gradeLevels[grade]; ok {
		return level
	}
	return 2
}

// InferGradeLevel guesses the grade level of a past race from its name and
// class label, falling back to open class when nothing matches.
func InferGradeLevel(raceName, classLabel string) int {
	for _, grade := range []string{"GIII", "GII", "GI", "OP", "3勝", "2勝", "1勝"} {
		if containsGrade(raceName, grade) || containsGrade(classLabel, grade) {
			return gradeLevels[grade]
		}
	}
	return 2
}

func containsGrade(s, grade string) bool {
	if s == "" {
		return false
	}
	for i := 0; i+len(grade) <= len(s); i++ {
		if s[i:i+len(grade)] == grade {
			// GI matches inside GII/GIII; require the next byte not extend the grade
			if grade == "GI" || grade == "GII" {
				if i+len(grade) < len(s) && s[i+len(grade)] == 'I' {
					continue
				}
			}
			return true
		}
	}
	return false
}
