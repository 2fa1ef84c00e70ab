package models

// DarkHorseRecord is a curated longshot annotation from the dark-horse store.
type DarkHorseRecord struct {
	HorseName        string  `json:"horse_name"`
	EvaluationScore  float64 `json:"evaluation_score"`
	EvaluationReason string  `json:"evaluation_reason"`
}
