package models

// ScoreBreakdown is the scored view of one entry: every factor sub-score
// (0-100) plus the weighted final. Immutable once produced.
type ScoreBreakdown struct {
	Name           string  `json:"name"`
	Number         int     `json:"number"`
	Odds           float64 `json:"odds"`
	Jockey         string  `json:"jockey"`
	Weight         int     `json:"weight"`
	WeightChange   int     `json:"weight_change"`
	Popularity     int     `json:"popularity"`
	FinalScore     float64 `json:"final_score"`
	Performance    float64 `json:"performance_score"`
	CourseFit      float64 `json:"course_fit_score"`
	TrackCondition float64 `json:"track_condition_score"`
	WeightScore    float64 `json:"weight_change_score"`
	Interval       float64 `json:"interval_score"`
	OddsValue      float64 `json:"odds_value_score"`
	DarkHorse      float64 `json:"dark_horse_score"`
	ClassPenalty   float64 `json:"class_penalty"`
	PaceAdjustment float64 `json:"pace_adjustment"`
}

// EvaluationResult bundles both scoring passes over a race together with the
// pace analysis that fed them. Result slices are sorted descending by final
// score, input order preserved on ties.
type EvaluationResult struct {
	AbilityResults []ScoreBreakdown `json:"ability_results"`
	ValueResults   []ScoreBreakdown `json:"value_results"`
	PaceAnalysis   PaceAnalysis     `json:"pace_analysis"`
}

// Empty reports whether the evaluation produced no scored entries.
func (r *EvaluationResult) Empty() bool {
	return len(r.AbilityResults) == 0 && len(r.ValueResults) == 0
}
