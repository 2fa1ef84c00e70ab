package evaluator

import (
	"fmt"
	"math"
)

// WeightProfile distributes the final score across the seven factor scores.
// Active factor weights are expected to sum to 1.0. Profiles are injected
// rather than shared globals so callers and tests can vary them freely.
type WeightProfile struct {
	PastPerformance   float64 `mapstructure:"past_performance" json:"past_performance"`
	CourseFit         float64 `mapstructure:"course_fit" json:"course_fit"`
	TrackCondition    float64 `mapstructure:"track_condition" json:"track_condition"`
	WeightChange      float64 `mapstructure:"weight_change" json:"weight_change"`
	Interval          float64 `mapstructure:"interval" json:"interval"`
	OddsValue         float64 `mapstructure:"odds_value" json:"odds_value"`
	DarkHorse         float64 `mapstructure:"dark_horse" json:"dark_horse"`
	ApplyClassPenalty bool    `mapstructure:"apply_class_penalty" json:"apply_class_penalty"`
}

// Sum returns the total of all factor weights.
func (w WeightProfile) Sum() float64 {
	return w.PastPerformance + w.CourseFit + w.TrackCondition +
		w.WeightChange + w.Interval + w.OddsValue + w.DarkHorse
}

// Validate checks that the weights form a proper distribution.
func (w WeightProfile) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return fmt.Errorf("factor weights sum to %.4f, want 1.0", w.Sum())
	}
	return nil
}

// AbilityProfile weights realized performance and course fit, with the
// class-jump penalty applied. Used for favorite and contender picks.
func AbilityProfile() WeightProfile {
	return WeightProfile{
		PastPerformance:   0.25,
		CourseFit:         0.25,
		TrackCondition:    0.10,
		WeightChange:      0.03,
		Interval:          0.07,
		OddsValue:         0.18,
		DarkHorse:         0.12,
		ApplyClassPenalty: true,
	}
}

// ValueProfile weights odds-implied value and longshot signals, without the
// class-jump penalty. Used for longshot picks.
func ValueProfile() WeightProfile {
	return WeightProfile{
		PastPerformance:   0.22,
		CourseFit:         0.23,
		TrackCondition:    0.08,
		WeightChange:      0.02,
		Interval:          0.07,
		OddsValue:         0.23,
		DarkHorse:         0.15,
		ApplyClassPenalty: false,
	}
}
