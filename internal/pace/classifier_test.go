package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keiba-predictor/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		features models.StyleFeatures
		want     models.RunningStyle
	}{
		{
			name:     "no data",
			features: models.StyleFeatures{},
			want:     models.StyleUnknown,
		},
		{
			name:     "escape needs front ratio and finishes",
			features: models.StyleFeatures{FrontCount: 4, CloseCount: 1, AvgFinish: floatPtr(3.0)},
			want:     models.StyleEscape,
		},
		{
			name:     "escape boundary ratio inclusive",
			features: models.StyleFeatures{FrontCount: 3, CloseCount: 1, AvgFinish: floatPtr(5.0)},
			want:     models.StyleEscape,
		},
		{
			name:     "front runner with weak finishes is leading",
			features: models.StyleFeatures{FrontCount: 4, CloseCount: 1, AvgFinish: floatPtr(8.0)},
			want:     models.StyleLeading,
		},
		{
			name:     "front runner without finish data is leading",
			features: models.StyleFeatures{FrontCount: 5},
			want:     models.StyleLeading,
		},
		{
			name:     "leading boundary inclusive",
			features: models.StyleFeatures{FrontCount: 2, CloseCount: 3},
			want:     models.StyleLeading,
		},
		{
			name:     "chase band",
			features: models.StyleFeatures{FrontCount: 1, CloseCount: 4},
			want:     models.StyleChase,
		},
		{
			name:     "chase boundary inclusive",
			features: models.StyleFeatures{FrontCount: 3, CloseCount: 17},
			want:     models.StyleChase,
		},
		{
			name:     "pursuer",
			features: models.StyleFeatures{FrontCount: 0, CloseCount: 5},
			want:     models.StylePursue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.features))
		})
	}
}
