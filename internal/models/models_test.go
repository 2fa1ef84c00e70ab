package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"number", `486`, 486},
		{"numeric string", `"486"`, 486},
		{"finish text", `"3着"`, 3},
		{"signed gain", `"+4kg"`, 4},
		{"signed loss", `"-6"`, -6},
		{"popularity text", `"9番人気"`, 9},
		{"null", `null`, 0},
		{"garbage", `"計不"`, 0},
		{"bool", `true`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f.Int())
		})
	}
}

func TestPastRaceFinishPosition(t *testing.T) {
	assert.Equal(t, 3, (&PastRace{Finish: 3}).FinishPosition())
	assert.Equal(t, UnknownFinish, (&PastRace{Finish: 0}).FinishPosition())
	assert.Equal(t, UnknownFinish, (&PastRace{Finish: -1}).FinishPosition())
}

func TestParseDateLayouts(t *testing.T) {
	for _, date := range []string{"2025-12-28", "2025/12/28", "2025年12月28日"} {
		race := &RaceInfo{Date: date}
		parsed := race.ParseDate()
		require.False(t, parsed.IsZero(), date)
		assert.Equal(t, 28, parsed.Day())
	}
	assert.True(t, (&RaceInfo{Date: "28/12/2025"}).ParseDate().IsZero())
	assert.True(t, (&RaceInfo{}).ParseDate().IsZero())
}

func TestRecentWindow(t *testing.T) {
	horse := &HorseEntry{RecentRaces: []PastRace{{}, {}, {}, {}}}
	assert.Len(t, horse.RecentWindow(2), 2)
	assert.Len(t, horse.RecentWindow(10), 4)
}

func TestGradeLevel(t *testing.T) {
	assert.Equal(t, 5, GradeLevel("GI"))
	assert.Equal(t, 4, GradeLevel("GII"))
	assert.Equal(t, 0, GradeLevel("2勝"))
	assert.Equal(t, 2, GradeLevel("リステッド"))
	assert.Equal(t, 2, GradeLevel(""))
}

func TestInferGradeLevel(t *testing.T) {
	tests := []struct {
		raceName   string
		classLabel string
		want       int
	}{
		{"有馬記念(GI)", "", 5},
		{"日経新春杯(GII)", "", 4},
		{"福島記念(GIII)", "", 3},
		{"オープン特別", "OP", 2},
		{"", "2勝", 0},
		{"名称不明", "", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferGradeLevel(tt.raceName, tt.classLabel), tt.raceName+tt.classLabel)
	}
}

func TestPaceAnalysisAdjustmentFor(t *testing.T) {
	var nilAnalysis *PaceAnalysis
	assert.InDelta(t, 1.0, nilAnalysis.AdjustmentFor("馬"), 1e-9)

	analysis := &PaceAnalysis{Adjustments: map[string]float64{"先行馬": 1.05}}
	assert.InDelta(t, 1.05, analysis.AdjustmentFor("先行馬"), 1e-9)
	assert.InDelta(t, 1.0, analysis.AdjustmentFor("未知馬"), 1e-9)
}
