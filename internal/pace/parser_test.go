package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-predictor/internal/models"
)

func TestParseLog(t *testing.T) {
	t.Run("full token", func(t *testing.T) {
		pos, last3F := ParseLog("1:59.3 3-3-4 3F 33.8")
		require.NotNil(t, pos)
		require.NotNil(t, last3F)
		assert.Equal(t, 3, *pos) // (3+3+4)/3 = 3.33 rounds to 3
		assert.InDelta(t, 33.8, *last3F, 1e-9)
	})

	t.Run("rounding up", func(t *testing.T) {
		pos, _ := ParseLog("2:12.0 4-5-6-6 3F 35.0")
		require.NotNil(t, pos)
		assert.Equal(t, 5, *pos) // 21/4 = 5.25 rounds to 5

		pos, _ = ParseLog("2:12.0 5-6-6 3F 35.0")
		require.NotNil(t, pos)
		assert.Equal(t, 6, *pos) // 17/3 = 5.67 rounds to 6
	})

	t.Run("positions only", func(t *testing.T) {
		pos, last3F := ParseLog("1-1-1-1")
		require.NotNil(t, pos)
		assert.Equal(t, 1, *pos)
		assert.Nil(t, last3F)
	})

	t.Run("split only", func(t *testing.T) {
		pos, last3F := ParseLog("3F 34.2")
		assert.Nil(t, pos)
		require.NotNil(t, last3F)
		assert.InDelta(t, 34.2, *last3F, 1e-9)
	})

	t.Run("empty and garbage", func(t *testing.T) {
		pos, last3F := ParseLog("")
		assert.Nil(t, pos)
		assert.Nil(t, last3F)

		pos, last3F = ParseLog("出遅れ")
		assert.Nil(t, pos)
		assert.Nil(t, last3F)
	})

	t.Run("single position is not a corner run", func(t *testing.T) {
		pos, _ := ParseLog("7")
		assert.Nil(t, pos)
	})
}

func TestParseFinishDescriptor(t *testing.T) {
	assert.Equal(t, 3, parseFinishDescriptor("3着 13頭 9番人気"))
	assert.Equal(t, 12, parseFinishDescriptor("12着"))
	assert.Equal(t, 0, parseFinishDescriptor("中止"))
	assert.Equal(t, 0, parseFinishDescriptor(""))
}

func TestAggregateRecent(t *testing.T) {
	races := []models.PastRace{
		{PaceLog: "1:59.3 2-2-3 3F 34.0", FinishDescriptor: "1着 16頭 2番人気"},
		{PaceLog: "2:01.0 8-9-9 3F 33.6", FinishDescriptor: "5着 14頭 6番人気"},
		{PaceLog: "中止"},
		{PaceLog: "2:00.2 3-4-4 3F 34.4", FinishDescriptor: "3着 12頭 4番人気"},
	}

	features := AggregateRecent("テスト", races)
	assert.Equal(t, "テスト", features.Name)
	assert.Equal(t, 2, features.FrontCount)
	assert.Equal(t, 1, features.CloseCount)
	require.NotNil(t, features.AvgLast3F)
	assert.InDelta(t, 34.0, *features.AvgLast3F, 1e-9)
	require.NotNil(t, features.AvgFinish)
	assert.InDelta(t, 3.0, *features.AvgFinish, 1e-9)
}

func TestAggregateRecentWindow(t *testing.T) {
	// only the first StyleWindow starts count
	races := make([]models.PastRace, 0, StyleWindow+2)
	for i := 0; i < StyleWindow; i++ {
		races = append(races, models.PastRace{PaceLog: "1-1-1"})
	}
	races = append(races, models.PastRace{PaceLog: "10-10-10"}, models.PastRace{PaceLog: "10-10-10"})

	features := AggregateRecent("テスト", races)
	assert.Equal(t, StyleWindow, features.FrontCount)
	assert.Equal(t, 0, features.CloseCount)
}

func TestAggregateRecentEmpty(t *testing.T) {
	features := AggregateRecent("テスト", nil)
	assert.Equal(t, 0, features.FrontCount)
	assert.Equal(t, 0, features.CloseCount)
	assert.Nil(t, features.AvgLast3F)
	assert.Nil(t, features.AvgFinish)
}
