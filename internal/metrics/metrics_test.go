package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistry(t *testing.T) {
	r1 := InitRegistry()
	r2 := GetRegistry()
	assert.Same(t, r1, r2)
}

func TestRecordersAndHandler(t *testing.T) {
	InitRegistry()

	RecordEvaluation(0.012, 16, "front_favored")
	RecordEntryDropped()
	RecordBettingPlan()
	RecordFetch(0.004)
	DarkHorseEntries.Set(12)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "keiba_predictor_evaluations_total")
	assert.Contains(t, body, `keiba_predictor_pace_forecasts_total{forecast="front_favored"}`)
	assert.Contains(t, body, "keiba_predictor_dark_horse_entries 12")
}
