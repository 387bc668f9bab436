package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestComputeWellnessScore_StaysWithinBounds(t *testing.T) {
	for mood := MinLevel; mood <= MaxLevel; mood++ {
		for stress := MinLevel; stress <= MaxLevel; stress++ {
			for energy := MinLevel; energy <= MaxLevel; energy++ {
				score := ComputeWellnessScore(mood, stress, energy, nil)
				require.GreaterOrEqual(t, score, 1.0)
				require.LessOrEqual(t, score, 10.0)

				for quality := MinLevel; quality <= MaxLevel; quality++ {
					score := ComputeWellnessScore(mood, stress, energy, intPtr(quality))
					require.GreaterOrEqual(t, score, 1.0)
					require.LessOrEqual(t, score, 10.0)
				}
			}
		}
	}
}

func TestComputeWellnessScore_Formula(t *testing.T) {
	tests := []struct {
		name                 string
		mood, stress, energy int
		quality              *int
		want                 float64
	}{
		{"three terms", 6, 5, 9, nil, 7.0},
		{"four terms", 6, 5, 9, intPtr(3), 6.0},
		{"best case", 10, 1, 10, intPtr(10), 10.0},
		{"worst case", 1, 10, 1, intPtr(1), 1.0},
		{"worst case without sleep", 1, 10, 1, nil, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeWellnessScore(tt.mood, tt.stress, tt.energy, tt.quality), 1e-9)
		})
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Classification
	}{
		{10.0, ClassificationExcellent},
		{8.0, ClassificationExcellent},
		{7.999, ClassificationGood},
		{6.0, ClassificationGood},
		{5.99, ClassificationRegular},
		{4.0, ClassificationRegular},
		{3.5, ClassificationPoor},
		{2.0, ClassificationPoor},
		{1.999, ClassificationCritical},
		{1.0, ClassificationCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestDetectAlerts(t *testing.T) {
	t.Run("all checks trigger in fixed order", func(t *testing.T) {
		reasons := DetectAlerts(2, 9, floatPtr(10))
		assert.Equal(t, []string{AlertHighStress, AlertLowMood, AlertInadequateSleep}, reasons)
		assert.Equal(t, []string{"high stress", "low mood", "inadequate sleep"}, reasons)
	})

	t.Run("healthy values", func(t *testing.T) {
		reasons := DetectAlerts(7, 3, floatPtr(7.5))
		assert.NotNil(t, reasons)
		assert.Empty(t, reasons)
		assert.False(t, RequiresAlert(7, 3, floatPtr(7.5)))
	})

	t.Run("missing sleep hours never alerts on sleep", func(t *testing.T) {
		assert.Empty(t, DetectAlerts(5, 5, nil))
	})

	t.Run("thresholds are inclusive", func(t *testing.T) {
		assert.Equal(t, []string{AlertHighStress}, DetectAlerts(4, 8, nil))
		assert.Equal(t, []string{AlertLowMood}, DetectAlerts(3, 7, nil))
		assert.Empty(t, DetectAlerts(4, 7, floatPtr(6)))
		assert.Empty(t, DetectAlerts(4, 7, floatPtr(9)))
		assert.Equal(t, []string{AlertInadequateSleep}, DetectAlerts(4, 7, floatPtr(5.9)))
		assert.Equal(t, []string{AlertInadequateSleep}, DetectAlerts(4, 7, floatPtr(9.1)))
	})
}

func TestNewWellnessRecord(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	hours := 7.5
	in := WellnessInput{MoodLevel: 7, StressLevel: 4, EnergyLevel: 6, SleepHours: &hours, SleepQuality: intPtr(8), Notes: "ok"}

	rec := NewWellnessRecord(42, in, now)

	assert.Equal(t, uint(42), rec.UserID)
	assert.Equal(t, now.UTC(), rec.RecordedAt)
	assert.Equal(t, time.UTC, rec.RecordedAt.Location())
	require.NotNil(t, rec.SleepHours)
	assert.Equal(t, 7.5, *rec.SleepHours)

	hours = 3
	assert.Equal(t, 7.5, *rec.SleepHours, "record must not alias the input")
}

func TestEvaluate(t *testing.T) {
	rec := WellnessRecord{ID: 1, UserID: 1, MoodLevel: 2, StressLevel: 9, EnergyLevel: 2, SleepHours: floatPtr(4)}

	ev := Evaluate(rec)

	assert.InDelta(t, 2.0, ev.WellnessScore, 1e-9)
	assert.Equal(t, ClassificationPoor, ev.Classification)
	assert.True(t, ev.HasAlert)
	assert.Len(t, ev.AlertReasons, 3)
	assert.Equal(t, rec, ev.WellnessRecord)
}
