package model

import (
	"time"
)

// Bounds for self-reported wellness inputs.
const (
	MinLevel      = 1
	MaxLevel      = 10
	MinSleepHours = 0.0
	MaxSleepHours = 24.0
	MaxNotesLen   = 1000
)

// WellnessInput carries the raw values of a check-in before a record exists.
type WellnessInput struct {
	MoodLevel    int      `json:"mood_level" validate:"required,min=1,max=10"`
	StressLevel  int      `json:"stress_level" validate:"required,min=1,max=10"`
	EnergyLevel  int      `json:"energy_level" validate:"required,min=1,max=10"`
	SleepHours   *float64 `json:"sleep_hours,omitempty" validate:"omitempty,min=0,max=24"`
	SleepQuality *int     `json:"sleep_quality,omitempty" validate:"omitempty,min=1,max=10"`
	Notes        string   `json:"notes,omitempty" validate:"max=1000"`
}

// WellnessRecord is one stored check-in. Records are append-only: nothing in
// the repository layer updates or deletes them.
type WellnessRecord struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"user_id" gorm:"not null;index:idx_wellness_user_recorded,priority:1"`
	MoodLevel    int       `json:"mood_level" gorm:"not null;check:mood_level >= 1 AND mood_level <= 10"`
	StressLevel  int       `json:"stress_level" gorm:"not null;check:stress_level >= 1 AND stress_level <= 10"`
	EnergyLevel  int       `json:"energy_level" gorm:"not null;check:energy_level >= 1 AND energy_level <= 10"`
	SleepHours   *float64  `json:"sleep_hours,omitempty"`
	SleepQuality *int      `json:"sleep_quality,omitempty"`
	Notes        string    `json:"notes,omitempty" gorm:"size:1000"`
	RecordedAt   time.Time `json:"recorded_at" gorm:"not null;index:idx_wellness_user_recorded,priority:2,sort:desc;index:idx_wellness_recorded_at"`
}

// TableName pins the table name so it does not depend on gorm's pluralizer.
func (WellnessRecord) TableName() string {
	return "wellness_records"
}

// NewWellnessRecord builds a record for userID from an already validated input.
// RecordedAt is fixed here and never touched again.
func NewWellnessRecord(userID uint, in WellnessInput, now time.Time) *WellnessRecord {
	rec := &WellnessRecord{
		UserID:      userID,
		MoodLevel:   in.MoodLevel,
		StressLevel: in.StressLevel,
		EnergyLevel: in.EnergyLevel,
		Notes:       in.Notes,
		RecordedAt:  now.UTC(),
	}
	if in.SleepHours != nil {
		h := *in.SleepHours
		rec.SleepHours = &h
	}
	if in.SleepQuality != nil {
		q := *in.SleepQuality
		rec.SleepQuality = &q
	}
	return rec
}

// WellnessScore is the composite score of this record.
func (r WellnessRecord) WellnessScore() float64 {
	return ComputeWellnessScore(r.MoodLevel, r.StressLevel, r.EnergyLevel, r.SleepQuality)
}

// AlertReasons lists the thresholds this record crosses.
func (r WellnessRecord) AlertReasons() []string {
	return DetectAlerts(r.MoodLevel, r.StressLevel, r.SleepHours)
}

// EvaluatedRecord is a stored record plus the values derived from it on read.
type EvaluatedRecord struct {
	WellnessRecord
	WellnessScore  float64        `json:"wellness_score"`
	Classification Classification `json:"classification"`
	HasAlert       bool           `json:"has_alert"`
	AlertReasons   []string       `json:"alert_reasons"`
}

// Evaluate derives score, classification and alert state for r.
func Evaluate(r WellnessRecord) EvaluatedRecord {
	score := r.WellnessScore()
	reasons := r.AlertReasons()
	return EvaluatedRecord{
		WellnessRecord: r,
		WellnessScore:  score,
		Classification: Classify(score),
		HasAlert:       len(reasons) > 0,
		AlertReasons:   reasons,
	}
}

// EvaluateAll maps Evaluate over records, keeping order.
func EvaluateAll(records []WellnessRecord) []EvaluatedRecord {
	out := make([]EvaluatedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, Evaluate(r))
	}
	return out
}
