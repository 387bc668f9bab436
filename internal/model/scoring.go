package model

// Classification is the ordinal band a wellness score falls into.
type Classification string

const (
	ClassificationExcellent Classification = "EXCELLENT"
	ClassificationGood      Classification = "GOOD"
	ClassificationRegular   Classification = "REGULAR"
	ClassificationPoor      Classification = "POOR"
	ClassificationCritical  Classification = "CRITICAL"
)

// Alert reasons, in the order DetectAlerts reports them.
const (
	AlertHighStress      = "high stress"
	AlertLowMood         = "low mood"
	AlertInadequateSleep = "inadequate sleep"
)

// Alert thresholds.
const (
	HighStressThreshold = 8
	LowMoodThreshold    = 3
	MinHealthySleep     = 6.0
	MaxHealthySleep     = 9.0
)

// ComputeWellnessScore averages mood, inverted stress, energy and, when
// present, sleep quality. For inputs in [1,10] the result is in [1,10].
func ComputeWellnessScore(moodLevel, stressLevel, energyLevel int, sleepQuality *int) float64 {
	invertedStress := 11 - stressLevel
	total := moodLevel + invertedStress + energyLevel
	if sleepQuality != nil {
		return float64(total+*sleepQuality) / 4.0
	}
	return float64(total) / 3.0
}

// Classify maps a score to its band. Boundary values belong to the higher band.
func Classify(score float64) Classification {
	switch {
	case score >= 8:
		return ClassificationExcellent
	case score >= 6:
		return ClassificationGood
	case score >= 4:
		return ClassificationRegular
	case score >= 2:
		return ClassificationPoor
	default:
		return ClassificationCritical
	}
}

// DetectAlerts runs the independent alert checks and returns the triggered
// reasons in check order: stress, mood, sleep. The result is never nil.
func DetectAlerts(moodLevel, stressLevel int, sleepHours *float64) []string {
	reasons := []string{}
	if stressLevel >= HighStressThreshold {
		reasons = append(reasons, AlertHighStress)
	}
	if moodLevel <= LowMoodThreshold {
		reasons = append(reasons, AlertLowMood)
	}
	if sleepHours != nil && (*sleepHours < MinHealthySleep || *sleepHours > MaxHealthySleep) {
		reasons = append(reasons, AlertInadequateSleep)
	}
	return reasons
}

// RequiresAlert reports whether any alert check triggers.
func RequiresAlert(moodLevel, stressLevel int, sleepHours *float64) bool {
	return len(DetectAlerts(moodLevel, stressLevel, sleepHours)) > 0
}
