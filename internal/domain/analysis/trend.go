package analysis

import "math"

// minAgeDays floors the velocity denominator so same-day cohorts
// don't blow up the division
const minAgeDays = 0.5

// Velocity returns complaints per day for a cohort
func Velocity(count int, avgAgeDays float64) float64 {
	age := avgAgeDays
	if age < minAgeDays {
		age = minAgeDays
	}
	return float64(count) / age
}

// ClassifyTrend uses the unrounded velocity
func ClassifyTrend(velocity float64) Trend {
	switch {
	case velocity > 5:
		return TrendAccelerating
	case velocity > 2:
		return TrendRising
	default:
		return TrendStable
	}
}

// RoundVelocity is for reporting only, 1 decimal place
func RoundVelocity(velocity float64) float64 {
	return math.Round(velocity*10) / 10
}
