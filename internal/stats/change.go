package stats

import "math"

// PercentChange compares current against previous as a whole percentage.
// A zero (or negative) baseline yields 100 when current is positive and 0
// otherwise, so "nothing to something" reads as a full gain.
func PercentChange(current, previous float64) int {
	if previous > 0 {
		return roundHalfUp(100 * (current - previous) / previous)
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Rate returns part/whole as a rounded percentage, 0 when whole is 0.
func Rate(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part > whole {
		part = whole
	}
	return roundHalfUp(100 * float64(part) / float64(whole))
}

// roundHalfUp rounds halves toward +Inf (-2.5 -> -2, 2.5 -> 3).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func progress(current, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(float64(current)/float64(goal), 1)
}
