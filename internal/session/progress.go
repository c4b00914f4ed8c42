package session

// Progress tracks answered problems. Completed only grows; Streak counts
// consecutive correct answers and drops to zero on a miss.
type Progress struct {
	Completed int `json:"completed"`
	Streak    int `json:"streak"`
}

// MathWhizThreshold is the number of completed problems that earns the
// "Math Whiz" badge.
const MathWhizThreshold = 3

// MathWhiz reports whether the badge is earned.
func (p Progress) MathWhiz() bool {
	return p.Completed >= MathWhizThreshold
}

// NextStreakMilestone returns the next streak milestone above current:
// 5, 10, 15, 20 and then every 5.
func NextStreakMilestone(current int) int {
	thresholds := []int{5, 10, 15, 20}
	for _, t := range thresholds {
		if t > current {
			return t
		}
	}
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether streak just reached a milestone.
func IsStreakMilestone(streak int) bool {
	return streak > 0 && NextStreakMilestone(streak-1) == streak
}
