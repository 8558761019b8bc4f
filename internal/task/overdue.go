package task

import "time"

// IsOverdue reports whether an incomplete task's deadline date is strictly
// before the calendar date of now. Time of day is ignored on both sides.
func IsOverdue(t Task, now time.Time) bool {
	if !t.HasDeadline() || t.IsCompleted {
		return false
	}
	deadline, err := ParseDeadline(*t.Deadline, now.Location())
	if err != nil {
		return false
	}
	return startOfDay(deadline).Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
