package scheduling

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect. Touching edges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflict returns the first blocking session overlapping the window, skipping excludeID.
func FindConflict(sessions []domain.Session, start, end time.Time, excludeID string) *domain.Session {
	for i := range sessions {
		s := &sessions[i]
		if s.ID == excludeID || !s.Blocking() {
			continue
		}
		if Overlaps(start, end, s.ScheduledStartTime, s.ScheduledEndTime) {
			return s
		}
	}
	return nil
}

// busyMinutes sums how much of [from,to) is covered by blocking sessions.
func busyMinutes(sessions []domain.Session, from, to time.Time) float64 {
	total := 0.0
	for i := range sessions {
		s := &sessions[i]
		if !s.Blocking() || !Overlaps(from, to, s.ScheduledStartTime, s.ScheduledEndTime) {
			continue
		}
		start := maxTime(from, s.ScheduledStartTime)
		end := minTime(to, s.ScheduledEndTime)
		total += end.Sub(start).Minutes()
	}
	return total
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
