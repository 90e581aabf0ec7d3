package scheduling

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const (
	SlotStep      = 30 * time.Minute
	DefaultLimit  = 10
	maxWindowDays = 62
	densityPoints = 40.0
	fitPoints     = 35.0
	urgencyPoints = 25.0
)

var (
	ErrInvalidWindow   = errors.New("window end must be after window start")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrWindowTooLong   = errors.New("recommendation window is too long")
)

// Params describes one recommendation run for a single coach.
type Params struct {
	Coach       domain.Coach
	Request     *domain.CoachingRequest
	Busy        []domain.Session
	LastSession *time.Time
	Duration    time.Duration
	SessionType domain.SessionType
	Urgency     domain.Urgency
	WindowStart time.Time
	WindowEnd   time.Time
	Now         time.Time
	Limit       int
}

type slot struct {
	start   time.Time
	end     time.Time
	density float64
}

// Recommend generates free slots inside the coach's weekly availability and ranks them.
func Recommend(p Params) ([]domain.ScheduleRecommendation, error) {
	if p.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !p.WindowEnd.After(p.WindowStart) {
		return nil, ErrInvalidWindow
	}
	if p.WindowEnd.Sub(p.WindowStart) > maxWindowDays*24*time.Hour {
		return nil, ErrWindowTooLong
	}

	slots, err := candidateSlots(p)
	if err != nil {
		return nil, err
	}

	requestID := ""
	if p.Request != nil {
		requestID = p.Request.ID
	}
	sessionType := p.SessionType
	if sessionType == "" {
		sessionType = domain.SessionTypeOneOnOne
	}
	formatReason := fmt.Sprintf("%d-minute %s session", int(p.Duration.Minutes()), sessionTypeLabel(sessionType))

	recs := make([]domain.ScheduleRecommendation, 0, len(slots))
	for _, s := range slots {
		fit, fitReasons := programFit(p, s.start)
		urgency := urgencyScore(p, s.start)
		score := s.density*densityPoints + fit*fitPoints + urgency*urgencyPoints

		rec := domain.ScheduleRecommendation{
			CoachID:           p.Coach.ID,
			RequestID:         requestID,
			StartTime:         s.start,
			EndTime:           s.end,
			Score:             math.Round(math.Min(100, score)*100) / 100,
			CoachAvailability: availabilityTier(s.density),
			ProgramFit:        fitTier(fit),
			SessionType:       sessionType,
		}
		rec.Reasoning = append(rec.Reasoning, formatReason, densityReason(rec.CoachAvailability))
		rec.Reasoning = append(rec.Reasoning, fitReasons...)
		if urgency >= 0.75 && (p.Urgency == domain.UrgencyHigh || p.Urgency == domain.UrgencyUrgent) {
			rec.Reasoning = append(rec.Reasoning, "Early slot suits the request urgency")
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].StartTime.Before(recs[j].StartTime)
	})

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func candidateSlots(p Params) ([]slot, error) {
	seen := make(map[int64]struct{})
	var out []slot

	for _, av := range p.Coach.Availability {
		loc, err := ParseLocation(av.Timezone)
		if err != nil {
			return nil, err
		}
		from, err := ParseClock(av.StartTime)
		if err != nil {
			return nil, err
		}
		to, err := ParseClock(av.EndTime)
		if err != nil {
			return nil, err
		}
		if to <= from {
			return nil, fmt.Errorf("availability %s-%s ends before it starts", av.StartTime, av.EndTime)
		}

		first := p.WindowStart.In(loc)
		day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
		for ; day.Before(p.WindowEnd); day = day.AddDate(0, 0, 1) {
			if int(day.Weekday()) != av.DayOfWeek {
				continue
			}
			openAt := time.Date(day.Year(), day.Month(), day.Day(), from/60, from%60, 0, 0, loc)
			closeAt := time.Date(day.Year(), day.Month(), day.Day(), to/60, to%60, 0, 0, loc)
			span := closeAt.Sub(openAt).Minutes()
			density := 1 - busyMinutes(p.Busy, openAt, closeAt)/span
			if density < 0 {
				density = 0
			}

			for start := openAt; !start.Add(p.Duration).After(closeAt); start = start.Add(SlotStep) {
				end := start.Add(p.Duration)
				if start.Before(p.Now) || start.Before(p.WindowStart) || end.After(p.WindowEnd) {
					continue
				}
				if FindConflict(p.Busy, start, end, "") != nil {
					continue
				}
				key := start.Unix()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, slot{start: start.UTC(), end: end.UTC(), density: density})
			}
		}
	}
	return out, nil
}

// programFit scores timeline containment and spacing against the program cadence.
func programFit(p Params, start time.Time) (float64, []string) {
	if p.Request == nil {
		return 0.5, nil
	}
	if !p.Request.Timeline.Contains(start) {
		return 0.2, []string{"Falls outside the program timeline"}
	}
	reasons := []string{"Within the program timeline"}
	if p.LastSession == nil {
		return 1, append(reasons, "Good first session for the program")
	}

	interval := float64(p.Request.Timeline.SessionFrequency.IntervalDays())
	gap := start.Sub(*p.LastSession).Hours() / 24
	drift := math.Abs(gap-interval) / interval
	fit := 1 - math.Min(drift, 1)
	if fit >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Matches the %s session cadence", cadenceLabel(p.Request.Timeline.SessionFrequency)))
	} else if gap < interval {
		reasons = append(reasons, "Sooner than the usual cadence")
	} else {
		reasons = append(reasons, "Later than the usual cadence")
	}
	return fit, reasons
}

func cadenceLabel(f domain.SessionFrequency) string {
	if f == "" {
		return string(domain.FrequencyWeekly)
	}
	return string(f)
}

// urgencyScore favours earlier slots; the pull grows with urgency.
func urgencyScore(p Params, start time.Time) float64 {
	pull := 0.25
	switch p.Urgency {
	case domain.UrgencyMedium:
		pull = 0.5
	case domain.UrgencyHigh:
		pull = 0.75
	case domain.UrgencyUrgent:
		pull = 1
	}
	window := p.WindowEnd.Sub(p.WindowStart)
	pos := float64(start.Sub(p.WindowStart)) / float64(window)
	return 1 - pull*math.Max(0, math.Min(1, pos))
}

func sessionTypeLabel(t domain.SessionType) string {
	if t == domain.SessionTypeOneOnOne {
		return "one-on-one"
	}
	return string(t)
}

func availabilityTier(density float64) domain.AvailabilityTier {
	switch {
	case density >= 0.75:
		return domain.AvailabilityHigh
	case density >= 0.4:
		return domain.AvailabilityMedium
	default:
		return domain.AvailabilityLow
	}
}

func fitTier(fit float64) domain.ProgramFitTier {
	switch {
	case fit >= 0.8:
		return domain.ProgramFitExcellent
	case fit >= 0.5:
		return domain.ProgramFitGood
	default:
		return domain.ProgramFitFair
	}
}

func densityReason(t domain.AvailabilityTier) string {
	switch t {
	case domain.AvailabilityHigh:
		return "Coach has most of the day free"
	case domain.AvailabilityMedium:
		return "Coach has moderate availability that day"
	default:
		return "Coach is busy most of that day"
	}
}
