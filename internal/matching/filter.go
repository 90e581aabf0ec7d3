package matching

import (
	"strings"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// SearchFilters are the optional hard constraints; all set predicates must hold.
type SearchFilters struct {
	Expertise       []string              `json:"expertise,omitempty"`
	ExperienceLevel domain.ExpertiseLevel `json:"experience_level,omitempty"`
	MinRating       *float64              `json:"min_rating,omitempty"`
	MaxHourlyRate   *float64              `json:"max_hourly_rate,omitempty"`
	Language        string                `json:"language,omitempty"`
	DayOfWeek       *int                  `json:"day_of_week,omitempty"`
}

// Filter returns the candidates that satisfy every set predicate, preserving order.
func Filter(candidates []domain.Coach, f SearchFilters) []domain.Coach {
	out := make([]domain.Coach, 0, len(candidates))
	for i := range candidates {
		if Accepts(&candidates[i], f) {
			out = append(out, candidates[i])
		}
	}
	return out
}

// Accepts reports whether a single coach passes the filters.
func Accepts(c *domain.Coach, f SearchFilters) bool {
	if terms := nonEmpty(f.Expertise); len(terms) > 0 && !hasAnyExpertise(c, terms) {
		return false
	}
	if required := f.ExperienceLevel.Rank(); required > 0 && c.HighestLevel().Rank() < required {
		return false
	}
	if f.MinRating != nil && c.Metrics.AverageRating < *f.MinRating {
		return false
	}
	if f.MaxHourlyRate != nil && c.HourlyRate > *f.MaxHourlyRate {
		return false
	}
	if lang := strings.TrimSpace(f.Language); lang != "" && !speaks(c, lang) {
		return false
	}
	if f.DayOfWeek != nil && !availableOn(c, *f.DayOfWeek) {
		return false
	}
	return true
}

func hasAnyExpertise(c *domain.Coach, terms []string) bool {
	for _, term := range terms {
		if findExpertise(c, term) != nil {
			return true
		}
	}
	return false
}

// findExpertise returns the strongest expertise entry whose category or subcategory
// overlaps term, or nil.
func findExpertise(c *domain.Coach, term string) *domain.Expertise {
	var best *domain.Expertise
	for i := range c.Expertise {
		e := &c.Expertise[i]
		if !containsFold(e.Category, term) && !containsFold(e.Subcategory, term) {
			continue
		}
		if best == nil || e.Level.Rank() > best.Level.Rank() ||
			(e.Level.Rank() == best.Level.Rank() && e.YearsExperience > best.YearsExperience) {
			best = e
		}
	}
	return best
}

func speaks(c *domain.Coach, lang string) bool {
	needle := strings.ToLower(lang)
	for _, l := range c.Languages {
		if strings.Contains(strings.ToLower(l), needle) {
			return true
		}
	}
	return false
}

func availableOn(c *domain.Coach, day int) bool {
	for _, a := range c.Availability {
		if a.DayOfWeek == day {
			return true
		}
	}
	return false
}

// containsFold is a case-insensitive, bidirectional substring check. Empty strings never match.
func containsFold(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
