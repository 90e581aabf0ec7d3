package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const (
	maxStrengths = 3
	maxReasons   = 4
)

// Strengths lists up to three highlights of the coach profile.
func Strengths(c *domain.Coach) []string {
	out := make([]string, 0, maxStrengths)

	if top := topExpertise(c); top != nil {
		label := top.Category
		if top.Subcategory != "" {
			label = fmt.Sprintf("%s (%s)", top.Category, top.Subcategory)
		}
		out = append(out, fmt.Sprintf("%s expertise, %d years at %s level",
			label, top.YearsExperience, strings.ToLower(string(top.Level))))
	}
	if c.Metrics.AverageRating >= 4.5 {
		out = append(out, fmt.Sprintf("%.1f average rating across %d sessions",
			c.Metrics.AverageRating, c.Metrics.TotalSessions))
	}
	if c.Metrics.SuccessRate >= 0.85 {
		out = append(out, fmt.Sprintf("%.0f%% client success rate", c.Metrics.SuccessRate*100))
	}
	if c.Metrics.ResponseTime > 0 && c.Metrics.ResponseTime <= 4 {
		out = append(out, fmt.Sprintf("Responds within %.0f hours", c.Metrics.ResponseTime))
	}
	if c.Metrics.TotalSessions >= 50 {
		out = append(out, "Proven track record with many completed sessions")
	}
	if len(out) == 0 {
		out = append(out, "Available for new coaching engagements")
	}
	if len(out) > maxStrengths {
		out = out[:maxStrengths]
	}
	return out
}

func topExpertise(c *domain.Coach) *domain.Expertise {
	var best *domain.Expertise
	for i := range c.Expertise {
		e := &c.Expertise[i]
		if best == nil || e.Level.Rank() > best.Level.Rank() ||
			(e.Level.Rank() == best.Level.Rank() && e.YearsExperience > best.YearsExperience) {
			best = e
		}
	}
	return best
}

type factor struct {
	contribution float64
	sub          float64
	reason       func() string
}

// Reasons justifies a match, strongest weighted factor first, at most four entries.
func Reasons(c *domain.Coach, s domain.SubScores, w domain.MatchingWeights, matchingSkills []string) []string {
	factors := []factor{
		{float64(w.SkillMatch) * s.Skill, s.Skill, func() string {
			if len(matchingSkills) > 0 {
				return "Strong skill match: " + strings.Join(matchingSkills, ", ")
			}
			return "Expertise aligned with program goals"
		}},
		{float64(w.Experience) * s.Experience, s.Experience, func() string {
			return fmt.Sprintf("%d years of hands-on experience", c.MaxYearsExperience())
		}},
		{float64(w.Rating) * s.Rating, s.Rating, func() string {
			return "Highly rated by previous clients"
		}},
		{float64(w.Availability) * s.Availability, s.Availability, func() string {
			return "Available on the preferred days"
		}},
		{float64(w.Price) * s.Price, s.Price, func() string {
			return fmt.Sprintf("Hourly rate of %.0f %s fits the budget", c.HourlyRate, currencyOf(c))
		}},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].contribution > factors[j].contribution
	})

	out := make([]string, 0, maxReasons)
	for _, f := range factors {
		if f.contribution <= 0 || f.sub < 0.7 {
			continue
		}
		out = append(out, f.reason())
		if len(out) == maxReasons {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, "Meets the basic requirements of the request")
	}
	return out
}

func currencyOf(c *domain.Coach) string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}
