package matching

import (
	"math"
	"strings"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const (
	neutralScore = 0.5

	// missingSkillPenalty is taken off for each required skill the coach lacks.
	missingSkillPenalty = 0.5
	maxTenureBonus      = 0.2
)

// requiredYears maps a requested level to the tenure that earns full experience credit.
var requiredYears = map[int]float64{
	1: 1,
	2: 3,
	3: 6,
	4: 10,
}

// SearchRequest is the scoring input: what the company needs and hard filters.
// RequiredLevel weighs skills and tenure without filtering coaches out;
// Filters.ExperienceLevel wins when both are set.
type SearchRequest struct {
	RequestID      string                `json:"request_id,omitempty"`
	RequiredSkills []string              `json:"required_skills,omitempty"`
	Goals          []string              `json:"goals,omitempty"`
	Filters        SearchFilters         `json:"filters"`
	PreferredDays  []int                 `json:"preferred_days,omitempty"`
	BudgetMax      *float64              `json:"budget_max,omitempty"`
	RequiredLevel  domain.ExpertiseLevel `json:"required_level,omitempty"`
	Limit          int                   `json:"limit,omitempty"`
}

func (r SearchRequest) skillTerms() []string {
	terms := nonEmpty(r.RequiredSkills)
	if len(terms) == 0 {
		terms = nonEmpty(r.Filters.Expertise)
	}
	return terms
}

func (r SearchRequest) preferredDays() []int {
	if len(r.PreferredDays) > 0 {
		return r.PreferredDays
	}
	if r.Filters.DayOfWeek != nil {
		return []int{*r.Filters.DayOfWeek}
	}
	return nil
}

func (r SearchRequest) requiredLevel() domain.ExpertiseLevel {
	if r.Filters.ExperienceLevel != "" {
		return r.Filters.ExperienceLevel
	}
	return r.RequiredLevel
}

func (r SearchRequest) budget() *float64 {
	if r.BudgetMax != nil {
		return r.BudgetMax
	}
	return r.Filters.MaxHourlyRate
}

// Score computes the weighted match for one coach. Weights must already be normalized.
func Score(c domain.Coach, req SearchRequest, w domain.MatchingWeights) domain.MentorMatch {
	matching, missing := skillCoverage(&c, req.skillTerms())
	scores := domain.SubScores{
		Skill:        skillScore(&c, req),
		Experience:   experienceScore(&c, req.requiredLevel()),
		Rating:       ratingScore(c.Metrics),
		Availability: availabilityScore(&c, req.preferredDays()),
		Price:        priceScore(c.HourlyRate, req.budget()),
	}

	total := float64(w.SkillMatch)*scores.Skill +
		float64(w.Experience)*scores.Experience +
		float64(w.Rating)*scores.Rating +
		float64(w.Availability)*scores.Availability +
		float64(w.Price)*scores.Price

	m := domain.MentorMatch{
		Coach:          c,
		MatchScore:     round2(clamp(total, 0, 100)),
		Scores:         scores,
		Confidence:     confidence(&c, scores),
		MatchingSkills: matching,
		MissingSkills:  missing,
	}
	m.Strengths = Strengths(&c)
	m.MatchReasons = Reasons(&c, scores, w, matching)
	return m
}

func skillScore(c *domain.Coach, req SearchRequest) float64 {
	terms := req.skillTerms()
	goals := nonEmpty(req.Goals)
	if len(terms) == 0 && len(goals) == 0 {
		return neutralScore
	}

	var skill float64
	if len(terms) > 0 {
		mandatory := len(nonEmpty(req.RequiredSkills)) > 0
		for _, term := range terms {
			if e := findExpertise(c, term); e != nil {
				skill += levelCredit(e, req.requiredLevel())
			} else if mandatory {
				skill -= missingSkillPenalty
			}
		}
		skill = math.Max(skill/float64(len(terms)), 0)
	}

	var goal float64
	if len(goals) > 0 {
		hit := 0
		for _, g := range goals {
			if findExpertise(c, g) != nil || bioMentions(c.Bio, g) {
				hit++
			}
		}
		goal = float64(hit) / float64(len(goals))
	}

	switch {
	case len(terms) > 0 && len(goals) > 0:
		return clamp(0.8*skill+0.2*goal, 0, 1)
	case len(terms) > 0:
		return clamp(skill, 0, 1)
	default:
		return clamp(goal, 0, 1)
	}
}

// levelCredit is full credit when the coach meets the required level (intermediate when
// unset) and proportional below it, plus up to 0.2 for years in the skill.
func levelCredit(e *domain.Expertise, required domain.ExpertiseLevel) float64 {
	have := e.Level.Rank()
	if have == 0 {
		have = 2
	}
	need := required.Rank()
	if need == 0 {
		need = 2
	}
	level := 1.0
	if have < need {
		level = float64(have) / float64(need)
	}
	bonus := math.Min(float64(e.YearsExperience)/5, maxTenureBonus)
	return math.Min(level+bonus, 1)
}

func skillCoverage(c *domain.Coach, terms []string) (matching, missing []string) {
	matching = []string{}
	missing = []string{}
	for _, term := range terms {
		if findExpertise(c, term) != nil {
			matching = append(matching, term)
		} else {
			missing = append(missing, term)
		}
	}
	return matching, missing
}

func bioMentions(bio, goal string) bool {
	bio = strings.ToLower(bio)
	goal = strings.ToLower(strings.TrimSpace(goal))
	return bio != "" && goal != "" && strings.Contains(bio, goal)
}

func experienceScore(c *domain.Coach, level domain.ExpertiseLevel) float64 {
	need, ok := requiredYears[level.Rank()]
	if !ok {
		need = requiredYears[2]
	}
	years := float64(c.MaxYearsExperience())
	if years >= need {
		return 1
	}
	return years / need
}

func ratingScore(m domain.CoachMetrics) float64 {
	if m.AverageRating <= 0 {
		return neutralScore
	}
	s := m.AverageRating/5 + math.Min(float64(m.TotalSessions)/100, 0.2) + m.SuccessRate*0.1
	return clamp(s, 0, 1)
}

func availabilityScore(c *domain.Coach, days []int) float64 {
	if len(days) == 0 || len(c.Availability) == 0 {
		return neutralScore
	}
	wanted := make(map[int]struct{}, len(days))
	for _, d := range days {
		wanted[d] = struct{}{}
	}
	covered := 0
	for d := range wanted {
		if availableOn(c, d) {
			covered++
		}
	}
	return float64(covered) / float64(len(wanted))
}

func priceScore(rate float64, budget *float64) float64 {
	if budget == nil || *budget <= 0 {
		return neutralScore
	}
	switch {
	case rate <= *budget*0.8:
		return 1
	case rate <= *budget:
		return 0.8
	default:
		overage := (rate - *budget) / *budget
		return math.Max(0, 0.5-overage)
	}
}

func confidence(c *domain.Coach, s domain.SubScores) float64 {
	v := (s.Skill + s.Experience + s.Availability) / 3
	if c.Metrics.TotalSessions > 20 {
		v += 0.1
	}
	if c.Metrics.AverageRating > 4.5 {
		v += 0.1
	}
	return round2(clamp(v, 0, 1) * 100)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
