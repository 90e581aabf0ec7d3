package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func defaultConfig() domain.MatchingConfiguration {
	return domain.MatchingConfiguration{
		Weights:             domain.DefaultMatchingWeights(),
		ConfidenceThreshold: 60,
		MaxResults:          10,
	}
}

func TestNormalizeWeights(t *testing.T) {
	cases := []struct {
		name string
		in   domain.MatchingWeights
		want domain.MatchingWeights
	}{
		{"already normalized", domain.DefaultMatchingWeights(), domain.DefaultMatchingWeights()},
		{"sum 80", domain.MatchingWeights{SkillMatch: 20, Experience: 20, Rating: 20, Availability: 20}, domain.MatchingWeights{SkillMatch: 25, Experience: 25, Rating: 25, Availability: 25}},
		{"sum 120", domain.MatchingWeights{SkillMatch: 40, Experience: 30, Rating: 20, Availability: 20, Price: 10}, domain.MatchingWeights{SkillMatch: 33, Experience: 25, Rating: 17, Availability: 17, Price: 8}},
		{"negative clamps", domain.MatchingWeights{SkillMatch: -5, Price: 10}, domain.MatchingWeights{Price: 100}},
		{"all zero", domain.MatchingWeights{}, domain.DefaultMatchingWeights()},
		{"thirds", domain.MatchingWeights{SkillMatch: 1, Experience: 1, Rating: 1}, domain.MatchingWeights{SkillMatch: 34, Experience: 33, Rating: 33}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeWeights(tc.in))
		})
	}
}

func TestNormalizeWeightsAlwaysSumsTo100(t *testing.T) {
	values := []int{-10, 0, 1, 3, 7, 13, 33, 50, 99, 250}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				w := NormalizeWeights(domain.MatchingWeights{SkillMatch: a, Experience: b, Rating: c, Availability: b + 1, Price: a + c})
				require.Equal(t, 100, w.Sum(), "weights %d/%d/%d", a, b, c)
				for _, v := range []int{w.SkillMatch, w.Experience, w.Rating, w.Availability, w.Price} {
					require.GreaterOrEqual(t, v, 0)
				}
			}
		}
	}
}

func TestFilterPredicates(t *testing.T) {
	coaches := domain.SeedCoaches()

	ids := func(cs []domain.Coach) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"mentor_1"}, ids(Filter(coaches, SearchFilters{MinRating: floatPtr(4.5), Expertise: []string{"React"}})))
	assert.Equal(t, []string{"mentor_1"}, ids(Filter(coaches, SearchFilters{Expertise: []string{"frontend development lead"}})))
	assert.Equal(t, []string{"mentor_2"}, ids(Filter(coaches, SearchFilters{Language: "mandarin"})))
	assert.Equal(t, []string{"mentor_3"}, ids(Filter(coaches, SearchFilters{DayOfWeek: intPtr(4)})))
	assert.Equal(t, []string{"mentor_3"}, ids(Filter(coaches, SearchFilters{ExperienceLevel: domain.LevelMaster})))
	assert.Equal(t, []string{"mentor_2"}, ids(Filter(coaches, SearchFilters{MaxHourlyRate: floatPtr(130)})))
	assert.Len(t, Filter(coaches, SearchFilters{Expertise: []string{"", "  "}}), 3)
	assert.Empty(t, Filter(coaches, SearchFilters{Expertise: []string{"Kubernetes"}}))
}

func TestFilterIsMonotonic(t *testing.T) {
	coaches := domain.SeedCoaches()
	prev := len(coaches)
	for _, r := range []float64{0, 4.0, 4.6, 4.75, 4.85, 5.0} {
		got := len(Filter(coaches, SearchFilters{MinRating: floatPtr(r)}))
		assert.LessOrEqual(t, got, prev, "min rating %.2f", r)
		prev = got
	}

	base := len(Filter(coaches, SearchFilters{Language: "English"}))
	stricter := len(Filter(coaches, SearchFilters{Language: "English", MaxHourlyRate: floatPtr(155)}))
	assert.LessOrEqual(t, stricter, base)
}

func TestScoreSeededMentor(t *testing.T) {
	sarah := domain.SeedCoaches()[0]
	req := SearchRequest{Filters: SearchFilters{MinRating: floatPtr(4.5), Expertise: []string{"React"}}}

	m := Score(sarah, req, domain.DefaultMatchingWeights())

	assert.InDelta(t, 1.0, m.Scores.Skill, 0.0001)
	assert.InDelta(t, 1.0, m.Scores.Experience, 0.0001)
	assert.InDelta(t, 1.0, m.Scores.Rating, 0.0001)
	assert.InDelta(t, 0.5, m.Scores.Availability, 0.0001)
	assert.InDelta(t, 0.5, m.Scores.Price, 0.0001)
	assert.Equal(t, 87.5, m.MatchScore)
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, []string{"React"}, m.MatchingSkills)
	assert.Empty(t, m.MissingSkills)
	assert.LessOrEqual(t, len(m.Strengths), 3)
	assert.LessOrEqual(t, len(m.MatchReasons), 4)
	assert.Contains(t, m.MatchReasons, "Strong skill match: React")
}

func TestLevelCredit(t *testing.T) {
	expert := &domain.Expertise{Category: "Go", Level: domain.LevelExpert, YearsExperience: 0}
	assert.InDelta(t, 1.0, levelCredit(expert, ""), 0.0001)
	assert.InDelta(t, 1.0, levelCredit(expert, domain.LevelExpert), 0.0001)
	assert.InDelta(t, 0.75, levelCredit(expert, domain.LevelMaster), 0.0001)

	junior := &domain.Expertise{Category: "Go", Level: domain.LevelBeginner, YearsExperience: 2}
	assert.InDelta(t, 0.5+0.2, levelCredit(junior, domain.LevelIntermediate), 0.0001)
	junior.YearsExperience = 0
	assert.InDelta(t, 0.25, levelCredit(junior, domain.LevelMaster), 0.0001)
	junior.YearsExperience = 20
	assert.InDelta(t, 0.45, levelCredit(junior, domain.LevelMaster), 0.0001)
}

func TestSkillScorePenalizesMissingRequiredSkills(t *testing.T) {
	sarah := domain.SeedCoaches()[0]

	full := skillScore(&sarah, SearchRequest{RequiredSkills: []string{"React", "Node.js"}})
	assert.InDelta(t, 1.0, full, 0.0001)

	half := skillScore(&sarah, SearchRequest{RequiredSkills: []string{"React", "Kubernetes"}})
	assert.InDelta(t, (1.0-0.5)/2, half, 0.0001)

	none := skillScore(&sarah, SearchRequest{RequiredSkills: []string{"Kubernetes", "Marketing"}})
	assert.Equal(t, 0.0, none)

	senior := skillScore(&sarah, SearchRequest{RequiredSkills: []string{"React"}, Filters: SearchFilters{ExperienceLevel: domain.LevelMaster}})
	assert.InDelta(t, 0.95, senior, 0.0001)
}

func TestPriceScore(t *testing.T) {
	assert.Equal(t, 0.5, priceScore(150, nil))
	assert.Equal(t, 1.0, priceScore(150, floatPtr(200)))
	assert.Equal(t, 0.8, priceScore(150, floatPtr(160)))
	assert.Equal(t, 0.0, priceScore(150, floatPtr(100)))
	assert.InDelta(t, 0.4286, priceScore(150, floatPtr(140)), 0.001)
}

func TestMatchScoreStaysInRange(t *testing.T) {
	weights := []domain.MatchingWeights{
		domain.DefaultMatchingWeights(),
		NormalizeWeights(domain.MatchingWeights{SkillMatch: 1000}),
		NormalizeWeights(domain.MatchingWeights{Price: 7, Rating: 3}),
	}
	reqs := []SearchRequest{
		{},
		{RequiredSkills: []string{"React", "Go", "Marketing"}, Goals: []string{"scaling startups"}, PreferredDays: []int{0, 1, 2, 3, 4, 5, 6}, BudgetMax: floatPtr(50)},
		{Filters: SearchFilters{ExperienceLevel: domain.LevelBeginner}, BudgetMax: floatPtr(1000)},
	}
	for _, c := range domain.SeedCoaches() {
		for _, w := range weights {
			for _, r := range reqs {
				m := Score(c, r, w)
				assert.GreaterOrEqual(t, m.MatchScore, 0.0)
				assert.LessOrEqual(t, m.MatchScore, 100.0)
				assert.GreaterOrEqual(t, m.Confidence, 0.0)
				assert.LessOrEqual(t, m.Confidence, 100.0)
			}
		}
	}
}

func TestEngineRankSeededExample(t *testing.T) {
	engine := NewEngine("test")
	req := SearchRequest{Filters: SearchFilters{MinRating: floatPtr(4.5), Expertise: []string{"React"}}}

	res, err := engine.Rank(domain.SeedCoaches(), req, defaultConfig())

	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "mentor_1", res.Matches[0].Coach.ID)
	assert.Equal(t, 3, res.CoachesEvaluated)
	assert.Equal(t, 1, res.CoachesFiltered)
	assert.Equal(t, "test", res.AlgorithmVersion)
}

func TestEngineRankTieBreaksByCoachID(t *testing.T) {
	base := domain.SeedCoaches()[0]
	b, a, c := base, base, base
	b.ID, a.ID, c.ID = "b", "a", "c"

	cfg := defaultConfig()
	cfg.ConfidenceThreshold = 0
	res, err := NewEngine("").Rank([]domain.Coach{b, c, a}, SearchRequest{}, cfg)

	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, "a", res.Matches[0].Coach.ID)
	assert.Equal(t, "b", res.Matches[1].Coach.ID)
	assert.Equal(t, "c", res.Matches[2].Coach.ID)
}

func TestEngineRankThresholdAndLimit(t *testing.T) {
	engine := NewEngine("")
	coaches := domain.SeedCoaches()

	cfg := defaultConfig()
	cfg.ConfidenceThreshold = 99
	res, err := engine.Rank(coaches, SearchRequest{}, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Matches)

	cfg.ConfidenceThreshold = 0
	res, err = engine.Rank(coaches, SearchRequest{Limit: 2}, cfg)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)
	assert.GreaterOrEqual(t, res.Matches[0].MatchScore, res.Matches[1].MatchScore)

	cfg.MaxResults = 1
	res, err = engine.Rank(coaches, SearchRequest{Limit: 5}, cfg)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 1)
}

func TestEngineRankSkipsInactiveCoaches(t *testing.T) {
	coaches := domain.SeedCoaches()
	coaches[0].Status = domain.CoachStatusInactive
	cfg := defaultConfig()
	cfg.ConfidenceThreshold = 0

	res, err := NewEngine("").Rank(coaches, SearchRequest{}, cfg)

	require.NoError(t, err)
	assert.Equal(t, 2, res.CoachesEvaluated)
	for _, m := range res.Matches {
		assert.NotEqual(t, "mentor_1", m.Coach.ID)
	}
}

func TestEngineRankRejectsInvalidSearch(t *testing.T) {
	_, err := NewEngine("").Rank(domain.SeedCoaches(), SearchRequest{PreferredDays: []int{9}}, defaultConfig())
	assert.ErrorIs(t, err, ErrInvalidSearch)

	_, err = NewEngine("").Rank(nil, SearchRequest{Filters: SearchFilters{MinRating: floatPtr(7)}}, defaultConfig())
	assert.ErrorIs(t, err, ErrInvalidSearch)

	_, err = NewEngine("").Rank(nil, SearchRequest{RequiredLevel: "guru"}, defaultConfig())
	assert.ErrorIs(t, err, ErrInvalidSearch)
}

func TestRequiredLevelRaisesTheBarWithoutFiltering(t *testing.T) {
	cfg := defaultConfig()
	cfg.ConfidenceThreshold = 0
	req := SearchRequest{RequiredSkills: []string{"React"}}

	plain, err := NewEngine("").Rank(domain.SeedCoaches(), req, cfg)
	require.NoError(t, err)
	req.RequiredLevel = domain.LevelMaster
	strict, err := NewEngine("").Rank(domain.SeedCoaches(), req, cfg)
	require.NoError(t, err)

	require.Len(t, strict.Matches, len(plain.Matches))
	assert.Equal(t, "mentor_1", strict.Matches[0].Coach.ID)
	assert.Less(t, strict.Matches[0].Scores.Skill, plain.Matches[0].Scores.Skill)
	assert.Less(t, strict.Matches[0].Scores.Experience, plain.Matches[0].Scores.Experience)
}
