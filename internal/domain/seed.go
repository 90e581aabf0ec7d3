package domain

import "time"

// SeedCoaches returns the three demo mentors used when no database is configured.
func SeedCoaches() []Coach {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return []Coach{
		{
			ID:        "mentor_1",
			FirstName: "Sarah",
			LastName:  "Johnson",
			Email:     "sarah.johnson@example.com",
			Title:     "Senior Software Engineer",
			Company:   "Tech Corp",
			Bio:       "Experienced full-stack developer with expertise in React and Node.js",
			Expertise: []Expertise{
				{Category: "React", Subcategory: "Frontend Development", YearsExperience: 6, Level: LevelExpert},
				{Category: "Node.js", Subcategory: "Backend Development", YearsExperience: 5, Level: LevelExpert},
			},
			Availability: []Availability{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC-8"},
				{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC-8"},
			},
			HourlyRate: 150,
			Currency:   "USD",
			Metrics: CoachMetrics{
				AverageRating:  4.8,
				SuccessRate:    0.91,
				ResponseTime:   4,
				CompletionRate: 0.96,
				TotalSessions:  127,
				RatedSessions:  112,
			},
			Languages: []string{"English", "Spanish"},
			Status:    CoachStatusActive,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "mentor_2",
			FirstName: "Michael",
			LastName:  "Chen",
			Email:     "michael.chen@example.com",
			Title:     "Product Manager",
			Company:   "Innovation Labs",
			Bio:       "Product strategy expert with agile methodologies expertise",
			Expertise: []Expertise{
				{Category: "Product Strategy", Subcategory: "Product Management", YearsExperience: 7, Level: LevelExpert},
				{Category: "Agile", Subcategory: "Scrum", YearsExperience: 6, Level: LevelExpert},
			},
			Availability: []Availability{
				{DayOfWeek: 2, StartTime: "10:00", EndTime: "18:00", Timezone: "UTC-8"},
			},
			HourlyRate: 120,
			Currency:   "USD",
			Metrics: CoachMetrics{
				AverageRating:  4.9,
				SuccessRate:    0.94,
				ResponseTime:   2,
				CompletionRate: 0.98,
				TotalSessions:  89,
				RatedSessions:  80,
			},
			Languages: []string{"English", "Mandarin"},
			Status:    CoachStatusActive,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "mentor_3",
			FirstName: "Emma",
			LastName:  "Rodriguez",
			Email:     "emma.rodriguez@example.com",
			Title:     "Marketing Director",
			Company:   "Growth Partners",
			Bio:       "Marketing executive with a track record of scaling startups",
			Expertise: []Expertise{
				{Category: "Marketing", Subcategory: "Growth Strategy", YearsExperience: 10, Level: LevelMaster},
				{Category: "Sales", Subcategory: "Customer Success", YearsExperience: 8, Level: LevelExpert},
			},
			Availability: []Availability{
				{DayOfWeek: 4, StartTime: "08:00", EndTime: "16:00", Timezone: "UTC"},
				{DayOfWeek: 5, StartTime: "08:00", EndTime: "16:00", Timezone: "UTC"},
			},
			HourlyRate: 160,
			Currency:   "USD",
			Metrics: CoachMetrics{
				AverageRating:  4.7,
				SuccessRate:    0.88,
				ResponseTime:   6,
				CompletionRate: 0.93,
				TotalSessions:  64,
				RatedSessions:  58,
			},
			Languages: []string{"English"},
			Status:    CoachStatusActive,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}
