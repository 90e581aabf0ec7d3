package handlers

import (
	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	"github.com/spec-kit/coaching-service/internal/service"
)

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CompanyID: u.CompanyID,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func tokenResponse(pair domain.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func coachInput(req *dto.CoachRequest) service.CoachInput {
	expertise := make([]domain.Expertise, 0, len(req.Expertise))
	for _, e := range req.Expertise {
		expertise = append(expertise, domain.Expertise{
			Category:        e.Category,
			Subcategory:     e.Subcategory,
			YearsExperience: e.YearsExperience,
			Level:           domain.ExpertiseLevel(e.Level),
		})
	}
	availability := make([]domain.Availability, 0, len(req.Availability))
	for _, a := range req.Availability {
		availability = append(availability, domain.Availability(a))
	}
	return service.CoachInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Title:        req.Title,
		Company:      req.Company,
		Bio:          req.Bio,
		Expertise:    expertise,
		Availability: availability,
		HourlyRate:   req.HourlyRate,
		Currency:     req.Currency,
		Languages:    req.Languages,
	}
}

func coachResponse(c *domain.Coach) dto.CoachResponse {
	expertise := make([]dto.ExpertiseInput, 0, len(c.Expertise))
	for _, e := range c.Expertise {
		expertise = append(expertise, dto.ExpertiseInput{
			Category:        e.Category,
			Subcategory:     e.Subcategory,
			YearsExperience: e.YearsExperience,
			Level:           string(e.Level),
		})
	}
	availability := make([]dto.AvailabilityInput, 0, len(c.Availability))
	for _, a := range c.Availability {
		availability = append(availability, dto.AvailabilityInput(a))
	}
	return dto.CoachResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Name:         c.FullName(),
		Email:        c.Email,
		Title:        c.Title,
		Company:      c.Company,
		Bio:          c.Bio,
		Expertise:    expertise,
		Availability: availability,
		HourlyRate:   c.HourlyRate,
		Currency:     c.Currency,
		Metrics: dto.CoachMetricsResponse{
			AverageRating:  c.Metrics.AverageRating,
			SuccessRate:    c.Metrics.SuccessRate,
			ResponseTime:   c.Metrics.ResponseTime,
			CompletionRate: c.Metrics.CompletionRate,
			TotalSessions:  c.Metrics.TotalSessions,
		},
		Languages: c.Languages,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func coachResponses(coaches []domain.Coach) []dto.CoachResponse {
	out := make([]dto.CoachResponse, 0, len(coaches))
	for i := range coaches {
		out = append(out, coachResponse(&coaches[i]))
	}
	return out
}

func searchFilters(in dto.SearchFiltersInput) matching.SearchFilters {
	return matching.SearchFilters{
		Expertise:       in.Expertise,
		ExperienceLevel: domain.ExpertiseLevel(in.ExperienceLevel),
		MinRating:       in.MinRating,
		MaxHourlyRate:   in.MaxHourlyRate,
		Language:        in.Language,
		DayOfWeek:       in.DayOfWeek,
	}
}

func searchRequest(req *dto.MentorSearchRequest) matching.SearchRequest {
	return matching.SearchRequest{
		RequestID:      req.RequestID,
		RequiredSkills: req.RequiredSkills,
		Goals:          req.Goals,
		Filters:        searchFilters(req.Filters),
		PreferredDays:  req.PreferredDays,
		BudgetMax:      req.BudgetMax,
		Limit:          req.Limit,
	}
}

func searchResponse(result matching.Result) dto.MentorSearchResponse {
	matches := make([]dto.MentorMatchResponse, 0, len(result.Matches))
	for i := range result.Matches {
		m := &result.Matches[i]
		matches = append(matches, dto.MentorMatchResponse{
			Coach:      coachResponse(&m.Coach),
			MatchScore: m.MatchScore,
			Confidence: m.Confidence,
			Scores: map[string]float64{
				"skill":        m.Scores.Skill,
				"experience":   m.Scores.Experience,
				"rating":       m.Scores.Rating,
				"availability": m.Scores.Availability,
				"price":        m.Scores.Price,
			},
			Strengths:      m.Strengths,
			MatchReasons:   m.MatchReasons,
			MatchingSkills: m.MatchingSkills,
			MissingSkills:  m.MissingSkills,
		})
	}
	return dto.MentorSearchResponse{
		Matches:          matches,
		CoachesEvaluated: result.CoachesEvaluated,
		CoachesFiltered:  result.CoachesFiltered,
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
		AlgorithmVersion: result.AlgorithmVersion,
	}
}

func weightsResponse(w domain.MatchingWeights) dto.WeightsInput {
	return dto.WeightsInput(w)
}

func matchingConfigResponse(cfg *domain.MatchingConfiguration, version string) dto.MatchingConfigResponse {
	resp := dto.MatchingConfigResponse{
		Weights:             weightsResponse(cfg.Weights),
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MaxResults:          cfg.MaxResults,
		AlgorithmVersion:    version,
		UpdatedBy:           cfg.UpdatedBy,
	}
	if !cfg.UpdatedAt.IsZero() {
		at := cfg.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

func matchRecordResponses(records []domain.MatchRecord) []dto.MatchRecordResponse {
	out := make([]dto.MatchRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.MatchRecordResponse{
			ID:         r.ID,
			RequestID:  r.RequestID,
			CoachID:    r.CoachID,
			MatchScore: r.MatchScore,
			Confidence: r.Confidence,
			Reasons:    r.Reasons,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}

func coachingRequestInput(req *dto.CoachingRequestRequest) service.CoachingRequestInput {
	members := make([]domain.TeamMember, 0, len(req.TeamMembers))
	for _, m := range req.TeamMembers {
		members = append(members, domain.TeamMember(m))
	}
	return service.CoachingRequestInput{
		Title:          req.Title,
		Description:    req.Description,
		Goals:          req.Goals,
		RequiredSkills: req.RequiredSkills,
		Languages:      req.Languages,
		TeamMembers:    members,
		Timeline: domain.Timeline{
			StartDate:        req.Timeline.StartDate,
			EndDate:          req.Timeline.EndDate,
			SessionFrequency: domain.SessionFrequency(req.Timeline.SessionFrequency),
		},
		Budget: domain.Budget(req.Budget),
	}
}

func coachingRequestResponse(r *domain.CoachingRequest) dto.CoachingRequestResponse {
	members := make([]dto.TeamMemberInput, 0, len(r.TeamMembers))
	for _, m := range r.TeamMembers {
		members = append(members, dto.TeamMemberInput(m))
	}
	return dto.CoachingRequestResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		CreatedBy:      r.CreatedBy,
		Title:          r.Title,
		Description:    r.Description,
		Goals:          r.Goals,
		RequiredSkills: r.RequiredSkills,
		Languages:      r.Languages,
		TeamMembers:    members,
		Timeline: dto.TimelineInput{
			StartDate:        r.Timeline.StartDate,
			EndDate:          r.Timeline.EndDate,
			SessionFrequency: string(r.Timeline.SessionFrequency),
		},
		Budget:    dto.BudgetInput(r.Budget),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func scheduleInput(req *dto.ScheduleSessionRequest) service.ScheduleInput {
	return service.ScheduleInput{
		RequestID:    req.RequestID,
		CoachID:      req.CoachID,
		Title:        req.Title,
		Type:         domain.SessionType(req.Type),
		Start:        req.ScheduledStartTime,
		End:          req.ScheduledEndTime,
		Participants: req.Participants,
		Notes:        req.Notes,
	}
}

func bookingInput(req *dto.BookRecommendationRequest) service.BookRecommendationInput {
	return service.BookRecommendationInput{
		ScheduleInput: service.ScheduleInput{
			RequestID:    req.RequestID,
			CoachID:      req.CoachID,
			Title:        req.Title,
			Type:         domain.SessionType(req.Type),
			Start:        req.ScheduledStartTime,
			End:          req.ScheduledEndTime,
			Participants: req.Participants,
			Notes:        req.Notes,
		},
		SessionType: domain.SessionType(req.SessionType),
	}
}

func sessionResponse(s *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:                 s.ID,
		RequestID:          s.RequestID,
		CoachID:            s.CoachID,
		CompanyID:          s.CompanyID,
		Title:              s.Title,
		Type:               string(s.Type),
		ScheduledStartTime: s.ScheduledStartTime,
		ScheduledEndTime:   s.ScheduledEndTime,
		Participants:       s.Participants,
		Status:             string(s.Status),
		RescheduleCount:    s.RescheduleCount,
		Rating:             s.Rating,
		Notes:              s.Notes,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func recommendationResponses(recs []domain.ScheduleRecommendation) []dto.RecommendationResponse {
	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.RecommendationResponse{
			CoachID:           r.CoachID,
			RequestID:         r.RequestID,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			Score:             r.Score,
			CoachAvailability: string(r.CoachAvailability),
			ProgramFit:        string(r.ProgramFit),
			SessionType:       string(r.SessionType),
			Reasoning:         r.Reasoning,
		})
	}
	return out
}

func tierResponse(p domain.TierPlan) dto.TierResponse {
	return dto.TierResponse{
		Tier:               string(p.Tier),
		Name:               p.Name,
		PricePerSeat:       p.PricePerSeat,
		Currency:           p.Currency,
		MaxSeats:           p.MaxSeats,
		SessionsPerMonth:   p.SessionsPerMonth,
		CustomMatchWeights: p.CustomMatchWeights,
	}
}

func subscriptionResponse(s *domain.Subscription, plan domain.TierPlan) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:                 s.ID,
		CompanyID:          s.CompanyID,
		Tier:               string(s.Tier),
		Seats:              s.Seats,
		Status:             string(s.Status),
		MonthlyAmount:      s.MonthlyAmount(plan),
		Currency:           plan.Currency,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelledAt:        s.CancelledAt,
	}
}

func resetResponse(token *repository.PasswordResetToken, expose bool) dto.PasswordResetResponse {
	resp := dto.PasswordResetResponse{Requested: true}
	if token != nil && expose {
		resp.Token = token.Token
		at := token.ExpiresAt
		resp.ExpiresAt = &at
	}
	return resp
}
