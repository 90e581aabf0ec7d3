package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// MentorsHandler exposes coach profiles and mentor search.
type MentorsHandler struct {
	coaches  *service.CoachService
	matching *service.MatchingService
}

// NewMentorsHandler constructs handler.
func NewMentorsHandler(coaches *service.CoachService, matchingService *service.MatchingService) *MentorsHandler {
	return &MentorsHandler{coaches: coaches, matching: matchingService}
}

// List GET /api/mentors.
func (h *MentorsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filters, err := parseMentorFilters(c)
	if err != nil {
		return err
	}
	coaches, err := h.coaches.List(c.UserContext(), service.CoachListInput{
		Filters:         filters,
		IncludeInactive: actor.Is(domain.RolePlatformAdmin) && c.QueryBool("includeInactive"),
		Limit:           queryInt(c, "limit", 20),
		Offset:          queryInt(c, "offset", 0),
	})
	if err != nil {
		return err
	}
	return ok(c, coachResponses(coaches))
}

// Get GET /api/mentors/:id.
func (h *MentorsHandler) Get(c *fiber.Ctx) error {
	coach, err := h.coaches.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, coachResponse(coach))
}

// Create POST /api/mentors.
func (h *MentorsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CoachRequest](c)
	coach, err := h.coaches.Onboard(c.UserContext(), actor, coachInput(req))
	if err != nil {
		return err
	}
	return created(c, coachResponse(coach))
}

// Update PUT /api/mentors/:id.
func (h *MentorsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CoachRequest](c)
	coach, err := h.coaches.Update(c.UserContext(), actor, c.Params("id"), coachInput(req))
	if err != nil {
		return err
	}
	return ok(c, coachResponse(coach))
}

// UpdateStatus POST /api/mentors/:id/status.
func (h *MentorsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CoachStatusRequest](c)
	coach, err := h.coaches.UpdateStatus(c.UserContext(), actor, c.Params("id"), domain.CoachStatus(req.Status))
	if err != nil {
		return err
	}
	return ok(c, coachResponse(coach))
}

// Deactivate DELETE /api/mentors/:id.
func (h *MentorsHandler) Deactivate(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	coach, err := h.coaches.Deactivate(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, coachResponse(coach))
}

// Search POST /api/mentors/search.
func (h *MentorsHandler) Search(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.MentorSearchRequest](c)
	result, err := h.matching.Search(c.UserContext(), searchRequest(req))
	if err != nil {
		return err
	}
	return ok(c, searchResponse(result))
}

func parseMentorFilters(c *fiber.Ctx) (matching.SearchFilters, error) {
	filters := matching.SearchFilters{
		Expertise:       queryList(c, "expertise"),
		ExperienceLevel: domain.ExpertiseLevel(c.Query("experienceLevel")),
		Language:        c.Query("language"),
	}
	if filters.ExperienceLevel != "" && filters.ExperienceLevel.Rank() == 0 {
		return filters, invalidQuery("experienceLevel", "experienceLevel must be one of beginner, intermediate, expert, master")
	}
	var err error
	if filters.MinRating, err = queryFloat(c, "minRating"); err != nil {
		return filters, err
	}
	if filters.MaxHourlyRate, err = queryFloat(c, "maxHourlyRate"); err != nil {
		return filters, err
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, convErr := strconv.Atoi(raw)
		if convErr != nil || day < 0 || day > 6 {
			return filters, invalidQuery("dayOfWeek", "dayOfWeek must be between 0 and 6")
		}
		filters.DayOfWeek = &day
	}
	return filters, nil
}

func invalidQuery(field, message string) error {
	return apperrors.NewFieldValidationError([]apperrors.FieldError{{Field: field, Message: message}})
}
