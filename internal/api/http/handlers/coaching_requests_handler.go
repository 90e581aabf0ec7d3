package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
)

// CoachingRequestsHandler manages company coaching requests and their matches.
type CoachingRequestsHandler struct {
	service *service.CoachingRequestService
}

// NewCoachingRequestsHandler constructs handler.
func NewCoachingRequestsHandler(requests *service.CoachingRequestService) *CoachingRequestsHandler {
	return &CoachingRequestsHandler{service: requests}
}

// Create POST /api/coaching-requests.
func (h *CoachingRequestsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CoachingRequestRequest](c)
	request, err := h.service.Create(c.UserContext(), actor, coachingRequestInput(req))
	if err != nil {
		return err
	}
	return created(c, coachingRequestResponse(request))
}

// List GET /api/coaching-requests.
func (h *CoachingRequestsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var statuses []domain.RequestStatus
	for _, s := range queryList(c, "status") {
		statuses = append(statuses, domain.RequestStatus(s))
	}
	requests, err := h.service.List(c.UserContext(), actor, statuses, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.CoachingRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, coachingRequestResponse(&requests[i]))
	}
	return ok(c, items)
}

// Get GET /api/coaching-requests/:id.
func (h *CoachingRequestsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req, err := h.service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, coachingRequestResponse(req))
}

// Update PUT /api/coaching-requests/:id.
func (h *CoachingRequestsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	body := validation.ValidatedBody[dto.CoachingRequestRequest](c)
	req, err := h.service.Update(c.UserContext(), actor, c.Params("id"), coachingRequestInput(body))
	if err != nil {
		return err
	}
	return ok(c, coachingRequestResponse(req))
}

// ChangeStatus POST /api/coaching-requests/:id/status.
func (h *CoachingRequestsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	body := validation.ValidatedBody[dto.RequestStatusRequest](c)
	req, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), domain.RequestStatus(body.Status))
	if err != nil {
		return err
	}
	return ok(c, coachingRequestResponse(req))
}

// FindMatches POST /api/coaching-requests/:id/matches.
func (h *CoachingRequestsHandler) FindMatches(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	outcome, err := h.service.FindMatches(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.FindMatchesResponse{
		Request: coachingRequestResponse(outcome.Request),
		Result:  searchResponse(outcome.Result),
	})
}

// ListMatches GET /api/coaching-requests/:id/matches.
func (h *CoachingRequestsHandler) ListMatches(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	records, err := h.service.ListMatches(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, matchRecordResponses(records))
}
