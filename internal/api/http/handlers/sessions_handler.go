package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
)

// SessionsHandler manages the session lifecycle and slot recommendations.
type SessionsHandler struct {
	sessions        *service.SessionService
	recommendations *service.RecommendationService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessions *service.SessionService, recommendations *service.RecommendationService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, recommendations: recommendations}
}

// Schedule POST /api/sessions.
func (h *SessionsHandler) Schedule(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.ScheduleSessionRequest](c)
	session, err := h.sessions.Schedule(c.UserContext(), actor, scheduleInput(req))
	if err != nil {
		return err
	}
	return created(c, sessionResponse(session))
}

// List GET /api/sessions.
func (h *SessionsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	input := service.SessionListInput{
		CoachID:   c.Query("coachId"),
		RequestID: c.Query("requestId"),
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
	}
	for _, s := range queryList(c, "status") {
		input.Statuses = append(input.Statuses, domain.SessionStatus(s))
	}
	if input.From, err = queryTime(c, "from"); err != nil {
		return err
	}
	if input.To, err = queryTime(c, "to"); err != nil {
		return err
	}
	sessions, err := h.sessions.List(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, sessionResponse(&sessions[i]))
	}
	return ok(c, items)
}

// Get GET /api/sessions/:id.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// Reschedule POST /api/sessions/:id/reschedule.
func (h *SessionsHandler) Reschedule(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.RescheduleSessionRequest](c)
	session, err := h.sessions.Reschedule(c.UserContext(), actor, c.Params("id"), req.ScheduledStartTime, req.ScheduledEndTime, req.Reason)
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// Cancel POST /api/sessions/:id/cancel.
func (h *SessionsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CancelSessionRequest](c)
	session, err := h.sessions.Cancel(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// Start POST /api/sessions/:id/start.
func (h *SessionsHandler) Start(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.Start(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// Complete POST /api/sessions/:id/complete.
func (h *SessionsHandler) Complete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.CompleteSessionRequest](c)
	session, err := h.sessions.Complete(c.UserContext(), actor, c.Params("id"), req.Rating, req.Notes)
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// NoShow POST /api/sessions/:id/no-show.
func (h *SessionsHandler) NoShow(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.MarkNoShow(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, sessionResponse(session))
}

// Recommend POST /api/sessions/recommendations.
func (h *SessionsHandler) Recommend(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.RecommendationRequest](c)
	recs, err := h.recommendations.Recommend(c.UserContext(), actor, service.RecommendationInput{
		CoachID:         req.CoachID,
		RequestID:       req.RequestID,
		DurationMinutes: req.DurationMinutes,
		Urgency:         domain.Urgency(req.Urgency),
		SessionType:     domain.SessionType(req.SessionType),
		WindowStart:     req.WindowStart,
		WindowEnd:       req.WindowEnd,
		Limit:           req.Limit,
	})
	if err != nil {
		return err
	}
	return ok(c, recommendationResponses(recs))
}

// Book POST /api/sessions/recommendations/book. A failed notification does not fail the booking.
func (h *SessionsHandler) Book(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.BookRecommendationRequest](c)
	result, err := h.recommendations.Book(c.UserContext(), actor, bookingInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.BookingResponse{
		Session:          sessionResponse(result.Session),
		NotificationSent: result.NotificationSent,
	})
}
