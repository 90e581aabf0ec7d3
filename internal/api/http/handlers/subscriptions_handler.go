package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
)

// SubscriptionsHandler exposes the tier catalog and company subscriptions.
type SubscriptionsHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptions *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{service: subscriptions}
}

// Tiers GET /api/subscriptions/tiers.
func (h *SubscriptionsHandler) Tiers(c *fiber.Ctx) error {
	tiers := h.service.Tiers()
	items := make([]dto.TierResponse, 0, len(tiers))
	for _, t := range tiers {
		items = append(items, tierResponse(t))
	}
	return ok(c, items)
}

// Current GET /api/subscriptions/current.
func (h *SubscriptionsHandler) Current(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sub, err := h.service.Current(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, h.response(sub))
}

// Subscribe POST /api/subscriptions.
func (h *SubscriptionsHandler) Subscribe(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.SubscribeRequest](c)
	sub, err := h.service.Subscribe(c.UserContext(), actor, domain.SubscriptionTier(req.Tier), req.Seats)
	if err != nil {
		return err
	}
	return created(c, h.response(sub))
}

// ChangeSeats POST /api/subscriptions/seats.
func (h *SubscriptionsHandler) ChangeSeats(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.ChangeSeatsRequest](c)
	sub, err := h.service.ChangeSeats(c.UserContext(), actor, req.Seats)
	if err != nil {
		return err
	}
	return ok(c, h.response(sub))
}

// Cancel POST /api/subscriptions/cancel.
func (h *SubscriptionsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sub, err := h.service.Cancel(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, h.response(sub))
}

func (h *SubscriptionsHandler) response(sub *domain.Subscription) dto.SubscriptionResponse {
	plan, _ := h.service.Plan(sub.Tier)
	return subscriptionResponse(sub, plan)
}
