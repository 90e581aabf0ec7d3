package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
)

// MatchingHandler exposes the matching configuration, processing stats and cached results.
type MatchingHandler struct {
	config   *service.MatchingConfigService
	matching *service.MatchingService
	requests *service.CoachingRequestService
}

// NewMatchingHandler constructs handler.
func NewMatchingHandler(config *service.MatchingConfigService, matchingService *service.MatchingService, requests *service.CoachingRequestService) *MatchingHandler {
	return &MatchingHandler{config: config, matching: matchingService, requests: requests}
}

// GetConfig GET /api/matching/config.
func (h *MatchingHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.config.Get(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, matchingConfigResponse(cfg, h.matching.Version()))
}

// UpdateConfig PUT /api/matching/config.
func (h *MatchingHandler) UpdateConfig(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.MatchingConfigRequest](c)
	update := service.MatchingConfigUpdate{
		ConfidenceThreshold: req.ConfidenceThreshold,
		MaxResults:          req.MaxResults,
	}
	if req.Weights != nil {
		w := domain.MatchingWeights(*req.Weights)
		update.Weights = &w
	}
	cfg, err := h.config.Update(c.UserContext(), actor, update)
	if err != nil {
		return err
	}
	return ok(c, matchingConfigResponse(cfg, h.matching.Version()))
}

// Stats GET /api/matching/stats.
func (h *MatchingHandler) Stats(c *fiber.Ctx) error {
	summary, err := h.matching.Stats(c.UserContext(), queryInt(c, "recent", 10))
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// CachedResult GET /api/matching/results/:requestId.
func (h *MatchingHandler) CachedResult(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	result, err := h.requests.CachedMatches(c.UserContext(), actor, c.Params("requestId"))
	if err != nil {
		return err
	}
	return ok(c, result)
}
