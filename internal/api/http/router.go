package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/handlers"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Mentors          *handlers.MentorsHandler
	Matching         *handlers.MatchingHandler
	CoachingRequests *handlers.CoachingRequestsHandler
	Sessions         *handlers.SessionsHandler
	Subscriptions    *handlers.SubscriptionsHandler
	AuthMiddleware   *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", validation.ValidateBody[dto.RegisterRequest](), cfg.Auth.Register)
	authGroup.Post("/login", validation.ValidateBody[dto.LoginRequest](), cfg.Auth.Login)
	authGroup.Post("/refresh", validation.ValidateBody[dto.RefreshRequest](), cfg.Auth.Refresh)
	authGroup.Post("/password/reset/request", validation.ValidateBody[dto.PasswordResetRequest](), cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", validation.ValidateBody[dto.PasswordResetConfirmRequest](), cfg.Auth.ConfirmPasswordReset)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", validation.ValidateBody[dto.ChangePasswordRequest](), cfg.Auth.ChangePassword)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Get("/metrics", auth.RequireRole(domain.RolePlatformAdmin), cfg.Health.Metrics)

	registerMentorRoutes(protected, cfg.Mentors)
	registerMatchingRoutes(protected, cfg.Matching)
	registerCoachingRequestRoutes(protected, cfg.CoachingRequests)
	registerSessionRoutes(protected, cfg.Sessions)
	registerSubscriptionRoutes(protected, cfg.Subscriptions)
}

func registerMentorRoutes(r fiber.Router, h *handlers.MentorsHandler) {
	mentors := r.Group("/mentors")
	mentors.Get("", h.List)
	mentors.Post("/search", validation.ValidateBody[dto.MentorSearchRequest](), h.Search)
	mentors.Post("", auth.RequireRole(domain.RoleCoach, domain.RolePlatformAdmin),
		validation.ValidateBody[dto.CoachRequest](), h.Create)
	mentors.Get("/:id", h.Get)
	mentors.Put("/:id", auth.RequireRole(domain.RoleCoach, domain.RolePlatformAdmin),
		validation.ValidateBody[dto.CoachRequest](), h.Update)
	mentors.Post("/:id/status", auth.RequireRole(domain.RolePlatformAdmin),
		validation.ValidateBody[dto.CoachStatusRequest](), h.UpdateStatus)
	mentors.Delete("/:id", auth.RequireRole(domain.RolePlatformAdmin), h.Deactivate)
}

func registerMatchingRoutes(r fiber.Router, h *handlers.MatchingHandler) {
	m := r.Group("/matching")
	m.Get("/config", h.GetConfig)
	m.Put("/config", auth.RequireRole(domain.RolePlatformAdmin),
		validation.ValidateBody[dto.MatchingConfigRequest](), h.UpdateConfig)
	m.Get("/stats", auth.RequireRole(domain.RolePlatformAdmin), h.Stats)
	m.Get("/results/:requestId", auth.RequireRole(domain.RoleCompanyAdmin, domain.RolePlatformAdmin), h.CachedResult)
}

func registerCoachingRequestRoutes(r fiber.Router, h *handlers.CoachingRequestsHandler) {
	companyOnly := auth.RequireRole(domain.RoleCompanyAdmin)
	companyOrAdmin := auth.RequireRole(domain.RoleCompanyAdmin, domain.RolePlatformAdmin)

	requests := r.Group("/coaching-requests")
	requests.Post("", companyOnly, validation.ValidateBody[dto.CoachingRequestRequest](), h.Create)
	requests.Get("", companyOrAdmin, h.List)
	requests.Get("/:id", companyOrAdmin, h.Get)
	requests.Put("/:id", companyOnly, validation.ValidateBody[dto.CoachingRequestRequest](), h.Update)
	requests.Post("/:id/status", companyOrAdmin, validation.ValidateBody[dto.RequestStatusRequest](), h.ChangeStatus)
	requests.Post("/:id/matches", companyOrAdmin, h.FindMatches)
	requests.Get("/:id/matches", companyOrAdmin, h.ListMatches)
}

func registerSessionRoutes(r fiber.Router, h *handlers.SessionsHandler) {
	participants := auth.RequireRole(domain.RoleCompanyAdmin, domain.RoleCoach, domain.RolePlatformAdmin)

	sessions := r.Group("/sessions", participants)
	sessions.Post("/recommendations", auth.RequireRole(domain.RoleCompanyAdmin),
		validation.ValidateBody[dto.RecommendationRequest](), h.Recommend)
	sessions.Post("/recommendations/book", auth.RequireRole(domain.RoleCompanyAdmin),
		validation.ValidateBody[dto.BookRecommendationRequest](), h.Book)
	sessions.Post("", auth.RequireRole(domain.RoleCompanyAdmin, domain.RoleCoach),
		validation.ValidateBody[dto.ScheduleSessionRequest](), h.Schedule)
	sessions.Get("", h.List)
	sessions.Get("/:id", h.Get)
	sessions.Post("/:id/reschedule", validation.ValidateBody[dto.RescheduleSessionRequest](), h.Reschedule)
	sessions.Post("/:id/cancel", validation.ValidateBody[dto.CancelSessionRequest](), h.Cancel)
	sessions.Post("/:id/start", h.Start)
	sessions.Post("/:id/complete", validation.ValidateBody[dto.CompleteSessionRequest](), h.Complete)
	sessions.Post("/:id/no-show", h.NoShow)
}

func registerSubscriptionRoutes(r fiber.Router, h *handlers.SubscriptionsHandler) {
	companyOnly := auth.RequireRole(domain.RoleCompanyAdmin)

	subs := r.Group("/subscriptions")
	subs.Get("/tiers", h.Tiers)
	subs.Get("/current", companyOnly, h.Current)
	subs.Post("", companyOnly, validation.ValidateBody[dto.SubscribeRequest](), h.Subscribe)
	subs.Post("/seats", companyOnly, validation.ValidateBody[dto.ChangeSeatsRequest](), h.ChangeSeats)
	subs.Post("/cancel", companyOnly, h.Cancel)
}
