package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/api/http/validation"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
)

// AuthHandler serves registration, login, token refresh and password flows.
type AuthHandler struct {
	service          *service.AuthService
	exposeResetToken bool
}

// NewAuthHandler constructs handler. exposeResetToken echoes reset tokens in responses,
// which is only meant for non-production environments without a mail channel.
func NewAuthHandler(authService *service.AuthService, exposeResetToken bool) *AuthHandler {
	return &AuthHandler{service: authService, exposeResetToken: exposeResetToken}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.RegisterRequest](c)
	user, pair, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return err
	}
	return created(c, dto.AuthResponse{User: userResponse(user), Tokens: tokenResponse(pair)})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.LoginRequest](c)
	user, pair, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, dto.AuthResponse{User: userResponse(user), Tokens: tokenResponse(pair)})
}

// Refresh POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.RefreshRequest](c)
	pair, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, tokenResponse(pair))
}

// RequestPasswordReset POST /api/auth/password/reset/request. The response is the
// same for known and unknown emails.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.PasswordResetRequest](c)
	token, err := h.service.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return ok(c, resetResponse(token, h.exposeResetToken))
}

// ConfirmPasswordReset POST /api/auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	req := validation.ValidatedBody[dto.PasswordResetConfirmRequest](c)
	if err := h.service.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return ok(c, fiber.Map{"reset": true})
}

// ChangePassword POST /api/auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req := validation.ValidatedBody[dto.ChangePasswordRequest](c)
	if err := h.service.ChangePassword(c.UserContext(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return ok(c, fiber.Map{"changed": true})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.service.User(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return ok(c, userResponse(user))
}
