package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// actorFrom converts the authenticated principal into a service actor.
func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, found := auth.PrincipalFromContext(c)
	if !found || principal.User == nil {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{
		UserID:    principal.UserID(),
		Role:      principal.Role(),
		CompanyID: principal.CompanyID(),
	}, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewFieldValidationError([]apperrors.FieldError{{Field: key, Message: key + " must be a number"}})
	}
	return &v, nil
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewFieldValidationError([]apperrors.FieldError{{Field: key, Message: key + " must be an RFC 3339 timestamp"}})
	}
	return &t, nil
}

// queryList splits a comma separated parameter, dropping blanks.
func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
