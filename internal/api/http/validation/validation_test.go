package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

type skillInput struct {
	Category string `json:"category" validate:"required"`
	Level    string `json:"level" validate:"omitempty,oneof=beginner expert"`
}

type sampleBody struct {
	Name   string       `json:"name" validate:"required,min=2"`
	Rate   *float64     `json:"hourlyRate" validate:"omitempty,gte=0"`
	Skills []skillInput `json:"skills" validate:"required,min=1,dive"`
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"errors": domainErr.Fields})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Post("/", ValidateBody[sampleBody](), func(c *fiber.Ctx) error {
		body := ValidatedBody[sampleBody](c)
		return c.JSON(fiber.Map{"name": body.Name, "skills": len(body.Skills)})
	})
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func fieldsOf(t *testing.T, payload map[string]any) map[string]string {
	t.Helper()
	items, ok := payload["errors"].([]any)
	require.True(t, ok, "errors list missing: %v", payload)
	out := map[string]string{}
	for _, item := range items {
		entry := item.(map[string]any)
		out[entry["field"].(string)] = entry["message"].(string)
	}
	return out
}

func TestValidateBodyPassesValidPayload(t *testing.T) {
	status, payload := post(t, newApp(), `{"name":"Sarah","skills":[{"category":"React","level":"expert"}]}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Sarah", payload["name"])
	assert.EqualValues(t, 1, payload["skills"])
}

func TestValidateBodyReportsJSONFieldNames(t *testing.T) {
	status, payload := post(t, newApp(), `{"name":"S","hourlyRate":-5,"skills":[{"level":"guru"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	fields := fieldsOf(t, payload)
	assert.Equal(t, "name must be at least 2 characters", fields["name"])
	assert.Equal(t, "hourlyRate must be at least 0", fields["hourlyRate"])
	assert.Equal(t, "skills[0].category is required", fields["skills[0].category"])
	assert.Equal(t, "skills[0].level must be one of beginner, expert", fields["skills[0].level"])
}

func TestValidateBodyRejectsEmptyAndMalformedBodies(t *testing.T) {
	status, payload := post(t, newApp(), ``)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, fieldsOf(t, payload), "name")

	status, payload = post(t, newApp(), `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "request body must be valid JSON", fieldsOf(t, payload)["body"])
}

func TestStructWithoutFailures(t *testing.T) {
	assert.NoError(t, Struct(&skillInput{Category: "Go"}))
}
