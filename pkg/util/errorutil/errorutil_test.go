package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflict("slot taken", map[string]any{"coach_id": "mentor_1"}))

	de := ToDomainError(err)

	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "mentor_1", de.Details["coach_id"])
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	de := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusForbidden, "insufficient role"))

	assert.Equal(t, "FORBIDDEN", de.Code)
	assert.Equal(t, "insufficient role", de.Message)
}

func TestToDomainErrorHidesInternalCauses(t *testing.T) {
	de := ToDomainError(errors.New("connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
}

func TestMatchingFailedUsesGenericMessage(t *testing.T) {
	err := NewMatchingFailed(errors.New("redis timeout"))
	de := ToDomainError(err)

	assert.Equal(t, "Failed to find mentor matches", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorContains(t, err, "redis timeout")
}

func TestFieldValidationErrorCarriesFields(t *testing.T) {
	de := ToDomainError(NewFieldValidationError([]FieldError{{Field: "title", Message: "title is required"}}))

	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Len(t, de.Fields, 1)
	assert.Nil(t, ToDomainError(nil))
}

func TestMapErrorKeepsNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Error(t, MapError(errors.New("boom")))
}
