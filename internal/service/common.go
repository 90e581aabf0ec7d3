package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID    string
	Role      domain.Role
	CompanyID string
}

// Is reports whether the actor holds one of roles.
func (a Actor) Is(roles ...domain.Role) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

func (a Actor) eventActor() events.Actor {
	return events.Actor{UserID: a.UserID, Role: a.Role}
}

// lookupError turns a missing row into a typed 404 and anything else into a mapped error.
func lookupError(err error, resource, id string) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}

func fieldError(field, message string) error {
	return apperrors.NewFieldValidationError([]apperrors.FieldError{{Field: field, Message: message}})
}

func sortFields(fields []apperrors.FieldError) []apperrors.FieldError {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return fields
}
