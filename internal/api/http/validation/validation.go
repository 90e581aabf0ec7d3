package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

const bodyKey = "validated_body"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

// ValidateBody parses the JSON body into T and rejects the request with a field list
// before the handler runs when any validate tag fails.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(body); err != nil {
				return apperrors.NewFieldValidationError([]apperrors.FieldError{
					{Field: "body", Message: "request body must be valid JSON"},
				})
			}
		}
		if err := Struct(body); err != nil {
			return err
		}
		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateBody. It is nil when the route
// was registered without the middleware.
func ValidatedBody[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(bodyKey).(*T)
	return body
}

// Struct runs the validate tags of v and converts failures into a DomainError.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	fields := make([]apperrors.FieldError, 0, len(failures))
	for _, fe := range failures {
		name := fieldName(fe)
		fields = append(fields, apperrors.FieldError{Field: name, Message: message(name, fe)})
	}
	return apperrors.NewFieldValidationError(fields)
}

// fieldName drops the root struct from the namespace: "Req.expertise[0].level" -> "expertise[0].level".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return boundMessage(name, fe, "at least")
	case "max", "lte":
		return boundMessage(name, fe, "at most")
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", name, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", name, fe.Param())
	case "uuid":
		return name + " must be a UUID"
	}
	return name + " is invalid"
}

func boundMessage(name string, fe validator.FieldError, bound string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters", name, bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain %s %s items", name, bound, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", name, bound, fe.Param())
}
