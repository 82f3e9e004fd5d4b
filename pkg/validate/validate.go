package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fmpberger88/potion-shop/internal/domain"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("product_category", validateCategory); err != nil {
		return
	}
}

// Struct validates the payload and converts any violations into a
// per-field validation DomainError so forms can re-render field messages.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(violations))
	for _, violation := range violations {
		field := fieldName(violation)
		details[field] = message(violation)
	}
	return apperrors.NewValidationError("validation failed", details)
}

func validateCategory(fl validator.FieldLevel) bool {
	return domain.ValidCategory(fl.Field().String())
}

func fieldName(violation validator.FieldError) string {
	// StructNamespace is Type.Field; drop the type prefix and snake the field.
	parts := strings.Split(violation.StructNamespace(), ".")
	return toSnake(parts[len(parts)-1])
}

func message(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short or too small (min " + violation.Param() + ")"
	case "gte":
		return "must be at least " + violation.Param()
	case "eqfield":
		return "does not match"
	case "product_category":
		return "must be a valid category"
	default:
		return "is invalid"
	}
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
