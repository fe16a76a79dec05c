package middleware

import (
	"strconv"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocaleKey = "validated_locale"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateLocale validates the locale query parameter and stores the parsed domain.Locale.
func (vm *ValidationMiddleware) ValidateLocale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale, err := domain.ParseLocale(c.Query("locale"))
		if err != nil {
			return err
		}
		c.Locals(LocaleKey, locale)
		return c.Next()
	}
}

// ValidateIDParam requires a positive integer path parameter and stores it under its name.
func (vm *ValidationMiddleware) ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params(name), 10, 64)
		if err != nil || id <= 0 {
			return domain.NewInvalidInputError(name+" must be a positive integer").WithContext("field", name)
		}
		c.Locals(name, id)
		return c.Next()
	}
}

// ValidateULIDParam requires a ULID path parameter.
func (vm *ValidationMiddleware) ValidateULIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := vm.validator.ValidateULID(name, c.Params(name)); err != nil {
			return err
		}
		return c.Next()
	}
}

// Locale returns the locale stored by ValidateLocale, or the default locale.
func Locale(c *fiber.Ctx) domain.Locale {
	if locale, ok := c.Locals(LocaleKey).(domain.Locale); ok {
		return locale
	}
	return domain.DefaultLocale
}

// IDParam returns the id stored by ValidateIDParam.
func IDParam(c *fiber.Ctx, name string) int64 {
	id, _ := c.Locals(name).(int64)
	return id
}
