package middleware

import (
	"strings"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID"      // Key for storing UserID in fiber.Ctx locals
	ContributorKey      = "contributor" // domain.Contributor, set only for contributor tokens
)

// OptionalAuth authenticates the caller when a valid bearer token is present.
// Requests without a usable token proceed anonymously.
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			logger.Get().Debug("OptionalAuth: Authorization scheme is not Bearer, proceeding as anonymous.")
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return c.Next()
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("OptionalAuth: JWT validation failed, proceeding as anonymous.", zap.Error(err))
			return c.Next()
		}

		c.Locals(UserIDKey, claims.UserID)
		if claims.Contributor || claims.Superuser {
			c.Locals(ContributorKey, domain.Contributor{UserID: claims.UserID, Superuser: claims.Superuser})
		}
		return c.Next()
	}
}

// RequireContributor rejects requests not authenticated with a contributor token.
// It must run after OptionalAuth.
func RequireContributor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == nil {
			return domain.NewUnauthorizedError("authentication required")
		}
		if _, ok := c.Locals(ContributorKey).(domain.Contributor); !ok {
			return domain.NewForbiddenError("contributor role required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or nil for anonymous requests.
func UserID(c *fiber.Ctx) *string {
	id, ok := c.Locals(UserIDKey).(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}

// CurrentContributor returns the contributor set by OptionalAuth.
func CurrentContributor(c *fiber.Ctx) (domain.Contributor, bool) {
	contributor, ok := c.Locals(ContributorKey).(domain.Contributor)
	return contributor, ok
}
