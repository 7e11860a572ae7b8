package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type AuthMiddleware struct {
	identity    services.IdentityProvider
	userService *services.UserService
}

func NewAuthMiddleware(identity services.IdentityProvider, userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{identity: identity, userService: userService}
}

// AuthSession resolves the bearer token through the external identity
// provider and loads (or provisions) the local user into locals.
func (m *AuthMiddleware) AuthSession(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	principal, err := m.identity.GetCurrentUser(token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user, err := m.userService.ResolveFromPrincipal(principal)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Locals("user", user)
	c.Locals("user_id", user.ID.String())

	return c.Next()
}

// RequireRole gates a route to the given roles. OWNER passes every admin
// gate. Roles come from the authenticated session, never from a shared
// secret.
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
			if role == models.UserRoleAdmin && user.Role == models.UserRoleOwner {
				return c.Next()
			}
		}

		return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient role for this action"))
	}
}

// CurrentUser returns the authenticated user set by AuthSession.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
