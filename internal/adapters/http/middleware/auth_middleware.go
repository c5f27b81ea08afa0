package middleware

import (
	"strings"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/config"
	"campus-identity/internal/core/policy"
	"campus-identity/internal/pkg/jwt"
	"campus-identity/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the bearer access token and attaches the verified
// claims to the request context. Handlers read them back via Actor.
// No valid token at all is 401; policy denials downstream are 403.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals("fullName", claims.FullName)

		return c.Next()
	}
}

// Actor returns the authenticated identity attached by AuthMiddleware
func Actor(c *fiber.Ctx) (policy.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return policy.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return policy.Actor{}, false
	}
	return policy.Actor{UserID: userID, Role: role}, true
}

// RequirePolicy creates middleware enforcing a role-level policy. Owner
// checks need the resource id and stay in the handlers; this gate covers
// the policies that depend on role alone.
func RequirePolicy(p policy.Policy, action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !p.Allow(actor, actor.UserID, action) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RequirePolicy(policy.AdminAll{}, policy.ActionRead)
}

// TeacherOnly middleware allows only the teacher role
func TeacherOnly() fiber.Handler {
	return RequirePolicy(policy.RoleGate{Role: models.RoleTeacher}, policy.ActionRead)
}

// StudentOnly middleware allows only the student role
func StudentOnly() fiber.Handler {
	return RequirePolicy(policy.RoleGate{Role: models.RoleStudent}, policy.ActionRead)
}
