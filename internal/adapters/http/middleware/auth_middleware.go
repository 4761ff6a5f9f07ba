package middleware

import (
	"strings"

	"lendease/internal/config"
	"lendease/internal/core/domain"
	"lendease/internal/core/services"
	"lendease/internal/pkg/jwt"
	"lendease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("kind", claims.Kind)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// Requester builds the caller identity from the auth middleware locals.
func Requester(c *fiber.Ctx) services.Requester {
	r := services.Requester{}
	if id, ok := c.Locals("userID").(uint); ok {
		r.ID = id
	}
	if kind, ok := c.Locals("kind").(string); ok {
		r.Kind = domain.Kind(kind)
	}
	if role, ok := c.Locals("role").(string); ok {
		r.Role = domain.Role(role)
	}
	return r
}
