package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/okwaro/sokopesa/internal/pkg/jwt"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/utils"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			if claims.UserID == 0 {
				return utils.UnauthorizedResponse(c, "Invalid token: missing user_id claim")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}

// AdminOnlyMiddleware restricts a route group to admin sessions. It must
// run after JWTAuthMiddleware.
func AdminOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			if role != "admin" {
				return utils.ErrorResponseHandler(c, http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id set by
// JWTAuthMiddleware.
func UserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get("user_id").(int64)
	return id, ok
}
