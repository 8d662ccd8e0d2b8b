// Package middleware contains the HTTP middlewares of the delivery layer.
package middleware

import (
	"net/http"
	"slices"
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextCategory = "category"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	cfg      *config.Config
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, cfg: cfg}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		token, err := m.tokenSvc.ValidateToken(tokenString, m.cfg.SecretKey.Access)
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Failed to parse token claims"})
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User ID missing from token"})
		}
		if _, ok := entity.CategoryFromID(userID); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid user ID format in token"})
		}

		category, _ := claims["category"].(string)

		// Set user info on the context for handlers to use
		c.Set(ContextUserID, userID)
		c.Set(ContextCategory, category)

		return next(c)
	}
}

// RequireCategory is a middleware factory that checks the session's user
// category. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireCategory(categories ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			category, ok := c.Get(ContextCategory).(string)
			if !ok || category == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: category information missing"})
			}

			if !slices.Contains(categories, category) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require one of [" + strings.Join(categories, ", ") + "]"})
			}

			return next(c)
		}
	}
}

// SessionUserID returns the authenticated user's identifier, or empty
// when the route was reached without Authenticate.
func SessionUserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)

	return id
}

// SessionCategory returns the authenticated user's category.
func SessionCategory(c echo.Context) string {
	category, _ := c.Get(ContextCategory).(string)

	return category
}
