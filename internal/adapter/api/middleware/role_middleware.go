package middleware

import (
	"net/http"

	"naafe/internal/domain/repository"

	"github.com/labstack/echo/v4"
)

type RoleMiddleware struct {
	userRepo repository.UserRepository
}

func NewRoleMiddleware(userRepo repository.UserRepository) *RoleMiddleware {
	return &RoleMiddleware{
		userRepo: userRepo,
	}
}

// RequireRole gates a route group to holders of the given role. Blocked
// accounts are refused regardless of role.
func (m *RoleMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("uid").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := m.userRepo.GetByID(c.Request().Context(), uid)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify role")
			}

			if user.IsBlocked {
				return echo.NewHTTPError(http.StatusForbidden, "Account is blocked")
			}

			if !user.HasRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, role+" role required")
			}

			return next(c)
		}
	}
}

// ActiveOnly refuses blocked or deactivated accounts without requiring a
// specific role.
func (m *RoleMiddleware) ActiveOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify account")
		}

		if user.IsBlocked || !user.IsActive {
			return echo.NewHTTPError(http.StatusForbidden, "Account is not active")
		}

		return next(c)
	}
}
