package middleware

import (
	"net/http"

	repo "lume/internal/repository"

	"github.com/labstack/echo/v4"
)

// TokenVersionGuard rejects tokens issued before the user's last logout and
// replaces the token's admin claim with the stored flag.
func TokenVersionGuard(users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxIsAdminKey, user.IsAdmin)
			return next(c)
		}
	}
}

// OptionalTokenVersionGuard is the anonymous-friendly counterpart of
// TokenVersionGuard: a revoked or unknown identity is dropped and the request
// continues as anonymous.
func OptionalTokenVersionGuard(users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return next(c)
			}
			tv, _ := c.Get(CtxTokenVersionKey).(int)

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || user.TokenVersion != tv {
				c.Set(CtxUserIDKey, int64(0))
				c.Set(CtxIsAdminKey, false)
				return next(c)
			}

			c.Set(CtxIsAdminKey, user.IsAdmin)
			return next(c)
		}
	}
}
