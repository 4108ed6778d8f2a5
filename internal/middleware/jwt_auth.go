package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/recipe-share/backend/internal/metrics"
	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/labstack/echo/v4"
)

// IdentityKey is the echo context key holding the caller's models.Identity.
const IdentityKey = "identity"

// JWTAuthMiddleware requires a valid bearer token and stores the caller's
// identity in the context. The identity comes from the token alone; no
// store lookup happens here.
func JWTAuthMiddleware(tokens *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				err := apperr.New(apperr.ErrCodeUnauthenticated, "Access denied")
				metrics.ObserveAuth("token", err)
				return echo.NewHTTPError(http.StatusUnauthorized, err.Message).SetInternal(err)
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				metrics.ObserveAuth("token", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").
					SetInternal(apperr.Wrap(apperr.ErrCodeInvalidToken, "invalid token", err))
			}

			c.Set(IdentityKey, models.Identity{ID: claims.Subject})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by JWTAuthMiddleware.
func IdentityFrom(c echo.Context) (models.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(models.Identity)
	return identity, ok && identity.ID != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
