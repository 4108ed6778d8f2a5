package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/recipe-share/backend/internal/middleware"
	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps a service error onto an echo.HTTPError carrying the
// status for its code and a client-facing message.
func toHTTPError(err error) error {
	var se *apperr.StructuredError
	if errors.As(err, &se) {
		return echo.NewHTTPError(apperr.HTTPStatus(se.Code), se.Message).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}

func invalidPayload(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload").SetInternal(err)
}

// callerIdentity returns the identity set by the auth middleware.
func callerIdentity(c echo.Context) (models.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return identity, nil
}
