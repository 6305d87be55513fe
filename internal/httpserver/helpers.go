package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GetID reads the authenticated user id placed into the context by the auth
// middleware.
func GetID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, service.ErrUnauthenticated
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, service.ErrUnauthenticated
	}
	return userID, nil
}

// serviceError maps the service error kinds onto HTTP statuses. The message
// sent to the client is the sentinel text, not the wrapped detail.
func serviceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "cart is empty")
	case errors.Is(err, service.ErrBackendUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "backend unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
