package httpserver

import (
	"net/http"
	"time"

	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		l.Warn("register_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return serviceError(err)
	}

	setTokenCookies(c, result)
	return c.JSON(http.StatusOK, result)
}

func setTokenCookies(c echo.Context, result *service.LoginResult) {
	c.SetCookie(tokenCookie("accessToken", result.AccessToken, result.ExpiresAt))
	c.SetCookie(tokenCookie("refreshToken", result.RefreshToken, result.RefreshExpiresAt))
}

func tokenCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Refresh rotates the session: the refresh token comes from the cookie the
// browser carries, or from the request body for non-browser clients.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	raw := refreshTokenFrom(c)
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	result, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		l.Warn("refresh_error", "error", err)
		return serviceError(err)
	}

	setTokenCookies(c, result)
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if raw := refreshTokenFrom(c); raw != "" {
		if err := h.Svc.Logout(ctx, raw); err != nil {
			l.Error("logout_error", "error", err)
			return serviceError(err)
		}
	}

	past := time.Now().Add(-time.Hour)
	c.SetCookie(tokenCookie("accessToken", "", past))
	c.SetCookie(tokenCookie("refreshToken", "", past))
	return c.JSON(http.StatusOK, "logged out")
}

func refreshTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		l.Warn("me_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe edits the profile fields the cabinet page exposes.
func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_me")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_me_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateProfile(ctx, userID, req.Username)
	if err != nil {
		l.Warn("update_me_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers serves the admin user table; ?email= narrows by substring.
func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	users, err := h.Svc.ListUsers(ctx, c.QueryParam("email"))
	if err != nil {
		l.Error("list_users_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, users)
}
