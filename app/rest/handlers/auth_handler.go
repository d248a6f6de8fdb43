package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// AuthHandler drives the browser through the hosted login flow and
// exposes the identity probe the frontend polls on page load.
type AuthHandler struct {
	gateway     port.IdentityGateway
	sessions    func(echo.Context) port.SessionStore
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gateway port.IdentityGateway, sessions func(echo.Context) port.SessionStore, frontendURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		gateway:     gateway,
		sessions:    sessions,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Login begins the authorization-code flow by redirecting the browser to
// the provider's hosted login page.
//
//	GET /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	authURL, err := h.gateway.Login(c.Request().Context(), h.sessions(c))
	if err != nil {
		h.logger.Error("login initiation failed", "error", err)
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusFound, authURL)
}

// Callback completes the code exchange and sends the now-authenticated
// browser back to the frontend's expenses view.
//
//	GET /api/auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	if err := h.gateway.Callback(c.Request().Context(), h.sessions(c), c.Request().URL); err != nil {
		h.logger.Warn("auth callback rejected", "error", err)
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusFound, h.frontendURL+"/expenses")
}

// Logout destroys the session and redirects to the provider's logout
// endpoint so the hosted session ends too.
//
//	GET /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	target, err := h.gateway.Logout(c.Request().Context(), h.sessions(c))
	if err != nil {
		h.logger.Error("logout failed", "error", err)
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusFound, target)
}

// Me reports the current identity. It always answers 200: an anonymous
// caller gets {"user": null}, never a 401, so the frontend can probe
// session state without error handling.
//
//	GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := h.gateway.CurrentIdentity(c.Request().Context(), h.sessions(c))
	if err != nil {
		h.logger.Error("identity probe failed", "error", err)
		identity = nil
	}
	return c.JSON(http.StatusOK, meResponse{User: identity})
}

type meResponse struct {
	User *domain.Identity `json:"user"`
}
