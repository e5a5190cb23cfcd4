package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-booking/internal/api/dto"
	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/config"
	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/service"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// AuthHandler exposes the session exchange and profile endpoints.
type AuthHandler struct {
	identity *service.IdentityService
	cfg      config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identity *service.IdentityService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{identity: identity, cfg: cfg}
}

// ExchangeSession handles POST /api/auth/session. The opaque session id from
// the OAuth redirect is validated with the provider and turned into a
// first-party session cookie.
func (h *AuthHandler) ExchangeSession(c *fiber.Ctx) error {
	var req dto.SessionExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.Get("X-Session-ID")
	}

	result, err := h.identity.ExchangeSession(c.UserContext(), sessionID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    result.Token,
		Expires:  time.Now().Add(h.cfg.SessionTTL()),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":          dto.NewUserResponse(result.User),
			"is_new_user":   result.IsNewUser,
			"session_token": result.Token,
		},
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if ok {
		if err := h.identity.Logout(c.UserContext(), principal.Token); err != nil {
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// SelectRole handles PATCH /api/auth/select-role.
func (h *AuthHandler) SelectRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.RoleSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.identity.SelectRole(c.UserContext(), principal.User, domain.Role(req.Role)); err != nil {
		return err
	}
	principal.User.Role = domain.Role(req.Role)
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}
