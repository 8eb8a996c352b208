// Package server contains the HTTP shell: handlers, routing, and the
// per-request identity resolution that feeds the services.
package server

import (
	"errors"
	"net/url"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// ResolveIdentity verifies the session cookie and loads the matching user,
// once per request, before dispatch. A missing, malformed, or forged token
// simply means anonymous; it is never an error.
func (s *Server) ResolveIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.CookieName)
		if token == "" {
			return c.Next()
		}

		userID, ok := s.codec.Verify(token)
		if !ok {
			return c.Next()
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil || user == nil {
			return c.Next()
		}

		c.Locals("userID", user.ID)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

// AuthRequired rejects anonymous requests with a redirect to the login page.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUsername(c) == "" {
			return s.views.Execute(c, fiber.StatusFound, view.Redirect{
				Path:  "/login",
				Query: url.Values{"error": {models.ReasonAnonymous}},
			})
		}
		return c.Next()
	}
}

// currentUsername returns the resolved identity for this request, or "" for
// anonymous.
func currentUsername(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok {
		return name
	}
	return ""
}

// setSessionCookie binds the signed token to the client.
func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// errorStatus maps a service error to its HTTP status.
func errorStatus(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		if appErr.Reason == models.ReasonAnonymous {
			return fiber.StatusUnauthorized
		}
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError translates a service error into the matching response:
// not-found renders the 404 page, anonymous redirects to login, and
// everything else becomes a JSON error with the mapped status.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch {
		case appErr.Code == models.CodeNotFound:
			return s.views.Execute(c, fiber.StatusNotFound, view.Render{
				Template: "404.html",
				Params:   map[string]any{"error": appErr.Message},
			})
		case appErr.Code == models.CodeUnauthorized && appErr.Reason == models.ReasonAnonymous:
			return s.views.Execute(c, fiber.StatusFound, view.Redirect{
				Path:  "/login",
				Query: url.Values{"error": {models.ReasonAnonymous}},
			})
		}
	}
	return models.RespondWithError(c, errorStatus(err), err)
}
