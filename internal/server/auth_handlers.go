// Package server contains the HTTP shell: handlers, routing, and the
// per-request identity resolution that feeds the services.
package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// SignupPage renders the empty signup form.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	return s.views.Execute(c, fiber.StatusOK, view.Render{
		Template: "signup.html",
		Params:   map[string]any{},
	})
}

// LoginPage renders the login form, surfacing the redirect reason when the
// client was sent here from a protected route.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	params := map[string]any{}
	if reason := c.Query("error"); reason != "" {
		params["error"] = reason
	}
	return s.views.Execute(c, fiber.StatusOK, view.Render{
		Template: "login.html",
		Params:   params,
	})
}

// Signup handles POST /signup: validate, register, and log the new user in.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
		Verify   string `json:"verify" form:"verify"`
		Email    string `json:"email" form:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.registration.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Verify:   req.Verify,
		Email:    req.Email,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && (appErr.Code == models.CodeValidation || appErr.Code == models.CodeConflict) {
			// Re-render the form with per-field messages and the sanitized
			// input. Password fields are never echoed back.
			return s.views.Execute(c, errorStatus(err), view.Render{
				Template: "signup.html",
				Params: map[string]any{
					"username": req.Username,
					"email":    req.Email,
					"errors":   appErr.Fields,
				},
			})
		}
		return s.respondServiceError(c, err)
	}

	setSessionCookie(c, result.Token)
	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/welcome"})
}

// Login handles POST /login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.registration.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if user == nil {
		return s.views.Execute(c, fiber.StatusUnauthorized, view.Render{
			Template: "login.html",
			Params: map[string]any{
				"username": req.Username,
				"error":    "Invalid login",
			},
		})
	}

	setSessionCookie(c, s.registration.IssueSession(user))
	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/welcome"})
}

// Logout clears the session cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/signup"})
}

// Welcome greets the logged-in user by name.
func (s *Server) Welcome(c *fiber.Ctx) error {
	username := currentUsername(c)
	if username == "" {
		return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/signup"})
	}
	return s.views.Execute(c, fiber.StatusOK, view.Render{
		Template: "welcome.html",
		Params:   map[string]any{"username": username},
	})
}
