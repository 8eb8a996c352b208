// Package server contains the HTTP shell: handlers, routing, and the
// per-request identity resolution that feeds the services.
package server

import (
	"errors"
	"fmt"
	"net/url"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// redirectBack sends the client back to a resource with an error note.
func (s *Server) redirectBack(c *fiber.Ctx, path, reason string) error {
	return s.views.Execute(c, fiber.StatusFound, view.Redirect{
		Path:  path,
		Query: url.Values{"error": {reason}},
	})
}

// handleOwnershipError turns a not-owner or self-like rejection into a
// redirect back to the post; everything else falls through to the generic
// error mapping.
func (s *Server) handleOwnershipError(c *fiber.Ctx, err error, postPath string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeUnauthorized && appErr.Reason != models.ReasonAnonymous {
		return s.redirectBack(c, postPath, appErr.Reason)
	}
	return s.respondServiceError(c, err)
}

// FrontPage renders the ten most recent posts.
func (s *Server) FrontPage(c *fiber.Ctx) error {
	posts, err := s.posts.ListRecent(c.UserContext(), service.DefaultRecentLimit)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.views.Execute(c, fiber.StatusOK, view.Render{
		Template: "bloghome.html",
		Params: map[string]any{
			"posts":    posts,
			"username": currentUsername(c),
		},
	})
}

// PostPage renders a single post with its comments.
func (s *Server) PostPage(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.posts.GetPost(c.UserContext(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	comments, err := s.comments.ListComments(c.UserContext(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return s.views.Execute(c, fiber.StatusOK, view.Render{
		Template: "permalink.html",
		Params: map[string]any{
			"post":     post,
			"comments": comments,
			"username": currentUsername(c),
		},
	})
}

// CreatePost handles POST /blog/newpost (authenticated).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Subject string `json:"subject" form:"subject"`
		Content string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		Author:  currentUsername(c),
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return s.views.Execute(c, fiber.StatusBadRequest, view.Render{
				Template: "newpost.html",
				Params: map[string]any{
					"subject": req.Subject,
					"content": req.Content,
					"errors":  appErr.Fields,
				},
			})
		}
		return s.respondServiceError(c, err)
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{
		Path: fmt.Sprintf("/blog/%d", post.ID),
	})
}

// UpdatePost handles POST /blog/:id/edit (author only).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Subject string `json:"subject" form:"subject"`
		Content string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	postPath := fmt.Sprintf("/blog/%d", postID)

	post, err := s.posts.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:   currentUsername(c),
		PostID:  postID,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return s.views.Execute(c, fiber.StatusBadRequest, view.Render{
				Template: "editpost.html",
				Params: map[string]any{
					"subject": req.Subject,
					"content": req.Content,
					"errors":  appErr.Fields,
				},
			})
		}
		return s.handleOwnershipError(c, err, postPath)
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{
		Path: fmt.Sprintf("/blog/%d", post.ID),
	})
}

// DeletePost handles POST /blog/:id/delete (author only).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	postPath := fmt.Sprintf("/blog/%d", postID)

	if err := s.posts.DeletePost(c.UserContext(), service.DeletePostInput{
		Actor:  currentUsername(c),
		PostID: postID,
	}); err != nil {
		return s.handleOwnershipError(c, err, postPath)
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/blog"})
}

// LikePost handles POST /blog/:id/like. A repeated like is a no-op; there is
// no unlike.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	postPath := fmt.Sprintf("/blog/%d", postID)

	if _, err := s.posts.ToggleLike(c.UserContext(), currentUsername(c), postID); err != nil {
		return s.handleOwnershipError(c, err, postPath)
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: postPath})
}
