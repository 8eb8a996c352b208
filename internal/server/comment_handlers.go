// Package server contains the HTTP shell: handlers, routing, and the
// per-request identity resolution that feeds the services.
package server

import (
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /blog/:id/comment (authenticated).
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Comment string `json:"comment" form:"comment"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	postPath := fmt.Sprintf("/blog/%d", postID)

	if _, err := s.comments.CreateComment(c.UserContext(), service.CreateCommentInput{
		Actor:  currentUsername(c),
		PostID: postID,
		Body:   req.Comment,
	}); err != nil {
		return s.handleOwnershipError(c, err, postPath)
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: postPath})
}

// GetComments returns a post's comments, newest first (public).
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.comments.ListComments(c.UserContext(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// UpdateComment handles POST /comment/:commentId/edit (author only).
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Comment string `json:"comment" form:"comment"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.comments.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		Actor:     currentUsername(c),
		CommentID: commentID,
		Body:      req.Comment,
	})
	if err != nil {
		return s.handleOwnershipError(c, err, "/blog")
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{
		Path: fmt.Sprintf("/blog/%d", comment.PostID),
	})
}

// DeleteComment handles POST /comment/:commentId/delete (author only).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.comments.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		Actor:     currentUsername(c),
		CommentID: commentID,
	}); err != nil {
		return s.handleOwnershipError(c, err, "/blog")
	}

	return s.views.Execute(c, fiber.StatusFound, view.Redirect{Path: "/blog"})
}
