package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService orchestrates comment creation and ownership-scoped mutation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Actor  string
	PostID uint
	Body   string
}

type UpdateCommentInput struct {
	Actor     string
	CommentID uint
	Body      string
}

type DeleteCommentInput struct {
	Actor     string
	CommentID uint
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment adds a comment to a post. Any authenticated user may comment,
// including the post's own author.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Actor == "" {
		return nil, models.NewUnauthorizedError(models.ReasonAnonymous, "You must be logged in to comment")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if in.Body == "" {
		return nil, models.NewFieldValidationError(map[string]string{"comment": "Comment cannot be empty."})
	}

	comment := &models.Comment{
		AuthorUsername: in.Actor,
		PostID:         in.PostID,
		Body:           in.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments, created_at descending, recomputed
// on every call.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if comment.AuthorUsername != in.Actor {
		return nil, models.NewUnauthorizedError(models.ReasonNotOwner, "You can only edit your own comments")
	}
	if in.Body == "" {
		return nil, models.NewFieldValidationError(map[string]string{"comment": "Comment cannot be empty."})
	}

	comment.Body = in.Body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	if comment.AuthorUsername != in.Actor {
		return models.NewUnauthorizedError(models.ReasonNotOwner, "You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}
