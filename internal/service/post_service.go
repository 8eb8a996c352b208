package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// DefaultRecentLimit is the number of posts on the front page.
const DefaultRecentLimit = 10

// PostService orchestrates post creation, mutation, and the like invariant.
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Author  string
	Subject string
	Content string
}

type UpdatePostInput struct {
	Actor   string
	PostID  uint
	Subject string
	Content string
}

type DeletePostInput struct {
	Actor  string
	PostID uint
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Author == "" {
		return nil, models.NewUnauthorizedError(models.ReasonAnonymous, "You must be logged in to post")
	}

	// Empty-string check only: whitespace-only input passes.
	fields := make(map[string]string)
	if in.Subject == "" {
		fields["subject"] = "Subject and content, please!"
	}
	if in.Content == "" {
		fields["content"] = "Subject and content, please!"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post := &models.Post{
		AuthorUsername: in.Author,
		Subject:        in.Subject,
		Content:        in.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// ListRecent returns the newest posts, created_at descending. The front-page
// default is served cache-aside from Redis; other limits hit the store
// directly.
func (s *PostService) ListRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var posts []*models.Post
	if limit == DefaultRecentLimit {
		err := cache.Aside(ctx, cache.RecentPostsKey(), &posts, cache.RecentPostsTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListRecent(ctx, limit)
			return fetchErr
		})
		return posts, err
	}
	return s.postRepo.ListRecent(ctx, limit)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorUsername != in.Actor {
		return nil, models.NewUnauthorizedError(models.ReasonNotOwner, "You can only edit your own posts")
	}

	fields := make(map[string]string)
	if in.Subject == "" {
		fields["subject"] = "Subject and content, please!"
	}
	if in.Content == "" {
		fields["content"] = "Subject and content, please!"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post.Subject = in.Subject
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.AuthorUsername != in.Actor {
		return models.NewUnauthorizedError(models.ReasonNotOwner, "You can only delete your own posts")
	}
	// Likes and comments on the post are not cascade-deleted.
	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike records a like by actor on the post. Likes are add-only: when a
// like already exists the call is a no-op and (false, nil) is returned, so a
// repeat request never flips the state back. The post's own author can never
// like it.
func (s *PostService) ToggleLike(ctx context.Context, actor string, postID uint) (bool, error) {
	if actor == "" {
		return false, models.NewUnauthorizedError(models.ReasonAnonymous, "You must be logged in to like a post")
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}
	if post.AuthorUsername == actor {
		return false, models.NewUnauthorizedError(models.ReasonSelfLike, "You cannot like your own post")
	}

	liked, err := s.postRepo.IsLiked(ctx, actor, postID)
	if err != nil {
		return false, err
	}
	if liked {
		return false, nil
	}

	if err := s.postRepo.Like(ctx, actor, postID); err != nil {
		return false, err
	}
	return true, nil
}

// CountLikes recomputes the like count from the store on every call.
func (s *PostService) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.postRepo.CountLikes(ctx, postID)
}
