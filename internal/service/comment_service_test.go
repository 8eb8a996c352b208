package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorUsername: "alice", PostID: 1, Body: "hello"}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: 1, Body: "hi"})
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, models.ReasonAnonymous, appErr.Reason)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return nil, nil }
		svc := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{Actor: "bob", PostID: 99, Body: "hi"})
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{Actor: "bob", PostID: 1})
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Contains(t, appErr.Fields, "comment")
	})

	t.Run("commenting on your own post is allowed", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, cm *models.Comment) error {
			cm.ID = 42
			return nil
		}
		// noopPostRepo returns posts authored by alice.
		svc := NewCommentService(commentRepo, noopPostRepo())
		comment, err := svc.CreateComment(ctx, CreateCommentInput{Actor: "alice", PostID: 1, Body: "self-reply"})
		require.NoError(t, err)
		assert.Equal(t, uint(42), comment.ID)
		assert.Equal(t, "alice", comment.AuthorUsername)
	})
}

func TestCommentService_UpdateComment_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: "bob", CommentID: 1, Body: "new"})
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, models.ReasonNotOwner, appErr.Reason)
	})

	t.Run("owner updates", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		comment, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: "alice", CommentID: 1, Body: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", comment.Body)
	})

	t.Run("owner cannot blank the body", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: "alice", CommentID: 1})
		assertAppError(t, err, models.CodeValidation)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) { return nil, nil }
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: "alice", CommentID: 9, Body: "x"})
		assertAppError(t, err, models.CodeNotFound)
	})
}

func TestCommentService_DeleteComment_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		err := svc.DeleteComment(ctx, DeleteCommentInput{Actor: "bob", CommentID: 1})
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, models.ReasonNotOwner, appErr.Reason)
	})

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		deleted := false
		commentRepo := noopCommentRepo()
		commentRepo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		require.NoError(t, svc.DeleteComment(ctx, DeleteCommentInput{Actor: "alice", CommentID: 1}))
		assert.True(t, deleted)
	})
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, postID uint) ([]*models.Comment, error) {
		return []*models.Comment{{ID: 2, PostID: postID}, {ID: 1, PostID: postID}}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comments, err := svc.ListComments(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}
