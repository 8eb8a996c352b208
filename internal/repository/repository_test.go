package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// setupDB opens a fresh in-memory SQLite database per test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache memory DB alive.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "salt|digest", Email: "a@b.c"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("lookup by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("lookup by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing user is nil, not an error", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate username rejected by the store", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x|y"})
		assert.Error(t, err)
	})
}

func TestPostRepository_ListRecentOrdering(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		post := &models.Post{
			AuthorUsername: "alice",
			Subject:        fmt.Sprintf("post %d", i),
			Content:        "body",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, post))
	}

	posts, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 10)

	assert.Equal(t, "post 11", posts[0].Subject)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt),
			"posts must be ordered created_at descending")
	}
}

func TestPostRepository_LikesAndCounts(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorUsername: "alice", Subject: "Hi", Content: "World"}
	require.NoError(t, repo.Create(ctx, post))

	liked, err := repo.IsLiked(ctx, "bob", post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.Like(ctx, "bob", post.ID))

	liked, err = repo.IsLiked(ctx, "bob", post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// A duplicate insert hits the unique index and is silently ignored.
	require.NoError(t, repo.Like(ctx, "bob", post.ID))

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Like(ctx, "carol", post.ID))
	count, err = repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
}

func TestPostRepository_DeleteDoesNotCascade(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorUsername: "alice", Subject: "Hi", Content: "World"}
	require.NoError(t, postRepo.Create(ctx, post))
	require.NoError(t, postRepo.Like(ctx, "bob", post.ID))
	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		AuthorUsername: "bob", PostID: post.ID, Body: "nice",
	}))

	require.NoError(t, postRepo.Delete(ctx, post.ID))

	got, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Likes and comments survive the post; orphaning them is deliberate.
	count, err := postRepo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	comments, err := commentRepo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestPostRepository_UpdateRefreshesModifiedTime(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorUsername: "alice", Subject: "Hi", Content: "World"}
	require.NoError(t, repo.Create(ctx, post))
	created := post.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	post.Subject = "Hi again"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi again", got.Subject)
	assert.True(t, got.UpdatedAt.After(created))
}

func TestCommentRepository(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorUsername: "alice", Subject: "Hi", Content: "World"}
	require.NoError(t, postRepo.Create(ctx, post))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			AuthorUsername: "bob",
			PostID:         post.ID,
			Body:           fmt.Sprintf("comment %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("list is newest first", func(t *testing.T) {
		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "comment 2", comments[0].Body)
		assert.Equal(t, "comment 0", comments[2].Body)
	})

	t.Run("update and delete", func(t *testing.T) {
		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		target := comments[0]

		target.Body = "edited"
		require.NoError(t, repo.Update(ctx, target))

		got, err := repo.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Body)

		require.NoError(t, repo.Delete(ctx, target.ID))
		got, err = repo.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		remaining, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)
	})

	t.Run("deleted comments drop out of the post's count", func(t *testing.T) {
		got, err := postRepo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CommentsCount)
	})
}

func TestCommentRepository_InvalidatesCachedCounts(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	post := &models.Post{AuthorUsername: "alice", Subject: "Hi", Content: "World"}
	require.NoError(t, postRepo.Create(ctx, post))

	// The cached front-page list embeds comments_count, so every comment
	// mutation must drop it.
	warm := func() {
		require.NoError(t, cache.SetJSON(ctx, cache.RecentPostsKey(), []string{"warm"}, time.Minute))
		require.True(t, mr.Exists(cache.RecentPostsKey()))
	}

	warm()
	comment := &models.Comment{AuthorUsername: "bob", PostID: post.ID, Body: "nice"}
	require.NoError(t, repo.Create(ctx, comment))
	assert.False(t, mr.Exists(cache.RecentPostsKey()), "create must invalidate the front-page cache")

	warm()
	comment.Body = "edited"
	require.NoError(t, repo.Update(ctx, comment))
	assert.False(t, mr.Exists(cache.RecentPostsKey()), "update must invalidate the front-page cache")

	warm()
	require.NoError(t, repo.Delete(ctx, comment.ID))
	assert.False(t, mr.Exists(cache.RecentPostsKey()), "delete must invalidate the front-page cache")
}
