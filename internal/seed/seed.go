// Package seed creates demo data for local development. Not used in
// production.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Seeder populates the database with demo users, posts, comments, and likes.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds numUsers demo accounts (password "demo123") and numPosts posts
// with a scattering of comments and likes.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		username := s.username(i)
		user := &models.User{
			Username:     username,
			PasswordHash: auth.HashPassword(username, "demo123", ""),
			Email:        gofakeit.Email(),
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("seeding user %s: %w", username, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.r.Intn(len(users))]
		post := &models.Post{
			AuthorUsername: author.Username,
			Subject:        gofakeit.Sentence(4),
			Content:        gofakeit.Paragraph(1, 3, 8, "\n"),
			CreatedAt:      s.pastTime(60),
		}
		if err := s.db.Create(post).Error; err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	var comments, likes int
	for _, post := range posts {
		for _, user := range users {
			if s.r.Intn(4) == 0 {
				comment := &models.Comment{
					AuthorUsername: user.Username,
					PostID:         post.ID,
					Body:           gofakeit.Sentence(10),
				}
				if err := s.db.Create(comment).Error; err != nil {
					return fmt.Errorf("seeding comment: %w", err)
				}
				comments++
			}
			// Never seed a self-like; the application forbids them.
			if user.Username != post.AuthorUsername && s.r.Intn(3) == 0 {
				like := &models.Like{
					AuthorUsername: user.Username,
					PostID:         post.ID,
				}
				if err := s.db.Create(like).Error; err != nil {
					return fmt.Errorf("seeding like: %w", err)
				}
				likes++
			}
		}
	}
	log.Printf("Seeded %d comments, %d likes", comments, likes)

	return nil
}

func (s *Seeder) username(i int) string {
	name := strings.ToLower(gofakeit.Username())
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, name)
	if len(name) > 14 {
		name = name[:14]
	}
	if len(name) < 3 {
		name = "user"
	}
	return fmt.Sprintf("%s%d", name, i)
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(s.r.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(s.r.Intn(60)) * time.Minute)
}
