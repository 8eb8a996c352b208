// Package server contains the HTTP shell: handlers, routing, and the
// per-request identity resolution that feeds the services.
package server

import (
	"context"
	"fmt"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/view"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	codec          *auth.SessionCodec
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	registration   *service.RegistrationService
	posts          *service.PostService
	comments       *service.CommentService
	views          view.Executor
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	codec := auth.NewSessionCodec(cfg.SessionSecret)

	// The prometheus middleware registers collectors globally; a test
	// binary builds many servers, so it stays off there.
	var promMiddleware *fiberprometheus.FiberPrometheus
	if cfg.Env != "test" {
		promMiddleware = middleware.InitMetrics("inkwell-api")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		codec:          codec,
		promMiddleware: promMiddleware,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		views:          view.JSONExecutor{},
	}
	s.registration = service.NewRegistrationService(userRepo, codec)
	s.posts = service.NewPostService(postRepo)
	s.comments = service.NewCommentService(commentRepo, postRepo)

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Identity resolution runs before the context middleware so the
	// resolved username reaches the context-aware logger.
	app.Use(s.ResolveIdentity())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
	}))

	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public pages
	app.Get("/", s.FrontPage)
	app.Get("/blog", s.FrontPage)
	app.Get("/blog/:id/comments", s.GetComments)
	app.Get("/blog/:id", s.PostPage)

	// Auth
	app.Get("/signup", s.SignupPage)
	app.Post("/signup", s.Signup)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.Login)
	app.Post("/logout", s.Logout)
	app.Get("/welcome", s.Welcome)

	// Authenticated content mutation
	protected := app.Group("", s.AuthRequired())
	protected.Post("/blog/newpost", s.CreatePost)
	protected.Post("/blog/:id/edit", s.UpdatePost)
	protected.Post("/blog/:id/delete", s.DeletePost)
	protected.Post("/blog/:id/like", s.LikePost)
	protected.Post("/blog/:id/comment", s.CreateComment)
	protected.Post("/comment/:commentId/edit", s.UpdateComment)
	protected.Post("/comment/:commentId/delete", s.DeleteComment)
}

// HealthCheck reports process liveness and dependency reachability.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	status["database"] = "ok"

	if s.redis != nil {
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	}

	return c.JSON(status)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}
