// Package server contains the HTTP handlers for the BlogSphere API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "blogsphere/docs" // swagger docs
	"blogsphere/internal/auth"
	"blogsphere/internal/bootstrap"
	"blogsphere/internal/cache"
	"blogsphere/internal/config"
	"blogsphere/internal/featureflags"
	"blogsphere/internal/middleware"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	guard          *middleware.Guard
	featureFlags   *featureflags.Manager
	articleService *service.ArticleService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer creates a new server instance, connecting to the database and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, cache.New(redisClient))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// c may be nil to run without a cache.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, c *cache.Cache) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	timeout := cfg.QueryTimeout()

	userRepo := repository.NewUserRepository(db, timeout)
	articleRepo := repository.NewArticleRepository(db, timeout, c)
	commentRepo := repository.NewCommentRepository(db, timeout)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	if unknown := flags.Unknown(); len(unknown) > 0 {
		middleware.Logger.Warn("ignoring unknown feature flags", slog.Any("flags", unknown))
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, 0)

	return &Server{
		config:         cfg,
		db:             db,
		cache:          c,
		promMiddleware: middleware.InitMetrics("blogsphere-api"),
		guard:          middleware.NewGuard(tokens, userRepo),
		featureFlags:   flags,
		articleService: service.NewArticleService(articleRepo, flags),
		commentService: service.NewCommentService(commentRepo, articleRepo),
		userService:    service.NewUserService(userRepo, c),
	}, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "BlogSphere API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, errors.New(fe.Message))
	}
	return respondError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		// Bearer tokens travel in a header, never in cookies.
		AllowCredentials: false,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	required := s.guard.Required()

	articles := api.Group("/articles")
	articles.Get("/", s.ListArticles)
	articles.Post("/", required, s.CreateArticle)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	articles.Post("/:id/like", required, s.ToggleArticleLike)
	articles.Get("/:id", s.guard.Optional(), s.GetArticle)
	articles.Put("/:id", required, s.UpdateArticle)
	articles.Delete("/:id", required, s.DeleteArticle)

	comments := api.Group("/comments")
	comments.Get("/article/:id", s.ListComments)
	comments.Post("/", required, s.CreateComment)
	comments.Post("/:id/like", required, s.ToggleCommentLike)
	comments.Put("/:id", required, s.UpdateComment)
	comments.Delete("/:id", required, s.DeleteComment)

	users := api.Group("/users", required)
	users.Get("/profile", s.GetProfile)
	users.Put("/profile", s.UpdateProfile)
}

// Root answers the bare liveness text served at /.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.SendString("BlogSphere API is running")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: an
// unreachable cache degrades reads but does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := s.cache.Ping(ctx); err != nil {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"features": s.featureFlags.Snapshot(0),
		"time":     time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	addr := ":" + s.config.Port
	middleware.Logger.Info("Server starting", slog.String("addr", addr))
	return s.App().Listen(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql DB: %w", cerr))
		}
	}

	if err := s.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
