// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"videotube/internal/cache"
	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/events"
	"videotube/internal/media"
	"videotube/internal/middleware"
	"videotube/internal/models"
	"videotube/internal/repository"
	"videotube/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config              *config.Config
	db                  *gorm.DB
	redis               *redis.Client
	app                 *fiber.App
	promMiddleware      *fiberprometheus.FiberPrometheus
	media               media.Store
	broker              events.Broker
	userRepo            repository.UserRepository
	videoRepo           repository.VideoRepository
	commentRepo         repository.CommentRepository
	tweetRepo           repository.TweetRepository
	subscriptionRepo    repository.SubscriptionRepository
	relations           repository.RelationStore
	toggleService       *service.ToggleService
	videoService        *service.VideoService
	commentService      *service.CommentService
	tweetService        *service.TweetService
	subscriptionService *service.SubscriptionService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := media.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("media store setup failed: %w", err)
	}

	broker, err := events.NewBrokerFromConfig(cfg, redisClient)
	if err != nil {
		return nil, fmt.Errorf("event broker setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, store, broker)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
// A nil broker disables events.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store media.Store, broker events.Broker) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	if store == nil {
		return nil, errors.New("server requires a media store")
	}

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("videotube-api"),
		media:            store,
		broker:           broker,
		userRepo:         repository.NewUserRepository(db),
		videoRepo:        repository.NewVideoRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		tweetRepo:        repository.NewTweetRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		relations:        repository.NewRelationStore(db),
	}

	publisher := events.NewEmitter(broker)
	server.toggleService = service.NewToggleService(
		server.relations, server.videoRepo, server.commentRepo, server.tweetRepo, server.userRepo, publisher)
	server.videoService = service.NewVideoService(server.videoRepo, server.userRepo, store, publisher)
	server.commentService = service.NewCommentService(server.commentRepo, server.videoRepo, server.userRepo)
	server.tweetService = service.NewTweetService(server.tweetRepo, server.userRepo)
	server.subscriptionService = service.NewSubscriptionService(server.subscriptionRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Media is embedded cross-origin by clients.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewValidationError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Files written by the filesystem media store.
	if s.config.MediaBackend == "filesystem" && s.config.MediaRoot != "" {
		app.Static("/media", s.config.MediaRoot, fiber.Static{
			ByteRange: true,
			MaxAge:    3600,
		})
	}

	api := app.Group("/api/v1")
	api.Get("/healthcheck", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "VideoTube Metrics Dashboard",
	}))

	// Public reads
	api.Get("/videos", s.GetVideos)
	api.Get("/videos/:videoId", s.GetVideo)
	api.Get("/comments/:videoId", s.GetVideoComments)
	api.Get("/tweets/user/:userId", s.GetUserTweets)
	api.Get("/subscriptions/c/:channelId", s.GetChannelSubscribers)
	api.Get("/subscriptions/u/:subscriberId", s.GetSubscribedChannels)

	protected := api.Group("", s.AuthRequired())

	likes := protected.Group("/likes")
	likes.Get("/videos", s.GetLikedVideos)
	likes.Post("/toggle/:kind/:targetId", middleware.RateLimit(
		s.redis, s.config.Env, 60, time.Minute, "toggle_like"), s.ToggleLike)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.Post("/c/:channelId", middleware.RateLimit(
		s.redis, s.config.Env, 30, time.Minute, "toggle_subscription"), s.ToggleSubscription)

	comments := protected.Group("/comments")
	comments.Post("/:videoId", middleware.RateLimit(
		s.redis, s.config.Env, 10, time.Minute, "create_comment"), s.AddComment)
	comments.Patch("/c/:commentId", s.UpdateComment)
	comments.Delete("/c/:commentId", s.DeleteComment)

	tweets := protected.Group("/tweets")
	tweets.Post("/", middleware.RateLimit(
		s.redis, s.config.Env, 10, time.Minute, "create_tweet"), s.CreateTweet)
	tweets.Patch("/:tweetId", s.UpdateTweet)
	tweets.Delete("/:tweetId", s.DeleteTweet)

	videos := protected.Group("/videos")
	videos.Post("/", middleware.RateLimit(
		s.redis, s.config.Env, 5, 10*time.Minute, "publish_video"), s.PublishVideo)
	// Define specific routes BEFORE generic /:videoId routes
	videos.Patch("/toggle/publish/:videoId", s.TogglePublishStatus)
	videos.Patch("/:videoId", s.UpdateVideo)
	videos.Delete("/:videoId", s.DeleteVideo)
}

// HealthCheck answers the public API health endpoint.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return models.Respond(c, fiber.StatusOK, fiber.Map{"status": "OK"}, "Health check passed")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// The cache is optional; only a configured but failing Redis is unhealthy.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"media":    s.media.Name(),
		},
		"time": time.Now(),
	})
}

// parseToken validates a bearer token and returns the user it was issued to.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(s.config.JWTIssuer),
		jwt.WithAudience(s.config.JWTAudience),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}
	return uint(userID), nil
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0
	}
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return 0
	}
	return userID
}

// App builds the fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	bodyLimit := s.config.MaxUploadMB * 1024 * 1024
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:   "VideoTube API",
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return models.RespondWithError(c, fiberErr.Code, err)
			}
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				return models.RespondWithAppError(c, appErr)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.App()

	middleware.Logger.Info("server starting",
		slog.String("port", s.config.Port),
		slog.String("media", s.media.Name()),
	)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			middleware.Logger.Error("error closing event broker", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
