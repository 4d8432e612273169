package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "refineboard/docs"
	"refineboard/internal/auth"
	"refineboard/internal/config"
	"refineboard/internal/handler"
	"refineboard/internal/llm"
	"refineboard/internal/middleware"
	"refineboard/internal/refine"
	"refineboard/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	redis  *redis.Client
}

func Init(cfg *config.Config, db *gorm.DB) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger())

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		log.Info("Redis rate limiting enabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	personaRepo := repository.NewPersonaRepository(db)

	// Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	generator := llm.New(llm.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	})
	refiner := refine.NewRefiner(cardRepo, personaRepo, generator, refine.Config{
		TriggerWords: cfg.AI.TriggerWords,
		Timeout:      cfg.AI.Timeout,
	})

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, "ratelimit:ai", cfg.AI.RateLimit, time.Minute)
	}

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, issuer)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceRepo, userRepo)
	columnHandler := handler.NewColumnHandler(columnRepo, workspaceRepo)
	cardHandler := handler.NewCardHandler(cardRepo, columnRepo)
	personaHandler := handler.NewPersonaHandler(personaRepo)
	refineHandler := handler.NewRefineHandler(refiner)

	r.GET("/healthz", healthz(db))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/token/refresh", userHandler.Refresh)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(issuer))
	{
		// Workspace routes
		authorized.POST("/workspaces", workspaceHandler.Create)
		authorized.GET("/workspaces", workspaceHandler.List)
		authorized.GET("/workspaces/:id", workspaceHandler.GetByID)
		authorized.PUT("/workspaces/:id", workspaceHandler.Update)
		authorized.DELETE("/workspaces/:id", workspaceHandler.Delete)

		// Membership routes
		authorized.GET("/workspaces/:id/members", workspaceHandler.ListMembers)
		authorized.POST("/workspaces/:id/members", workspaceHandler.AddMember)
		authorized.DELETE("/workspaces/:id/members/:user_id", workspaceHandler.RemoveMember)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/columns", columnHandler.List)
		authorized.GET("/workspaces/:id/columns", columnHandler.ListByWorkspace)
		authorized.POST("/workspaces/:id/columns/reorder", columnHandler.Reorder)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards", cardHandler.List)
		authorized.GET("/columns/:id/cards", cardHandler.ListByColumn)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)

		// AI routes
		ai := authorized.Group("/ai")
		ai.GET("/personas", personaHandler.List)
		ai.POST("/personas", personaHandler.Create)
		ai.GET("/personas/:id", personaHandler.GetByID)
		ai.PUT("/personas/:id", personaHandler.Update)
		ai.DELETE("/personas/:id", personaHandler.Delete)
		ai.POST("/run", limiter.Middleware(), refineHandler.Run)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		redis:  redisClient,
	}, nil
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", s.Config.ServerPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %s", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited properly")
}
