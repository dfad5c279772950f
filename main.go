package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/database"
	"project-tracker/internal/handlers"
	"project-tracker/internal/middleware"
	"project-tracker/internal/monitoring"
	"project-tracker/internal/repositories"
	"project-tracker/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Application holds all application dependencies and state
type Application struct {
	Config *config.Config
	DB     *database.DatabasePool
	Redis  *redis.Client
	Router *gin.Engine
	Server *http.Server

	// Services
	AuthService     services.AuthService
	RegisterService services.RegisterService
	UserService     services.UserService
	ProjectService  services.ProjectService
	TaskService     services.TaskService
	CommentService  services.CommentService
	AuthzService    services.AuthorizationService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	log.Println("🚀 Initializing Project Tracker Backend...")
	log.Printf("📋 Environment: %s", cfg.Server.Environment)

	pool, err := database.NewDatabasePool(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool

	log.Println("✅ Database connected and configured")

	migrationConfig := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}

	if err := repositories.RunMigrations(pool.DB, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable: %v (auth rate limiting falls back to in-process limiter)", err)
		if closeErr := redisClient.Close(); closeErr != nil {
			log.Printf("⚠️  Error closing Redis client: %v", closeErr)
		}
	} else {
		app.Redis = redisClient
		log.Println("✅ Redis connected")
	}

	app.AuthzService = services.NewAuthorizationService()
	app.AuthService = services.NewAuthService(cfg.JWT.Secret, cfg.JWT.TTL)
	app.RegisterService = services.NewRegisterService()
	app.UserService = services.NewUserService()
	app.ProjectService = services.NewProjectService()
	app.TaskService = services.NewTaskService()
	app.CommentService = services.NewCommentService()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return app.DB.Health()
	})
	if app.Redis != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	log.Println("✅ All services initialized")

	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(gin.Logger())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.RecoveryWithLog())
	r.Use(middleware.SecureHeader())

	rateLimit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
	r.Use(middleware.RateLimiter(rateLimit, app.Config.RateLimit.BurstSize))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health and monitoring endpoints (no auth required)
	r.GET("/health", monitoring.HealthHandler())
	r.GET("/ready", monitoring.ReadinessHandler())
	r.GET("/live", monitoring.LivenessHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(app.DB.DB, app.AuthService, app.RegisterService)
	userHandler := handlers.NewUserHandler(app.DB.DB, app.UserService)
	projectHandler := handlers.NewProjectHandler(app.DB.DB, app.ProjectService, app.TaskService, app.AuthzService)
	taskHandler := handlers.NewTaskHandler(app.DB.DB, app.TaskService, app.ProjectService, app.AuthzService)
	commentHandler := handlers.NewCommentHandler(app.DB.DB, app.CommentService, app.TaskService, app.ProjectService, app.AuthzService)

	// Public authentication routes, behind the tighter Redis-backed window
	// when Redis is available.
	public := api.Group("/users")
	if app.Redis != nil {
		authLimiter := middleware.NewDistributedRateLimiter(app.Redis)
		public.Use(authLimiter.CreateMiddleware("auth", &middleware.RateLimit{
			Rate:    app.Config.RateLimit.AuthRequests,
			Window:  app.Config.RateLimit.AuthWindow,
			KeyFunc: middleware.IPKeyFunc,
		}))
	}
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.Auth(app.DB.DB, app.AuthService))
	{
		protected.GET("/users/me", authHandler.Me)
		protected.GET("/users/search", userHandler.Search)

		projectRoutes := protected.Group("/projects")
		{
			projectRoutes.GET("", projectHandler.List)
			projectRoutes.POST("", projectHandler.Create)
			projectRoutes.GET("/:id", projectHandler.Get)
			projectRoutes.PATCH("/:id", projectHandler.Update)
			projectRoutes.DELETE("/:id", projectHandler.Delete)
			projectRoutes.POST("/:id/members", projectHandler.AddMember)
			projectRoutes.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
			projectRoutes.GET("/:id/tasks", projectHandler.ListTasks)
		}

		taskRoutes := protected.Group("/tasks")
		{
			taskRoutes.POST("", taskHandler.Create)
			taskRoutes.GET("/:id", taskHandler.Get)
			taskRoutes.PATCH("/:id", taskHandler.Update)
			taskRoutes.DELETE("/:id", taskHandler.Delete)
			taskRoutes.GET("/:id/comments", commentHandler.ListForTask)
		}

		protected.POST("/comments", commentHandler.Create)
	}

	app.setupStatic(r)

	app.Router = r
}

// setupStatic serves the SPA: asset directories plus the index.html fallback
// for every non-API route.
func (app *Application) setupStatic(r *gin.Engine) {
	staticDir := app.Config.Server.StaticDir

	r.Static("/js", filepath.Join(staticDir, "js"))
	r.Static("/css", filepath.Join(staticDir, "css"))
	r.Static("/images", filepath.Join(staticDir, "images"))

	index := filepath.Join(staticDir, "index.html")
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		c.File(index)
	})
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🚀 Server starting on %s", addr)
	log.Printf("📊 Metrics available at http://%s/metrics", addr)
	log.Printf("💚 Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	log.Println("🧹 Cleaning up resources...")

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("⚠️  Error closing Redis: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}
