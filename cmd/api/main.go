package main

import (
	"time"

	"campus-events/pkg/cache"
	"campus-events/pkg/config"
	"campus-events/pkg/database"
	"campus-events/pkg/jwt"
	"campus-events/pkg/logger"
	"campus-events/pkg/middleware"
	"campus-events/pkg/models"
	"campus-events/pkg/s3"

	adminhandlers "campus-events/services/admin/handlers"
	adminrepo "campus-events/services/admin/repository"
	authhandlers "campus-events/services/auth/handlers"
	authrepo "campus-events/services/auth/repository"
	eventhandlers "campus-events/services/event/handlers"
	eventrepo "campus-events/services/event/repository"
	orghandlers "campus-events/services/organization/handlers"
	orgrepo "campus-events/services/organization/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "campus-events/docs" // Swagger docs
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Campus Events API
// @version         1.0
// @description     Event listing platform for college campuses: students discover and bookmark events, organizers submit them, admins review them.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Bookmark{},
		&models.EventRegistration{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.OrganizationFollow{},
	); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	jwtService.SetTTL(time.Duration(cfg.TokenTTLHours) * time.Hour)

	userRepo := authrepo.NewUserRepository(db)
	eventRepo := eventrepo.NewEventRepository(db)
	bookmarkRepo := eventrepo.NewBookmarkRepository(db)
	registrationRepo := eventrepo.NewRegistrationRepository(db)
	organizationRepo := orgrepo.NewOrganizationRepository(db)
	followRepo := orgrepo.NewFollowRepository(db)
	adminRepo := adminrepo.NewAdminRepository(db)

	authHandler := authhandlers.NewAuthHandler(userRepo, jwtService, cfg, log)
	eventHandler := eventhandlers.NewEventHandler(eventRepo, bookmarkRepo, registrationRepo, s3Client, log)
	organizationHandler := orghandlers.NewOrganizationHandler(organizationRepo, followRepo, s3Client, log)
	adminHandler := adminhandlers.NewAdminHandler(adminRepo, redisClient, log)

	requireAuth := middleware.AuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(redisClient, 20, time.Minute))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/update-password", requireAuth, authHandler.UpdatePassword)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	events := api.Group("/events")
	{
		events.GET("", eventHandler.ListApprovedEvents)
		events.POST("", requireAuth, middleware.RequireRoles(models.RoleOrganizer), eventHandler.CreateEvent)
		events.GET("/my", requireAuth, middleware.RequireRoles(models.RoleOrganizer), eventHandler.ListMyEvents)
		events.GET("/pending/all", requireAuth, middleware.RequireRoles(models.RoleAdmin), eventHandler.ListPendingEvents)
		events.PUT("/:id/approve", requireAuth, middleware.RequireRoles(models.RoleAdmin), eventHandler.DecideEvent)
		events.GET("/bookmarked", requireAuth, eventHandler.GetBookmarkedEvents)
		events.POST("/:id/bookmark", requireAuth, eventHandler.ToggleBookmark)
		events.POST("/:id/register", requireAuth, eventHandler.RegisterForEvent)
		events.GET("/:id/registrations", requireAuth, eventHandler.GetEventRegistrations)
		events.GET("/:id", optionalAuth, eventHandler.GetEvent)
	}

	organizations := api.Group("/organizations")
	{
		organizations.GET("", organizationHandler.ListOrganizations)
		organizations.POST("", requireAuth, middleware.RequireRoles(models.RoleOrganizer), organizationHandler.CreateOrganization)
		organizations.GET("/followed/me", requireAuth, organizationHandler.GetFollowedOrganizations)
		organizations.POST("/:id/follow", requireAuth, organizationHandler.ToggleFollow)
		organizations.GET("/:id", organizationHandler.GetOrganization)
	}

	admin := api.Group("/admin")
	admin.Use(requireAuth, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/recent-activity", adminHandler.GetRecentActivity)
	}

	log.Info("Campus events API starting on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Error("Failed to start server: %v", err)
		panic(err)
	}
}
