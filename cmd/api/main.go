package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Vishnu072004/Chess-App/internal/auth"
	"github.com/Vishnu072004/Chess-App/internal/config"
	"github.com/Vishnu072004/Chess-App/internal/database"
	"github.com/Vishnu072004/Chess-App/internal/handler"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/Vishnu072004/Chess-App/internal/service"
	"github.com/Vishnu072004/Chess-App/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize MinIO client
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	authRepo := repository.NewAuthRepository(db)
	reelRepo := repository.NewReelRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Initialize services
	commentService := service.NewCommentService(commentRepo, reelRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, authRepo, jwtService)
	reelHandler := handler.NewReelHandler(reelRepo, commentRepo)
	commentHandler := handler.NewCommentHandler(commentService)
	adminHandler := handler.NewAdminHandler(reelRepo, commentRepo, userRepo)
	uploadHandler := handler.NewUploadHandler(minioClient)
	importHandler := handler.NewImportHandler(reelRepo)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "INTERNAL_ERROR",
					"message": err.Error(),
				},
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Session-ID",
		AllowCredentials: true,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authRoutes.Get("/me", authMiddleware.Required(), authHandler.Me)
	authRoutes.Delete("/account", authMiddleware.Required(), authHandler.DeleteAccount)

	// Reel routes
	reelRoutes := api.Group("/reels")
	reelRoutes.Get("/", reelHandler.Feed)
	reelRoutes.Get("/search", reelHandler.Search)
	reelRoutes.Get("/trending", reelHandler.Trending)
	reelRoutes.Get("/random", reelHandler.Random)
	reelRoutes.Get("/folders", reelHandler.Folders)
	reelRoutes.Get("/grandmasters", reelHandler.Grandmasters)
	reelRoutes.Get("/by-folder", reelHandler.ByFolder)
	reelRoutes.Get("/difficulty/:difficulty", reelHandler.ByDifficulty)
	reelRoutes.Get("/:id", reelHandler.GetByID)
	reelRoutes.Get("/:id/stats", reelHandler.Stats)
	reelRoutes.Post("/:id/view", authMiddleware.Optional(), reelHandler.View)
	reelRoutes.Post("/:id/like", authMiddleware.Required(), reelHandler.Like)
	reelRoutes.Delete("/:id/like", authMiddleware.Required(), reelHandler.Unlike)
	reelRoutes.Post("/:id/save", authMiddleware.Required(), reelHandler.Save)
	reelRoutes.Delete("/:id/save", authMiddleware.Required(), reelHandler.Unsave)

	// Comment routes
	reelRoutes.Get("/:id/comments", commentHandler.ListByReel)
	reelRoutes.Post("/:id/comments", authMiddleware.Optional(), commentHandler.Create)
	api.Delete("/comments/:id", authMiddleware.Required(), commentHandler.Delete)

	// Upload routes
	uploadRoutes := api.Group("/uploads", authMiddleware.Required(), authMiddleware.AdminOnly())
	uploadRoutes.Post("/presign", uploadHandler.Presign)
	uploadRoutes.Post("/confirm", uploadHandler.Confirm)

	// Admin routes
	adminRoutes := api.Group("/admin", authMiddleware.Required(), authMiddleware.AdminOnly())
	adminRoutes.Get("/stats", adminHandler.GetStats)
	adminRoutes.Get("/reels", adminHandler.ListReels)
	adminRoutes.Post("/reels", adminHandler.CreateReel)
	adminRoutes.Patch("/reels/:id", adminHandler.UpdateReel)
	adminRoutes.Delete("/reels/:id", adminHandler.DeleteReel)
	adminRoutes.Post("/reels/:id/publish", adminHandler.PublishReel)
	adminRoutes.Post("/reels/:id/archive", adminHandler.ArchiveReel)
	adminRoutes.Post("/reels/import", importHandler.ImportReels)
	adminRoutes.Get("/reels/import/template", importHandler.DownloadTemplate)
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Delete("/users/:id", adminHandler.DeleteUser)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
