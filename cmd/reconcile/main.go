package main

import (
	"log"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/config"
	"github.com/Vishnu072004/Chess-App/internal/database"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/Vishnu072004/Chess-App/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	commentRepo := repository.NewCommentRepository(db)
	reelRepo := repository.NewReelRepository(db)
	reconciler := service.NewReconcileService(commentRepo, reelRepo)

	start := time.Now()
	log.Println("Starting counter reconciliation...")

	report, err := reconciler.Run()
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	log.Printf("Reconciliation complete in %s: %d reels and %d comments updated",
		time.Since(start).Round(time.Millisecond), report.ReelsUpdated, report.CommentsUpdated)

	authRepo := repository.NewAuthRepository(db)
	if err := authRepo.CleanupExpiredTokens(); err != nil {
		log.Printf("Token cleanup failed: %v", err)
	} else {
		log.Println("Expired refresh tokens and blacklist entries pruned")
	}
}
