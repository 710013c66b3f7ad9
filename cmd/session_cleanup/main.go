package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/database"
	"fintrack/internal/repository"
)

// One-shot variant of the in-process session sweep, for cron. Deletes
// session records whose validity window ended more than SESSION_RETENTION
// (default 720h) ago. Active sessions cannot match the cutoff.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	retention := 720 * time.Hour
	if v := os.Getenv("SESSION_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid SESSION_RETENTION: %v", err)
		}
		retention = d
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := repository.NewSessionRepository(db, 30*time.Second)

	purged, err := repo.PurgeExpired(context.Background(), time.Now().Add(-retention))
	if err != nil {
		log.Fatalf("session cleanup failed: %v", err)
	}

	log.Printf("session cleanup completed: removed=%d retention=%s", purged, retention)
}
