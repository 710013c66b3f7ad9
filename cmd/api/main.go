package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/middleware"
	"fintrack/internal/modules/admin"
	"fintrack/internal/modules/auth"
	"fintrack/internal/modules/budget"
	"fintrack/internal/modules/category"
	"fintrack/internal/modules/content"
	"fintrack/internal/modules/goal"
	"fintrack/internal/modules/sessions"
	"fintrack/internal/modules/transaction"
	"fintrack/internal/pkg/token"
	"fintrack/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db, cfg.StoreTimeout)
	sessionRepo := repository.NewSessionRepository(db, cfg.StoreTimeout)
	categoryRepo := repository.NewCategoryRepository(db, cfg.StoreTimeout)
	transactionRepo := repository.NewTransactionRepository(db, cfg.StoreTimeout)
	budgetRepo := repository.NewBudgetRepository(db, cfg.StoreTimeout)
	goalRepo := repository.NewGoalRepository(db, cfg.StoreTimeout)
	contentRepo := repository.NewContentRepository(db, cfg.StoreTimeout)

	codec := token.NewCodec(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTTL, cfg.RefreshTTL)

	authService := auth.NewService(userRepo, sessionRepo, codec, cfg.SessionCap)
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:        cfg.CookieSecure,
		SameSite:      cfg.CookieSameSite,
		Path:          cfg.CookiePath,
		AccessMaxAge:  int(cfg.AccessTTL.Seconds()),
		RefreshMaxAge: int(cfg.RefreshTTL.Seconds()),
	})

	sessionsService := sessions.NewService(sessionRepo)
	statsHub := sessions.NewStatsHub(sessionsService)
	sessionsHandler := sessions.NewHandler(sessionsService, statsHub)

	adminService := admin.NewService(userRepo, sessionRepo)
	adminHandler := admin.NewHandler(adminService)

	categoryHandler := category.NewHandler(category.NewService(categoryRepo))
	transactionHandler := transaction.NewHandler(transaction.NewService(transactionRepo))
	budgetHandler := budget.NewHandler(budget.NewService(budgetRepo, transactionRepo))
	goalHandler := goal.NewHandler(goal.NewService(goalRepo))
	contentHandler := content.NewHandler(content.NewService(contentRepo))

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(codec), middleware.RequireActive(userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			sessionsHandler.RegisterRoutes(protected)
			categoryHandler.RegisterRoutes(protected)
			transactionHandler.RegisterRoutes(protected)
			budgetHandler.RegisterRoutes(protected)
			goalHandler.RegisterRoutes(protected)
			contentHandler.RegisterRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.Auth(codec), middleware.RequireActive(userRepo), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			sessionsHandler.RegisterAdminRoutes(adminGroup)
			contentHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers: stats push for admin dashboards and the purge of
	// long-expired session records.
	go statsHub.Run(ctx, 10*time.Second)
	go runSessionSweep(ctx, sessionRepo, cfg.SweepInterval, cfg.SessionRetention)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// runSessionSweep periodically deletes session records whose validity window
// ended more than retention ago. Active sessions can never match the cutoff.
func runSessionSweep(ctx context.Context, repo *repository.SessionRepository, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := repo.PurgeExpired(ctx, time.Now().Add(-retention))
			if err != nil {
				log.Printf("session sweep failed: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("session sweep removed %d expired records", purged)
			}
		}
	}
}
