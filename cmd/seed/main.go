package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/database"
	"fintrack/internal/domain"
)

// Seeds the admin account, the shared system categories and the default
// plans. Idempotent: existing rows are left alone.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "fintrack.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// ================== ADMIN ==================
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@fintrack.local"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var adminCount int64
	db.Model(&domain.User{}).Where("email = ?", adminEmail).Count(&adminCount)
	if adminCount == 0 {
		log.Println("Creating admin account...")
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		admin := domain.User{
			Email:        adminEmail,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Name:         "Administrator",
			Status:       domain.StatusActive,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("admin seed failed:", err)
		}
	}

	// ================== SYSTEM CATEGORIES ==================
	categories := []domain.Category{
		{Name: "Salary", Kind: "income", Icon: "briefcase"},
		{Name: "Gifts", Kind: "income", Icon: "gift"},
		{Name: "Groceries", Kind: "expense", Icon: "cart"},
		{Name: "Transport", Kind: "expense", Icon: "bus"},
		{Name: "Housing", Kind: "expense", Icon: "home"},
		{Name: "Health", Kind: "expense", Icon: "heart"},
		{Name: "Entertainment", Kind: "expense", Icon: "film"},
		{Name: "Education", Kind: "expense", Icon: "book"},
	}
	for _, c := range categories {
		var n int64
		db.Model(&domain.Category{}).Where("user_id IS NULL AND name = ?", c.Name).Count(&n)
		if n == 0 {
			if err := db.Create(&c).Error; err != nil {
				log.Fatal("category seed failed:", err)
			}
		}
	}

	// ================== PLANS ==================
	plans := []domain.Plan{
		{
			Name:        "Basic",
			Description: "Track transactions and budgets",
			PriceCents:  0,
			Features:    `["transactions","budgets","goals"]`,
			IsActive:    true,
		},
		{
			Name:        "Premium",
			Description: "Everything in Basic plus the full course library",
			PriceCents:  990,
			Features:    `["transactions","budgets","goals","videos","priority_support"]`,
			IsActive:    true,
		},
	}
	for _, p := range plans {
		var n int64
		db.Model(&domain.Plan{}).Where("name = ?", p.Name).Count(&n)
		if n == 0 {
			if err := db.Create(&p).Error; err != nil {
				log.Fatal("plan seed failed:", err)
			}
		}
	}

	log.Println("Seed completed.")
}
