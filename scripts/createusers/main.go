package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/infrastructure/database"
	"github.com/trackteam/action-tracker/pkg/config"
)

// seedUsers are the participants from the sample transcript. Tom doubles as
// the admin account.
var seedUsers = []struct {
	Name     string
	Email    string
	Role     entities.UserRole
	Password string
}{
	{Name: "Sarah", Email: "sarah@company.com", Role: entities.RolePM, Password: "password123"},
	{Name: "Mark", Email: "mark@company.com", Role: entities.RoleDesign, Password: "password123"},
	{Name: "John", Email: "john@company.com", Role: entities.RoleEngineer, Password: "password123"},
	{Name: "Tom", Email: "tom@company.com", Role: entities.RoleAdmin, Password: "password123"},
}

func main() {
	log.Println("🚀 Starting seed user creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	created := 0
	skipped := 0

	for _, seed := range seedUsers {
		var existing entities.User
		if err := db.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			log.Printf("⚠️  User %s already exists, skipping...", seed.Email)
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash password for %s: %v", seed.Email, err)
			continue
		}

		user := entities.NewUser(seed.Email, seed.Name, seed.Role)
		user.PasswordHash = string(hash)

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", seed.Email, err)
			continue
		}

		fmt.Printf("🟢 Created %s <%s> (%s)\n", user.Name, user.Email, user.Role)
		created++
	}

	log.Printf("✅ Done: %d created, %d skipped", created, skipped)
}
