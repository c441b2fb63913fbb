package database

import (
	"log"
	"os"
	"time"

	"taskboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedDefaultUsers()
}

// Migrate runs the schema migrations; tests reuse it against their own DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Project{},
		&models.ProjectFollower{},
		&models.Task{},
		&models.TimeEntry{},
		&models.Comment{},
		&models.HistoryEntry{},
		&models.Notification{},
	)
}

// the admin account only ever comes from code/config
func createDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@taskboard.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		// admin already exists, nothing to do
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s (password: %s)", email, password)
}

// demo accounts for each role with the reporting line wired up
func seedDefaultUsers() {
	type seedUser struct {
		Email     string
		Name      string
		Password  string
		Role      models.UserRole
		ReportsTo string // email of the manager, resolved after create
	}

	users := []seedUser{
		{
			Email:    "head@taskboard.local",
			Name:     "Harriet Head",
			Password: "Head123!",
			Role:     models.RoleHeadManager,
		},
		{
			Email:     "manager@taskboard.local",
			Name:      "Mike Manager",
			Password:  "Manager123!",
			Role:      models.RoleManager,
			ReportsTo: "head@taskboard.local",
		},
		{
			Email:     "eng@taskboard.local",
			Name:      "Erin Engineer",
			Password:  "Eng123!",
			Role:      models.RoleEngineer,
			ReportsTo: "manager@taskboard.local",
		},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Email, err)
			continue
		}
		if count > 0 {
			// already there, skip
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Email, err)
			continue
		}

		user := models.User{
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: string(hash),
			Role:         u.Role,
		}

		if u.ReportsTo != "" {
			var mgr models.User
			if err := DB.Where("email = ?", u.ReportsTo).First(&mgr).Error; err == nil {
				user.ManagerID = &mgr.ID
			}
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Email, err)
			continue
		}

		log.Printf("created seed user: %s (role=%s, password=%s)", u.Email, u.Role, u.Password)
	}
}
