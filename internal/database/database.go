package database

import (
	"log"
	"os"

	"sdgconnect/config"
	"sdgconnect/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Contributor{},
		&models.Offer{},
		&models.Donation{},
		&models.Counter{},
		&models.Settings{},
		&models.ContactMessage{},
		&models.AuditLog{},
	)
}

// SeedAdmin promotes or creates the bootstrap admin from SEED_ADMIN_EMAIL /
// SEED_ADMIN_PASSWORD. No-op when the env vars are unset or an admin exists.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return
	}
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err == nil {
		u.IsAdmin = true
		if err := db.Save(&u).Error; err != nil {
			log.Printf("[database] seed admin promote failed: %v", err)
			return
		}
		log.Printf("[database] promoted %s to admin", email)
		return
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Printf("[database] SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[database] seed admin hash failed: %v", err)
		return
	}
	u = models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(&u).Error; err != nil {
		log.Printf("[database] seed admin create failed: %v", err)
		return
	}
	log.Printf("[database] seeded admin %s", email)
}
