// Command admin_seed creates the initial admin account from environment
// variables. Safe to re-run: it exits if the admin already exists.
package main

import (
	"crypto/rand"
	"log"
	"math/big"
	"os"

	"earnsure/internal/config"
	"earnsure/internal/models"
	"earnsure/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	code, err := referralCode()
	if err != nil {
		log.Fatal("Failed to generate referral code:", err)
	}

	adminUser := models.User{
		Name:         "Admin",
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Phone:        os.Getenv("ADMIN_PHONE"),
		Role:         "admin",
		ReferralCode: code,
		DeviceID:     "admin-seed",
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("✅ Admin user created: %s (referral code %s)", adminEmail, code)
}

func referralCode() (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	buf := make([]byte, 0, 6)
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		buf = append(buf, letters[n.Int64()])
	}
	for i := 0; i < 2; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf = append(buf, byte('0'+n.Int64()))
	}
	return string(buf), nil
}
