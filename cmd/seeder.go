package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default admin account",
	Long:  `Ensures the protected default admin account exists. With --clear, wipes all data first.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			tables := []string{
				"assignment_answers", "test_assignments", "test_options", "test_questions", "tests",
				"training_progress", "trainings", "documents", "messages",
				"job_applications", "jobs", "complaints", "users",
			}
			for _, table := range tables {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		adminEmail := cfg.Security.DefaultAdminEmail
		adminPassword := cfg.Security.DefaultAdminPassword
		if adminPassword == "" {
			log.Fatal("default_admin_password must be set to seed the admin account")
		}

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("default admin already exists:", adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := db.Exec(
			"INSERT INTO users (first_name, last_name, email, password_hash, role, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'admin', 'active', now(), now())",
			"Default", "Admin", adminEmail, string(hash)).Error; err != nil {
			log.Fatalf("failed to insert default admin: %v", err)
		}
		fmt.Println("Seeded default admin:", adminEmail)
	},
}
