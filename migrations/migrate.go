package main

import (
	"context"
	"log"
	"os"

	"finance/src/config"
	"finance/src/database"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Applies the embedded schema migrations without starting the server, for
// deployments that run with databases.sql.autoMigrate disabled.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}
	if cfg.Databases.SQL.Driver != config.PostgresDriver {
		log.Fatalf("Migrations need the postgres driver, got %q", cfg.Databases.SQL.Driver)
	}

	db, err := gorm.Open(postgres.Open(cfg.Databases.SQL.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB from GORM DB: %v", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(context.Background(), sqlDB); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Database migration completed successfully")
}
