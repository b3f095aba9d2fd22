package Models

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the shared handle wired at startup. Store operations take the
// handle as a parameter; this global exists for route wiring and the
// handful of legacy handlers that live in this package.
var DB *gorm.DB

// Connect opens the configured database and runs migrations. With DB_HOST
// set it targets the hosted postgres instance, otherwise it falls back to a
// local sqlite file for development.
func Connect() *gorm.DB {
	var (
		connection *gorm.DB
		err        error
	)

	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			host,
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			envOr("DB_PORT", "5432"),
			envOr("DB_SSLMODE", "require"),
		)
		connection, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		connection, err = gorm.Open(sqlite.Open(envOr("DB_FILE", "verdant.db")), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(connection); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	DB = connection
	return connection
}

// Migrate creates or updates the schema. Ordered so foreign keys resolve:
// base tables first, then tables that reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&FCMToken{},
		&Client{},
	); err != nil {
		return err
	}
	return db.AutoMigrate(
		&Contract{},
		&WasteIntake{},
		&DeliveryRecord{},
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
