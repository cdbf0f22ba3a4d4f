package data

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// User holds one visitor's saved dashboard preferences.
type User struct {
	gorm.Model
	Name    string
	Station string
	// MaxLow and MinHigh bound which tides count as shore windows, in
	// metres. Nil leaves the dashboard defaults in charge.
	MaxLow, MinHigh *float64
	LastSeen        time.Time
}

// PostgresFromEnv connects to the preferences database described by
// the PG* environment variables and migrates the schema. The dashboard
// treats failure as "run without saved preferences", so the error is
// returned rather than fatal.
func PostgresFromEnv() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=tidedash port=%s sslmode=disable TimeZone=Europe/London",
		os.Getenv("PGHOST"),
		os.Getenv("PGPASSWORD"),
		os.Getenv("PGPORT"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to preferences database: %w", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("migrate preferences database: %w", err)
	}
	return db, nil
}
