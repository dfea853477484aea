package database

import (
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/relieflink/relief-api-go/pkg/models"
)

var log = logrus.WithField("prefix", "database")

// InitDB initializes the database connection and migrates the schema.
// Uses postgres when DATABASE_URL is set, a local sqlite file otherwise.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "relief.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

// Migrate applies the schema for the two record sets and the admin table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.HelpRequest{},
		&models.Volunteer{},
		&models.AdminUser{},
	)
}
