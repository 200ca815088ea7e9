package database

import (
	"fmt"
	"log/slog"

	"github.com/sbomfinder/sbomfinder/database/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDSN builds a PostgreSQL connection string from parameters
func getDSN(host, user, password, dbname, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

func NewConnection(host, user, password, dbname, port string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(getDSN(host, user, password, dbname, port)), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the uuid extension and automigrates the whole schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	slog.Info("running database migrations")
	return db.AutoMigrate(
		&models.Device{},
		&models.Sbom{},
		&models.Supplier{},
		&models.Vulnerability{},
		&models.SoftwarePackage{},
		&models.ExternalReference{},
		&models.SbomArchive{},
	)
}
