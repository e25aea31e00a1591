package database

import (
	"context"
	"fmt"

	"movie-records/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResetSchema drops the movie, genre and join tables, recreates them and
// seeds the default genres. Every row stored before the call is lost.
func (d *Database) ResetSchema(ctx context.Context) error {
	logrus.Info("Resetting database schema...")

	db := d.DB.WithContext(ctx)

	// join table first so the foreign keys never dangle
	if err := db.Migrator().DropTable(&models.MovieGenre{}, &models.Movie{}, &models.Genre{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := migrate(db); err != nil {
		return err
	}

	if err := seedGenres(db, models.DefaultGenres); err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	logrus.WithField("genres", len(models.DefaultGenres)).Info("Database schema reset successfully")
	return nil
}

// EnsureSchema creates missing tables without touching existing rows.
func (d *Database) EnsureSchema(ctx context.Context) error {
	db := d.DB.WithContext(ctx)
	if err := migrate(db); err != nil {
		return err
	}
	return seedGenres(db, models.DefaultGenres)
}

func migrate(db *gorm.DB) error {
	logrus.Info("Running auto migration...")

	err := db.AutoMigrate(
		&models.Genre{},
		&models.Movie{},
		&models.MovieGenre{},
	)
	if err != nil {
		return fmt.Errorf("failed to run auto migration: %w", err)
	}

	logrus.Info("Auto migration completed successfully")
	return nil
}

func seedGenres(db *gorm.DB, names []string) error {
	for _, name := range names {
		genre := models.Genre{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&genre).Error; err != nil {
			return err
		}
	}
	return nil
}
