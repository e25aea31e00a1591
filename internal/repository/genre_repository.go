package repository

import (
	"errors"

	"movie-records/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenreRepository interface {
	FindByName(name string) (*models.Genre, error)
	FindByID(id uint) (*models.Genre, error)
	FindAll() ([]models.Genre, error)
	// InsertIfAbsent inserts the genre unless the name is already taken and
	// reports whether this call created the row.
	InsertIfAbsent(genre *models.Genre) (bool, error)
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository binds the repository to one store session.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) FindByName(name string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("name = ?", name).First(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("id = ?", id).First(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindAll() ([]models.Genre, error) {
	genres := []models.Genre{}
	err := r.db.Order("id").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) InsertIfAbsent(genre *models.Genre) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(genre)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
