package services

import (
	"context"

	"movie-records/internal/database"
	"movie-records/internal/models"
	"movie-records/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GenreResolver maps a genre name onto its id inside an open store session,
// creating the genre when the name has never been seen.
type GenreResolver interface {
	ResolveIn(genres repository.GenreRepository, name string) (uint, error)
}

type GenreService interface {
	GenreResolver
	Resolve(ctx context.Context, name string) (uint, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenreByID(ctx context.Context, id uint) (*models.Genre, error)
}

type genreService struct {
	db     *database.Database
	logger *logrus.Logger
}

func NewGenreService(db *database.Database, logger *logrus.Logger) GenreService {
	return &genreService{
		db:     db,
		logger: logger,
	}
}

func (s *genreService) ResolveIn(genres repository.GenreRepository, name string) (uint, error) {
	existing, err := genres.FindByName(name)
	if err != nil {
		return 0, storeError("find genre", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	genre := &models.Genre{Name: name}
	created, insertErr := genres.InsertIfAbsent(genre)
	if insertErr == nil && created && genre.ID != 0 {
		s.logger.WithFields(logrus.Fields{"genre": name, "id": genre.ID}).Debug("Genre created")
		return genre.ID, nil
	}

	// Another session inserted the same name first; the row is there now.
	existing, err = genres.FindByName(name)
	if err != nil {
		return 0, storeError("find genre", err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	if insertErr != nil {
		return 0, storeError("insert genre", insertErr)
	}
	return 0, ErrGenreNotFound
}

// Resolve is the standalone lookup-or-create on its own connection.
func (s *genreService) Resolve(ctx context.Context, name string) (uint, error) {
	var id uint
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		id, err = s.ResolveIn(repository.NewGenreRepository(tx), name)
		return err
	})
	if err != nil {
		return 0, storeError("resolve genre", err)
	}
	return id, nil
}

func (s *genreService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		genres, err = repository.NewGenreRepository(tx).FindAll()
		return err
	})
	if err != nil {
		return nil, storeError("list genres", err)
	}
	return genres, nil
}

func (s *genreService) GetGenreByID(ctx context.Context, id uint) (*models.Genre, error) {
	if id == 0 {
		return nil, ErrGenreNotFound
	}

	var genre *models.Genre
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		genre, err = repository.NewGenreRepository(tx).FindByID(id)
		return err
	})
	if err != nil {
		return nil, storeError("get genre", err)
	}
	if genre == nil {
		return nil, ErrGenreNotFound
	}
	return genre, nil
}
