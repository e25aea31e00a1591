package services

import (
	"context"
	"iter"

	"movie-records/internal/database"
	"movie-records/internal/models"
	"movie-records/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MovieService interface {
	// CRUD operations
	CreateMovie(ctx context.Context, input models.MovieInput) (*models.MovieRecord, error)
	UpdateMovie(ctx context.Context, id uint, input models.MovieInput) (*models.MovieRecord, error)
	DeleteMovie(ctx context.Context, id uint) error
	GetMovieByID(ctx context.Context, id uint) (*models.MovieRecord, error)

	// Listings
	ListSummaries(ctx context.Context) ([]models.MovieSummary, error)
	ListDetailed(ctx context.Context) ([]models.MovieRecord, error)
	ListByGenre(ctx context.Context, genre string) ([]models.MovieRecord, error)
	ExportMovies(ctx context.Context) ([]models.MovieRecord, error)
}

type movieService struct {
	db       *database.Database
	resolver GenreResolver
	logger   *logrus.Logger
}

func NewMovieService(db *database.Database, resolver GenreResolver, logger *logrus.Logger) MovieService {
	return &movieService{
		db:       db,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *movieService) CreateMovie(ctx context.Context, input models.MovieInput) (*models.MovieRecord, error) {
	var record *models.MovieRecord

	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		movies := repository.NewMovieRepository(tx)

		movie := &models.Movie{
			Title:       input.Title,
			Director:    input.Director,
			ReleaseYear: input.ReleaseYear,
		}
		if err := movies.Create(movie); err != nil {
			return storeError("insert movie", err)
		}

		if err := s.attachGenres(movies, repository.NewGenreRepository(tx), movie.ID, input.Genres); err != nil {
			return err
		}

		record = &models.MovieRecord{
			ID:          movie.ID,
			Title:       movie.Title,
			Director:    movie.Director,
			ReleaseYear: movie.ReleaseYear,
			Genres:      append([]string{}, input.Genres...),
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("title", input.Title).Error("Failed to create movie")
		return nil, storeError("create movie", err)
	}

	s.logger.WithFields(logrus.Fields{"id": record.ID, "genres": len(record.Genres)}).Info("Movie created")
	return record, nil
}

// attachGenres links each name in order. A failure stops the loop; links made
// before it stay unless the session is atomic.
func (s *movieService) attachGenres(movies repository.MovieRepository, genres repository.GenreRepository, movieID uint, names []string) error {
	for position, name := range names {
		genreID, err := s.resolver.ResolveIn(genres, name)
		if err != nil {
			return storeError("resolve genre", err)
		}
		if err := movies.AddGenre(movieID, genreID, position); err != nil {
			return storeError("insert movie genre", err)
		}
	}
	return nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id uint, input models.MovieInput) (*models.MovieRecord, error) {
	if id == 0 {
		return nil, ErrMovieNotFound
	}

	var record *models.MovieRecord

	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		movies := repository.NewMovieRepository(tx)

		affected, err := movies.UpdateScalars(&models.Movie{
			ID:          id,
			Title:       input.Title,
			Director:    input.Director,
			ReleaseYear: input.ReleaseYear,
		})
		if err != nil {
			return storeError("update movie", err)
		}

		// Nothing matched: leave the join table alone and let the read
		// below report the absence.
		if affected > 0 {
			if err := movies.ClearGenres(id); err != nil {
				return storeError("clear movie genres", err)
			}
			if err := s.attachGenres(movies, repository.NewGenreRepository(tx), id, input.Genres); err != nil {
				return err
			}
		}

		record, err = findRecord(movies, id)
		return err
	})
	if err != nil {
		return nil, storeError("update movie", err)
	}
	return record, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uint) error {
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		movies := repository.NewMovieRepository(tx)
		if err := movies.ClearGenres(id); err != nil {
			return storeError("clear movie genres", err)
		}
		if err := movies.Delete(id); err != nil {
			return storeError("delete movie", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to delete movie")
		return storeError("delete movie", err)
	}
	return nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id uint) (*models.MovieRecord, error) {
	if id == 0 {
		return nil, ErrMovieNotFound
	}

	var record *models.MovieRecord
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		record, err = findRecord(repository.NewMovieRepository(tx), id)
		return err
	})
	if err != nil {
		return nil, storeError("get movie", err)
	}
	return record, nil
}

func (s *movieService) ListSummaries(ctx context.Context) ([]models.MovieSummary, error) {
	var summaries []models.MovieSummary
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		summaries, err = Collect(repository.NewMovieRepository(tx).Summaries())
		return err
	})
	if err != nil {
		return nil, storeError("list movies", err)
	}
	return summaries, nil
}

func (s *movieService) ListDetailed(ctx context.Context) ([]models.MovieRecord, error) {
	return s.listRecords(ctx, "list movie details", repository.DetailFilter{})
}

func (s *movieService) ListByGenre(ctx context.Context, genre string) ([]models.MovieRecord, error) {
	if genre == "" {
		return []models.MovieRecord{}, nil
	}
	return s.listRecords(ctx, "list movies by genre", repository.DetailFilter{Genre: genre})
}

// ExportMovies returns every movie, including those without genres.
func (s *movieService) ExportMovies(ctx context.Context) ([]models.MovieRecord, error) {
	return s.listRecords(ctx, "export movies", repository.DetailFilter{IncludeUngenred: true})
}

func (s *movieService) listRecords(ctx context.Context, op string, filter repository.DetailFilter) ([]models.MovieRecord, error) {
	var records []models.MovieRecord
	err := s.db.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		records, err = FoldRecords(repository.NewMovieRepository(tx).Details(filter))
		return err
	})
	if err != nil {
		return nil, storeError(op, err)
	}
	return records, nil
}

// findRecord reads one movie. Id 0 is never stored and would otherwise
// leave the detail query unfiltered.
func findRecord(movies repository.MovieRepository, id uint) (*models.MovieRecord, error) {
	if id == 0 {
		return nil, ErrMovieNotFound
	}
	records, err := FoldRecords(movies.Details(repository.DetailFilter{MovieID: id, IncludeUngenred: true}))
	if err != nil {
		return nil, storeError("read movie", err)
	}
	if len(records) == 0 {
		return nil, ErrMovieNotFound
	}
	return &records[0], nil
}

// FoldRecords drains grouped rows into records, one per row, splitting the
// aggregated genre column back into names.
func FoldRecords(rows iter.Seq2[models.MovieGenreRow, error]) ([]models.MovieRecord, error) {
	records := []models.MovieRecord{}
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		records = append(records, models.MovieRecord{
			ID:          row.ID,
			Title:       row.Title,
			Director:    row.Director,
			ReleaseYear: row.ReleaseYear,
			Genres:      repository.SplitGenres(row.GenreNames),
		})
	}
	return records, nil
}

// Collect drains a row stream into a non-nil slice.
func Collect[T any](rows iter.Seq2[T, error]) ([]T, error) {
	items := []T{}
	for item, err := range rows {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
