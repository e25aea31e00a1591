package repository

import (
	"iter"
	"strings"

	"movie-records/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenreSeparator joins genre names inside the aggregated column.
const GenreSeparator = ","

type MovieRepository interface {
	// Write operations
	Create(movie *models.Movie) error
	UpdateScalars(movie *models.Movie) (int64, error)
	Delete(id uint) error
	AddGenre(movieID, genreID uint, position int) error
	ClearGenres(movieID uint) error

	// Row streams
	Summaries() iter.Seq2[models.MovieSummary, error]
	Details(filter DetailFilter) iter.Seq2[models.MovieGenreRow, error]
}

// DetailFilter narrows the grouped movie/genre query.
type DetailFilter struct {
	MovieID uint
	Genre   string
	// IncludeUngenred switches to a left join so movies without genres
	// still produce a row with an empty aggregate.
	IncludeUngenred bool
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository binds the repository to one store session.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

func (r *movieRepository) UpdateScalars(movie *models.Movie) (int64, error) {
	result := r.db.Model(&models.Movie{}).
		Where("id = ?", movie.ID).
		Updates(map[string]any{
			"title":        movie.Title,
			"director":     movie.Director,
			"release_year": movie.ReleaseYear,
		})
	return result.RowsAffected, result.Error
}

func (r *movieRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.Movie{}).Error
}

func (r *movieRepository) AddGenre(movieID, genreID uint, position int) error {
	link := models.MovieGenre{
		MovieID:  movieID,
		GenreID:  genreID,
		Position: position,
	}
	return r.db.Omit(clause.Associations).Create(&link).Error
}

func (r *movieRepository) ClearGenres(movieID uint) error {
	return r.db.Where("movie_id = ?", movieID).Delete(&models.MovieGenre{}).Error
}

func (r *movieRepository) Summaries() iter.Seq2[models.MovieSummary, error] {
	return func(yield func(models.MovieSummary, error) bool) {
		rows, err := r.db.Model(&models.Movie{}).Select("id", "title").Order("id").Rows()
		if err != nil {
			yield(models.MovieSummary{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var summary models.MovieSummary
			if err := rows.Scan(&summary.ID, &summary.Title); err != nil {
				yield(models.MovieSummary{}, err)
				return
			}
			if !yield(summary, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.MovieSummary{}, err)
		}
	}
}

func (r *movieRepository) Details(filter DetailFilter) iter.Seq2[models.MovieGenreRow, error] {
	return func(yield func(models.MovieGenreRow, error) bool) {
		query, args := r.detailQuery(filter)
		rows, err := r.db.Raw(query, args...).Rows()
		if err != nil {
			yield(models.MovieGenreRow{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row models.MovieGenreRow
			if err := rows.Scan(&row.ID, &row.Title, &row.Director, &row.ReleaseYear, &row.GenreNames); err != nil {
				yield(models.MovieGenreRow{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.MovieGenreRow{}, err)
		}
	}
}

func (r *movieRepository) detailQuery(filter DetailFilter) (string, []any) {
	join := "JOIN"
	if filter.IncludeUngenred {
		join = "LEFT JOIN"
	}

	var sb strings.Builder
	sb.WriteString("SELECT m.id, m.title, m.director, m.release_year, ")
	sb.WriteString("COALESCE(" + r.genreAggregate() + ", '') AS genre_names ")
	sb.WriteString("FROM movies m ")
	sb.WriteString(join + " movie_genres mg ON mg.movie_id = m.id ")
	sb.WriteString(join + " genres g ON g.id = mg.genre_id ")

	var (
		conditions []string
		args       []any
	)
	if filter.MovieID != 0 {
		conditions = append(conditions, "m.id = ?")
		args = append(args, filter.MovieID)
	}
	if filter.Genre != "" {
		conditions = append(conditions, "m.id IN (SELECT fmg.movie_id FROM movie_genres fmg JOIN genres fg ON fg.id = fmg.genre_id WHERE fg.name = ?)")
		args = append(args, filter.Genre)
	}
	if len(conditions) > 0 {
		sb.WriteString("WHERE " + strings.Join(conditions, " AND ") + " ")
	}

	sb.WriteString("GROUP BY m.id, m.title, m.director, m.release_year ORDER BY m.id")
	return sb.String(), args
}

func (r *movieRepository) genreAggregate() string {
	if r.db.Dialector.Name() == "postgres" {
		return "STRING_AGG(g.name, '" + GenreSeparator + "' ORDER BY mg.position)"
	}
	return "GROUP_CONCAT(g.name, '" + GenreSeparator + "' ORDER BY mg.position)"
}

// SplitGenres undoes the aggregation performed by the detail query.
func SplitGenres(aggregate string) []string {
	if aggregate == "" {
		return []string{}
	}
	return strings.Split(aggregate, GenreSeparator)
}
