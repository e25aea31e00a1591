package models

type Movie struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id" example:"1"`
	Title       string `gorm:"uniqueIndex;not null" json:"title" example:"Blade Runner"`
	Director    string `gorm:"not null" json:"director" example:"Ridley Scott"`
	ReleaseYear int    `gorm:"not null" json:"release_year" example:"1982"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieSummary is the row shape of the summary listing.
type MovieSummary struct {
	ID    uint   `json:"id" example:"1"`
	Title string `json:"title" example:"Blade Runner"`
}

// MovieRecord is a movie together with its genre names in insertion order.
type MovieRecord struct {
	ID          uint     `json:"id" example:"1"`
	Title       string   `json:"title" example:"Blade Runner"`
	Director    string   `json:"director" example:"Ridley Scott"`
	ReleaseYear int      `json:"release_year" example:"1982"`
	Genres      []string `json:"genre" example:"Sci-fi,Suspense"`
}

// MovieGenreRow is one grouped row of the movie/genre join, with the genre
// names still packed into a single aggregate string.
type MovieGenreRow struct {
	ID          uint
	Title       string
	Director    string
	ReleaseYear int
	GenreNames  string
}

// CatalogSnapshot is the document uploaded before a schema reset.
type CatalogSnapshot struct {
	TakenAt string        `json:"taken_at" example:"2024-01-01T00:00:00Z"`
	Movies  []MovieRecord `json:"movies"`
	Genres  []Genre       `json:"genres"`
}
