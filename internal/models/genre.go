package models

type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id" example:"2"`
	Name string `gorm:"uniqueIndex;not null" json:"name" example:"Sci-fi"`
}

func (Genre) TableName() string {
	return "genres"
}

// MovieGenre links one movie to one genre. The pair is the whole identity.
type MovieGenre struct {
	MovieID  uint  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID  uint  `gorm:"primaryKey;autoIncrement:false;index" json:"genre_id"`
	Position int   `gorm:"not null" json:"position"` // order within the request's genre list
	Movie    Movie `gorm:"foreignKey:MovieID;references:ID" json:"-"`
	Genre    Genre `gorm:"foreignKey:GenreID;references:ID" json:"-"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}

// DefaultGenres are seeded on every schema reset.
var DefaultGenres = []string{
	"Action",
	"Sci-fi",
	"Fantasy",
	"Suspense",
	"Comedy",
	"Drama",
	"Historical Drama",
	"Horror",
}
