package models

// MovieInput carries the validated fields of a create or update request.
type MovieInput struct {
	Title       string
	Director    string
	ReleaseYear int
	Genres      []string
}
