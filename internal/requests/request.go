package requests

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"movie-records/internal/codec"
	"movie-records/internal/models"
)

type Verb string

const (
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbDelete Verb = "DELETE"
)

// MaxGenres caps how many genre names one request may carry.
const MaxGenres = 10

const (
	ResourceMovies       = "/movies"
	ResourceMovieDetail  = "/movies/detail"
	ResourceMoviesGenre  = "/movies/genre"
	ResourceGenres       = "/genres"
	MovieResourcePrefix  = "/movies/"
	GenreResourcePrefix  = "/genres/"
	fieldMethod          = "method"
	fieldResource        = "resource"
	fieldBodyTitle       = "body.title"
	fieldBodyDirector    = "body.director"
	fieldBodyReleaseYear = "body.release_year"
	fieldBodyGenre       = "body.genre"
	fieldBodyQuery       = "body.query"
)

// Request is one validated client request.
type Request struct {
	Verb        Verb
	Resource    string
	Query       string
	Title       string
	Director    string
	ReleaseYear int
	Genres      []string
}

// ValidationError names the first field that was missing or mistyped.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

func invalid(field string) error {
	return &ValidationError{Field: field}
}

// Build type-checks an envelope field by field.
func Build(env *codec.Envelope) (*Request, error) {
	method, ok := env.Method.(string)
	if !ok {
		return nil, invalid(fieldMethod)
	}
	verb := Verb(method)
	switch verb {
	case VerbGet, VerbPost, VerbPut, VerbDelete:
	default:
		return nil, invalid(fieldMethod)
	}

	resource, ok := env.Resource.(string)
	if !ok {
		return nil, invalid(fieldResource)
	}

	req := &Request{
		Verb:     verb,
		Resource: resource,
	}

	body, _ := env.Body.(map[string]any)

	switch {
	case verb == VerbPost || verb == VerbPut:
		if err := req.readMovieFields(body); err != nil {
			return nil, err
		}
	case verb == VerbGet && resource == ResourceMoviesGenre:
		query, ok := body["query"].(string)
		if !ok {
			return nil, invalid(fieldBodyQuery)
		}
		req.Query = query
	}

	return req, nil
}

func (r *Request) readMovieFields(body map[string]any) error {
	title, ok := body["title"].(string)
	if !ok {
		return invalid(fieldBodyTitle)
	}
	director, ok := body["director"].(string)
	if !ok {
		return invalid(fieldBodyDirector)
	}
	year, ok := toInt(body["release_year"])
	if !ok {
		return invalid(fieldBodyReleaseYear)
	}
	genres, ok := body["genre"].([]any)
	if !ok {
		return invalid(fieldBodyGenre)
	}

	r.Title = title
	r.Director = director
	r.ReleaseYear = year
	r.Genres = collectGenres(genres)
	return nil
}

// collectGenres keeps non-empty string entries only, stops after MaxGenres of
// them and drops repeated names. An empty name could not be told apart from
// "no genres" in the aggregated column.
func collectGenres(entries []any) []string {
	genres := make([]string, 0, MaxGenres)
	seen := make(map[string]struct{}, MaxGenres)
	count := 0
	for _, entry := range entries {
		if count >= MaxGenres {
			break
		}
		name, ok := entry.(string)
		if !ok || name == "" {
			continue
		}
		count++
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		genres = append(genres, name)
	}
	return genres
}

func toInt(node any) (int, bool) {
	number, ok := node.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := number.Int64(); err == nil {
		return int(i), true
	}
	f, err := number.Float64()
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// Input returns the movie fields of a create or update request.
func (r *Request) Input() models.MovieInput {
	return models.MovieInput{
		Title:       r.Title,
		Director:    r.Director,
		ReleaseYear: r.ReleaseYear,
		Genres:      r.Genres,
	}
}

// ParseID strips prefix from resource and parses the rest as an id.
// Anything that is not a positive integer yields 0.
func ParseID(resource, prefix string) uint {
	rest := strings.TrimPrefix(resource, prefix)
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
