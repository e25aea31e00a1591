package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const (
	MessageMovieNotFound = "Movie not found"
	MessageGenreNotFound = "Genre not found"
)

// Response is the envelope returned for every request. Only the payload
// key that belongs to the operation is set.
type Response struct {
	Status   int    `json:"status" example:"200"`
	Message  string `json:"message" example:"Movie retrieved successfully"`
	Movie    any    `json:"movie,omitempty"`
	Movies   any    `json:"movies,omitempty"`
	Genre    any    `json:"genre,omitempty"`
	Genres   any    `json:"genres,omitempty"`
	Snapshot any    `json:"snapshot,omitempty"`
}

// SuccessResponse builds a 200 envelope without payload.
func SuccessResponse(message string) Response {
	return Response{
		Status:  http.StatusOK,
		Message: message,
	}
}

// WithMovie attaches a single movie.
func (r Response) WithMovie(movie any) Response {
	r.Movie = movie
	return r
}

// WithMovies attaches a movie list. A nil list is sent as [].
func (r Response) WithMovies(movies any) Response {
	if movies == nil {
		movies = []any{}
	}
	r.Movies = movies
	return r
}

func (r Response) WithGenre(genre any) Response {
	r.Genre = genre
	return r
}

func (r Response) WithGenres(genres any) Response {
	if genres == nil {
		genres = []any{}
	}
	r.Genres = genres
	return r
}

func (r Response) WithSnapshot(snapshot any) Response {
	r.Snapshot = snapshot
	return r
}

// BadRequestResponse names the offending field.
func BadRequestResponse(field string) Response {
	return Response{
		Status:  http.StatusBadRequest,
		Message: "Bad Request: Invalid " + field,
	}
}

func NotFoundResponse(message string) Response {
	return Response{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// ServerErrorResponse carries the store's error text unchanged.
func ServerErrorResponse(err error) Response {
	return Response{
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// ErrorResponse builds an envelope for any other status.
func ErrorResponse(code int, message string) Response {
	return Response{
		Status:  code,
		Message: message,
	}
}

// Send writes the envelope with its status as the HTTP status.
func Send(c *fiber.Ctx, r Response) error {
	return c.Status(r.Status).JSON(r)
}
