package handlers

import (
	"context"

	"movie-records/internal/codec"
	"movie-records/internal/requests"
	"movie-records/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// EnvelopeHandler is the dispatcher as seen from HTTP.
type EnvelopeHandler interface {
	Handle(ctx context.Context, env *codec.Envelope) utils.Response
	HandleMessage(ctx context.Context, message []byte) utils.Response
}

type MovieHandler struct {
	dispatcher EnvelopeHandler
	logger     *logrus.Logger
}

func NewMovieHandler(dispatcher EnvelopeHandler, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *MovieHandler) dispatch(c *fiber.Ctx, verb requests.Verb, resource string, body any) error {
	resp := h.dispatcher.Handle(c.Context(), &codec.Envelope{
		Method:   string(verb),
		Resource: resource,
		Body:     body,
	})
	return utils.Send(c, resp)
}

// HandleEnvelope godoc
// @Summary Send a raw envelope
// @Description Dispatch a request envelope exactly as the TCP server would
// @Tags envelope
// @Accept json
// @Produce json
// @Param envelope body EnvelopeRequest true "Request envelope"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /envelope [post]
func (h *MovieHandler) HandleEnvelope(c *fiber.Ctx) error {
	return utils.Send(c, h.dispatcher.HandleMessage(c.Context(), c.Body()))
}

// GetAllMovies godoc
// @Summary List movies
// @Description List every movie as id and title
// @Tags movies
// @Produce json
// @Success 200 {object} utils.Response "Movies retrieved successfully"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies [get]
func (h *MovieHandler) GetAllMovies(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbGet, requests.ResourceMovies, nil)
}

// GetMovieDetails godoc
// @Summary List movies with genres
// @Description List every movie that has at least one genre, with all fields
// @Tags movies
// @Produce json
// @Success 200 {object} utils.Response "Movies retrieved successfully"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies/detail [get]
func (h *MovieHandler) GetMovieDetails(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbGet, requests.ResourceMovieDetail, nil)
}

// GetMoviesByGenre godoc
// @Summary List movies of a genre
// @Tags movies
// @Produce json
// @Param query query string true "Genre name"
// @Success 200 {object} utils.Response "Movies retrieved successfully"
// @Failure 400 {object} utils.Response "Bad Request: Invalid body.query"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies/genre [get]
func (h *MovieHandler) GetMoviesByGenre(c *fiber.Ctx) error {
	body := map[string]any{}
	if c.Context().QueryArgs().Has("query") {
		body["query"] = c.Query("query")
	}
	return h.dispatch(c, requests.VerbGet, requests.ResourceMoviesGenre, body)
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.Response "Movie retrieved successfully"
// @Failure 404 {object} utils.Response "Movie not found"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbGet, requests.MovieResourcePrefix+c.Params("id"), nil)
}

// CreateMovie godoc
// @Summary Create a movie
// @Description Create a movie and link its genres, creating unknown genres on the way
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body MovieRequest true "Movie"
// @Success 200 {object} utils.Response "Movie created successfully"
// @Failure 400 {object} utils.Response "Invalid field"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	body, err := codec.DecodeValue(c.Body())
	if err != nil {
		h.logger.WithError(err).Debug("Rejected movie body")
		return utils.Send(c, utils.BadRequestResponse("JSON"))
	}
	return h.dispatch(c, requests.VerbPost, requests.ResourceMovies, body)
}

// UpdateMovie godoc
// @Summary Update a movie
// @Description Replace the fields and the genre list of a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param movie body MovieRequest true "Movie"
// @Success 200 {object} utils.Response "Movie updated successfully"
// @Failure 400 {object} utils.Response "Invalid field"
// @Failure 404 {object} utils.Response "Movie not found"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	body, err := codec.DecodeValue(c.Body())
	if err != nil {
		h.logger.WithError(err).Debug("Rejected movie body")
		return utils.Send(c, utils.BadRequestResponse("JSON"))
	}
	return h.dispatch(c, requests.VerbPut, requests.MovieResourcePrefix+c.Params("id"), body)
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Description Delete a movie and its genre links. Unknown ids succeed too.
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.Response "Movie deleted successfully"
// @Failure 500 {object} utils.Response "Store error"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbDelete, requests.MovieResourcePrefix+c.Params("id"), nil)
}

// GetAllGenres godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {object} utils.Response "Genres retrieved successfully"
// @Router /genres [get]
func (h *MovieHandler) GetAllGenres(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbGet, requests.ResourceGenres, nil)
}

// GetGenreByID godoc
// @Summary Get genre by ID
// @Tags genres
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {object} utils.Response "Genre retrieved successfully"
// @Failure 404 {object} utils.Response "Genre not found"
// @Router /genres/{id} [get]
func (h *MovieHandler) GetGenreByID(c *fiber.Ctx) error {
	return h.dispatch(c, requests.VerbGet, requests.GenreResourcePrefix+c.Params("id"), nil)
}
