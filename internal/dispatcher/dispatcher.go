// Package dispatcher routes validated requests to the movie and genre
// operations and turns their outcome into a response envelope.
package dispatcher

import (
	"context"
	"errors"
	"strings"

	"movie-records/internal/codec"
	"movie-records/internal/requests"
	"movie-records/internal/services"
	"movie-records/internal/utils"

	"github.com/sirupsen/logrus"
)

type Dispatcher struct {
	movies services.MovieService
	genres services.GenreService
	logger *logrus.Logger
}

func New(movies services.MovieService, genres services.GenreService, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		movies: movies,
		genres: genres,
		logger: logger,
	}
}

// Serve handles one raw message and returns the encoded reply.
func (d *Dispatcher) Serve(ctx context.Context, message []byte) []byte {
	resp := d.HandleMessage(ctx, message)

	data, err := codec.Encode(resp)
	if err != nil {
		d.logger.WithError(err).Error("Failed to encode response")
		data, _ = codec.Encode(utils.ServerErrorResponse(err))
	}
	return data
}

// HandleMessage decodes message and dispatches it.
func (d *Dispatcher) HandleMessage(ctx context.Context, message []byte) utils.Response {
	env, err := codec.Decode(message)
	if err != nil {
		d.logger.WithError(err).Debug("Rejected malformed envelope")
		return d.errorResponse(err)
	}
	return d.Handle(ctx, env)
}

// Handle validates an envelope and dispatches it.
func (d *Dispatcher) Handle(ctx context.Context, env *codec.Envelope) utils.Response {
	req, err := requests.Build(env)
	if err != nil {
		return d.errorResponse(err)
	}

	resp := d.Dispatch(ctx, req)
	entry := d.logger.WithFields(logrus.Fields{
		"method":   req.Verb,
		"resource": req.Resource,
		"status":   resp.Status,
	})
	if resp.Status >= 500 {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request handled")
	}
	return resp
}

// Dispatch runs the operation selected by verb and resource.
func (d *Dispatcher) Dispatch(ctx context.Context, req *requests.Request) utils.Response {
	switch req.Verb {
	case requests.VerbDelete:
		return d.deleteMovie(ctx, requests.ParseID(req.Resource, requests.MovieResourcePrefix))
	case requests.VerbPost:
		return d.createMovie(ctx, req)
	case requests.VerbPut:
		return d.updateMovie(ctx, requests.ParseID(req.Resource, requests.MovieResourcePrefix), req)
	case requests.VerbGet:
		return d.dispatchRead(ctx, req)
	default:
		return utils.BadRequestResponse("method")
	}
}

func (d *Dispatcher) dispatchRead(ctx context.Context, req *requests.Request) utils.Response {
	switch {
	case req.Resource == requests.ResourceMovies:
		summaries, err := d.movies.ListSummaries(ctx)
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Movies retrieved successfully").WithMovies(summaries)

	case req.Resource == requests.ResourceMovieDetail:
		records, err := d.movies.ListDetailed(ctx)
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Movies retrieved successfully").WithMovies(records)

	case req.Resource == requests.ResourceMoviesGenre:
		records, err := d.movies.ListByGenre(ctx, req.Query)
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Movies retrieved successfully").WithMovies(records)

	case req.Resource == requests.ResourceGenres:
		genres, err := d.genres.ListGenres(ctx)
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Genres retrieved successfully").WithGenres(genres)

	case strings.HasPrefix(req.Resource, requests.GenreResourcePrefix):
		genre, err := d.genres.GetGenreByID(ctx, requests.ParseID(req.Resource, requests.GenreResourcePrefix))
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Genre retrieved successfully").WithGenre(genre)

	default:
		record, err := d.movies.GetMovieByID(ctx, requests.ParseID(req.Resource, requests.MovieResourcePrefix))
		if err != nil {
			return d.errorResponse(err)
		}
		return utils.SuccessResponse("Movie retrieved successfully").WithMovie(record)
	}
}

func (d *Dispatcher) createMovie(ctx context.Context, req *requests.Request) utils.Response {
	record, err := d.movies.CreateMovie(ctx, req.Input())
	if err != nil {
		return d.errorResponse(err)
	}
	return utils.SuccessResponse("Movie created successfully").WithMovie(record)
}

func (d *Dispatcher) updateMovie(ctx context.Context, id uint, req *requests.Request) utils.Response {
	record, err := d.movies.UpdateMovie(ctx, id, req.Input())
	if err != nil {
		return d.errorResponse(err)
	}
	return utils.SuccessResponse("Movie updated successfully").WithMovie(record)
}

func (d *Dispatcher) deleteMovie(ctx context.Context, id uint) utils.Response {
	if err := d.movies.DeleteMovie(ctx, id); err != nil {
		return d.errorResponse(err)
	}
	return utils.SuccessResponse("Movie deleted successfully")
}

func (d *Dispatcher) errorResponse(err error) utils.Response {
	var (
		parseErr      *codec.ParseError
		validationErr *requests.ValidationError
	)
	switch {
	case errors.As(err, &parseErr):
		return utils.BadRequestResponse("JSON")
	case errors.As(err, &validationErr):
		return utils.BadRequestResponse(validationErr.Field)
	case errors.Is(err, services.ErrMovieNotFound):
		return utils.NotFoundResponse(utils.MessageMovieNotFound)
	case errors.Is(err, services.ErrGenreNotFound):
		return utils.NotFoundResponse(utils.MessageGenreNotFound)
	default:
		d.logger.WithError(err).Error("Store operation failed")
		return utils.ServerErrorResponse(err)
	}
}
