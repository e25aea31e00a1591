package routes

import (
	"movie-records/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, movieHandler *handlers.MovieHandler, snapshotHandler *handlers.SnapshotHandler) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Raw envelopes, same contract as the TCP server
	v1.Post("/envelope", movieHandler.HandleEnvelope)

	// Movie routes - fixed paths before /:id
	movies := v1.Group("/movies")
	{
		movies.Get("/", movieHandler.GetAllMovies)
		movies.Get("/detail", movieHandler.GetMovieDetails)
		movies.Get("/genre", movieHandler.GetMoviesByGenre)
		movies.Get("/:id", movieHandler.GetMovieByID)
		movies.Post("/", movieHandler.CreateMovie)
		movies.Put("/:id", movieHandler.UpdateMovie)
		movies.Delete("/:id", movieHandler.DeleteMovie)
	}

	genres := v1.Group("/genres")
	{
		genres.Get("/", movieHandler.GetAllGenres)
		genres.Get("/:id", movieHandler.GetGenreByID)
	}

	snapshots := v1.Group("/snapshots")
	{
		snapshots.Post("/", snapshotHandler.CreateSnapshot)
	}
}
