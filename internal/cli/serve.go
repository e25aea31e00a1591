package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-records/internal/database"
	"movie-records/internal/dispatcher"
	"movie-records/internal/handlers"
	"movie-records/internal/models"
	"movie-records/internal/routes"
	"movie-records/internal/server"
	"movie-records/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	EnvelopeAddr string
	HTTPPort     string
	HTTP         bool
	KeepData     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}
	srvCfg := rootOpts.Config.Server

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the envelope server and the HTTP gateway",
		Long: `Start the TCP envelope server and, unless disabled, the HTTP gateway.

The store is reset on start-up unless --keep-data is given. With MinIO
enabled the catalog is uploaded as a snapshot before the reset.

Example:
  movie-records serve
  movie-records serve --addr :7777 --http=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.EnvelopeAddr, "addr", srvCfg.EnvelopeAddr, "TCP address of the envelope server")
	cmd.Flags().StringVar(&opts.HTTPPort, "http-port", srvCfg.HTTPPort, "port of the HTTP gateway")
	cmd.Flags().BoolVar(&opts.HTTP, "http", srvCfg.HTTPEnabled, "start the HTTP gateway")
	cmd.Flags().BoolVar(&opts.KeepData, "keep-data", !rootOpts.Config.Database.ResetOnStart, "keep existing rows instead of resetting the store")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := *opts.Config
	cfg.Server.EnvelopeAddr = opts.EnvelopeAddr
	cfg.Server.HTTPPort = opts.HTTPPort
	cfg.Server.HTTPEnabled = opts.HTTP
	cfg.Database.ResetOnStart = !opts.KeepData
	log := opts.Logger

	if err := cfg.Validate(); err != nil {
		log.Warnf("Configuration validation warning: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	log.WithFields(logrus.Fields{
		"atomic_writes": db.AtomicWrites(),
		"query_timeout": db.GetQueryTimeout().String(),
	}).Info("Store ready")

	genreService := services.NewGenreService(db, log)
	movieService := services.NewMovieService(db, genreService, log)

	var archive handlers.Snapshotter
	if cfg.MinIO.Enabled {
		archiveService, err := services.NewArchiveService(&cfg.MinIO, services.NewCatalogReader(movieService, genreService), log)
		if err != nil {
			log.WithError(err).Error("Snapshots disabled")
		} else {
			archive = archiveService
		}
	}

	if err := prepareSchema(ctx, db, archive, cfg.Database.ResetOnStart, log); err != nil {
		return err
	}

	d := dispatcher.New(movieService, genreService, log)
	srv := server.New(cfg.Server, d, log)

	errc := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, server.ErrServerClosed) {
			errc <- fmt.Errorf("envelope server: %w", err)
		}
	}()

	var app *fiber.App
	if cfg.Server.HTTPEnabled {
		app = newHTTPApp(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, db, d, archive, log)
		go func() {
			log.Infof("HTTP gateway starting on port %s", cfg.Server.HTTPPort)
			if err := app.Listen(":" + cfg.Server.HTTPPort); err != nil {
				errc <- fmt.Errorf("http gateway: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
		log.WithError(runErr).Error("Server stopped unexpectedly")
	}

	gracefulShutdown(srv, app, log)
	return runErr
}

// prepareSchema resets or migrates the store. A reset is preceded by a
// snapshot when an archive is configured and there is something to save.
func prepareSchema(ctx context.Context, db *database.Database, archive handlers.Snapshotter, reset bool, log *logrus.Logger) error {
	if !reset {
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	}

	if archive != nil && db.Migrator().HasTable(&models.Movie{}) {
		if _, err := archive.Snapshot(ctx); err != nil {
			log.WithError(err).Warn("Pre-reset snapshot failed, continuing with reset")
		}
	}

	if err := db.ResetSchema(ctx); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}

func newHTTPApp(readTimeout, writeTimeout time.Duration, db *database.Database, d *dispatcher.Dispatcher, archive handlers.Snapshotter, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Movie Records API",
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(log),
	})

	setupMiddleware(app)

	app.Get("/health", healthCheckHandler(db))

	// Swagger documentation
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	routes.Setup(app,
		handlers.NewMovieHandler(d, log),
		handlers.NewSnapshotHandler(archive, log),
	)
	return app
}

func setupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}))
}

func healthCheckHandler(db *database.Database) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		code := fiber.StatusOK
		if err := db.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    "ok",
			"service":   "movie-records",
			"version":   "1.0.0",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).Error("Request error")

		return c.Status(code).JSON(fiber.Map{
			"status":  code,
			"message": err.Error(),
		})
	}
}

func gracefulShutdown(srv *server.Server, app *fiber.App, log *logrus.Logger) {
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Error during envelope server shutdown: %v", err)
	}
	if app != nil {
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Errorf("Error during HTTP shutdown: %v", err)
		}
	}

	log.Info("Server shutdown complete")
}
