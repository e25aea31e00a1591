package main

import (
	"os"
	"path/filepath"
	"time"

	_ "movie-records/docs"
	"movie-records/internal/cli"
	"movie-records/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Movie Records API
// @version 1.0
// @description HTTP gateway to the movie records envelope service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8010
// @BasePath /api/v1
// @schemes http https

func main() {
	// Load environment variables
	loadEnvFile()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	log := setupLogger()

	if err := cli.NewRootCommand(cfg, log).Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func loadEnvFile() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stderr)

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	execDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not get working directory: %v", err)
		return
	}

	envFile := filepath.Join(execDir, "envs", ".env."+env)
	if err := godotenv.Load(envFile); err != nil {
		log.Debugf("Could not load environment file %s: %v", envFile, err)

		defaultEnvFile := filepath.Join(execDir, "envs", ".env")
		if err := godotenv.Load(defaultEnvFile); err != nil {
			log.Debugf("Could not load default environment file: %v", err)
		} else {
			log.Infof("Environment loaded from default file %s", defaultEnvFile)
		}
	} else {
		log.Infof("Environment loaded from file %s", envFile)
	}
}
