package database

import (
	"context"
	"fmt"
	"time"

	"movie-records/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
	config config.DatabaseConfig
}

func Connect(cfg config.DatabaseConfig) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Failed to get underlying sql.DB")
		return nil, fmt.Errorf("failed to get underlying sql.DB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		logrus.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	logrus.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"atomic": cfg.AtomicWrites,
	}).Info("Database connection established successfully")

	return &Database{
		DB:     db,
		config: cfg,
	}, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// WithConnection acquires one store connection, runs fn on it and releases it.
// With atomic writes enabled the whole of fn runs in a single transaction;
// otherwise every statement commits on its own.
func (d *Database) WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	db := d.DB.WithContext(ctx)
	if d.config.AtomicWrites {
		return db.Transaction(fn)
	}
	return db.Connection(func(tx *gorm.DB) error {
		return fn(tx.Session(&gorm.Session{NewDB: true}))
	})
}

func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d.config.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.config.QueryTimeout)
}

func (d *Database) AtomicWrites() bool {
	return d.config.AtomicWrites
}

func (d *Database) GetQueryTimeout() time.Duration {
	return d.config.QueryTimeout
}

func (d *Database) HealthCheck() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
