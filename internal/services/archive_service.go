package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"movie-records/internal/config"
	"movie-records/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ObjectStore is the part of the MinIO client the archive needs.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// CatalogReader supplies the rows that go into a snapshot.
type CatalogReader interface {
	ExportMovies(ctx context.Context) ([]models.MovieRecord, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

type SnapshotInfo struct {
	Bucket string `json:"bucket" example:"movie-snapshots"`
	Object string `json:"object" example:"snapshots/20240101T000000Z_1a2b3c4d.json"`
	Size   int64  `json:"size" example:"512"`
	Movies int    `json:"movies" example:"3"`
}

// ArchiveService uploads catalog snapshots to object storage.
type ArchiveService struct {
	client  ObjectStore
	bucket  string
	region  string
	catalog CatalogReader
	logger  *logrus.Logger
	now     func() time.Time
}

func NewArchiveService(cfg *config.MinIOConfig, catalog CatalogReader, logger *logrus.Logger) (*ArchiveService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	return newArchiveService(minioClient, cfg.BucketName, cfg.Region, catalog, logger), nil
}

func newArchiveService(client ObjectStore, bucket, region string, catalog CatalogReader, logger *logrus.Logger) *ArchiveService {
	return &ArchiveService{
		client:  client,
		bucket:  bucket,
		region:  region,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ArchiveService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}
	return nil
}

// Snapshot exports the whole catalog as one JSON object in the bucket.
func (s *ArchiveService) Snapshot(ctx context.Context) (*SnapshotInfo, error) {
	movies, err := s.catalog.ExportMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export movies: %w", err)
	}
	genres, err := s.catalog.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export genres: %w", err)
	}

	takenAt := s.now().UTC()
	payload, err := json.MarshalIndent(models.CatalogSnapshot{
		TakenAt: takenAt.Format(time.RFC3339),
		Movies:  movies,
		Genres:  genres,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("snapshots/%s_%s.json", takenAt.Format("20060102T150405Z"), uuid.New().String()[:8])
	info, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		s.logger.WithError(err).WithField("object", objectName).Error("Failed to upload snapshot")
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"object": objectName,
		"movies": len(movies),
		"size":   info.Size,
	}).Info("Catalog snapshot uploaded")

	return &SnapshotInfo{
		Bucket: s.bucket,
		Object: objectName,
		Size:   int64(len(payload)),
		Movies: len(movies),
	}, nil
}

type catalogReader struct {
	MovieService
	GenreService
}

// NewCatalogReader combines the movie and genre services for snapshots.
func NewCatalogReader(movies MovieService, genres GenreService) CatalogReader {
	return catalogReader{MovieService: movies, GenreService: genres}
}
