package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"movie-records/internal/config"
	"movie-records/internal/models"
	"movie-records/internal/testutil"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	exists      bool
	madeBuckets []string
	objects     map[string][]byte
	contentType string
	putErr      error
}

func (f *fakeObjectStore) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeObjectStore) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.madeBuckets = append(f.madeBuckets, bucketName)
	f.exists = true
	return nil
}

func (f *fakeObjectStore) PutObject(_ context.Context, _, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[objectName] = data
	f.contentType = opts.ContentType
	return minio.UploadInfo{Key: objectName, Size: objectSize}, nil
}

func newTestArchive(t *testing.T, store ObjectStore) *ArchiveService {
	t.Helper()

	_, movies, genres := newServices(t, false)
	_, err := movies.CreateMovie(context.Background(), blade())
	require.NoError(t, err)

	archive := newArchiveService(store, "movie-snapshots", "us-east-1", NewCatalogReader(movies, genres), testutil.NewLogger())
	archive.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return archive
}

func TestSnapshotUploadsCatalog(t *testing.T) {
	store := &fakeObjectStore{}
	archive := newTestArchive(t, store)

	info, err := archive.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"movie-snapshots"}, store.madeBuckets)
	assert.Equal(t, "movie-snapshots", info.Bucket)
	assert.Equal(t, 1, info.Movies)
	assert.True(t, strings.HasPrefix(info.Object, "snapshots/20240102T030405Z_"))
	assert.True(t, strings.HasSuffix(info.Object, ".json"))
	assert.Len(t, info.Object, len("snapshots/20240102T030405Z_")+8+len(".json"))
	assert.Equal(t, "application/json", store.contentType)

	payload, ok := store.objects[info.Object]
	require.True(t, ok)
	assert.Equal(t, int64(len(payload)), info.Size)

	var snapshot models.CatalogSnapshot
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, "2024-01-02T03:04:05Z", snapshot.TakenAt)
	require.Len(t, snapshot.Movies, 1)
	assert.Equal(t, []string{"Sci-fi", "Suspense"}, snapshot.Movies[0].Genres)
	assert.Len(t, snapshot.Genres, len(models.DefaultGenres))
}

func TestSnapshotReusesExistingBucket(t *testing.T) {
	store := &fakeObjectStore{exists: true}
	archive := newTestArchive(t, store)

	_, err := archive.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store.madeBuckets)
}

func TestSnapshotUploadFailure(t *testing.T) {
	archive := newTestArchive(t, &fakeObjectStore{exists: true, putErr: errors.New("access denied")})

	_, err := archive.Snapshot(context.Background())
	assert.ErrorContains(t, err, "failed to upload snapshot: access denied")
}

func TestNewArchiveServiceBuildsClient(t *testing.T) {
	_, movies, genres := newServices(t, false)

	archive, err := NewArchiveService(&config.MinIOConfig{
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "movie-snapshots",
		Region:          "us-east-1",
	}, NewCatalogReader(movies, genres), testutil.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, "movie-snapshots", archive.bucket)
}
