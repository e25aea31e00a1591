package services

import (
	"context"
	"sync"
	"testing"

	"movie-records/internal/models"
	"movie-records/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExistingGenre(t *testing.T) {
	_, _, genres := newServices(t, false)

	id, err := genres.Resolve(context.Background(), "Action")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestResolveCreatesOnce(t *testing.T) {
	db, _, genres := newServices(t, false)
	ctx := context.Background()

	first, err := genres.Resolve(ctx, "Western")
	require.NoError(t, err)
	second, err := genres.Resolve(ctx, "Western")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(len(models.DefaultGenres)+1), count(t, db, &models.Genre{}))
}

func TestResolveConcurrently(t *testing.T) {
	db := testutil.NewDatabase(t, false)
	genres := NewGenreService(db, testutil.NewLogger())

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = genres.Resolve(context.Background(), "Musical")
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(len(models.DefaultGenres)+1), count(t, db, &models.Genre{}))
}

func TestListGenres(t *testing.T) {
	_, _, genres := newServices(t, false)

	all, err := genres.ListGenres(context.Background())
	require.NoError(t, err)
	require.Len(t, all, len(models.DefaultGenres))
	for i, genre := range all {
		assert.Equal(t, uint(i+1), genre.ID)
		assert.Equal(t, models.DefaultGenres[i], genre.Name)
	}
}

func TestGetGenreByID(t *testing.T) {
	_, _, genres := newServices(t, false)
	ctx := context.Background()

	genre, err := genres.GetGenreByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Sci-fi", genre.Name)

	_, err = genres.GetGenreByID(ctx, 999)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	_, err = genres.GetGenreByID(ctx, 0)
	assert.ErrorIs(t, err, ErrGenreNotFound)
}
