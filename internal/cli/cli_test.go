package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"movie-records/internal/config"
	"movie-records/internal/database"
	"movie-records/internal/models"
	"movie-records/internal/services"
	"movie-records/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			EnvelopeAddr:   "127.0.0.1:0",
			HTTPPort:       "0",
			HTTPEnabled:    false,
			MaxMessageSize: 2048,
		},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            filepath.Join(t.TempDir(), "serve.db"),
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
			QueryTimeout:    5 * time.Second,
			ResetOnStart:    true,
		},
	}
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig(t), testutil.NewLogger())
	assert.Equal(t, "movie-records", cmd.Use)

	for _, name := range []string{"serve", "send"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServeFlagDefaultsComeFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.EnvelopeAddr = ":9999"
	cfg.Database.ResetOnStart = false

	cmd := NewRootCommand(cfg, testutil.NewLogger())
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.Equal(t, ":9999", serve.Flags().Lookup("addr").DefValue)
	assert.Equal(t, "true", serve.Flags().Lookup("keep-data").DefValue)
	assert.Equal(t, "false", serve.Flags().Lookup("http").DefValue)
}

func TestServeStopsWhenContextIsCancelled(t *testing.T) {
	cfg := testConfig(t)
	cmd := NewRootCommand(cfg, testutil.NewLogger())
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, cmd.ExecuteContext(ctx))

	db, err := database.Connect(cfg.Database)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.Model(&models.Genre{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultGenres)), count)
}

type recordingArchive struct {
	calls int
	err   error
}

func (a *recordingArchive) Snapshot(context.Context) (*services.SnapshotInfo, error) {
	a.calls++
	return &services.SnapshotInfo{}, a.err
}

func TestPrepareSchemaSnapshotsBeforeReset(t *testing.T) {
	db := testutil.NewDatabase(t, false)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Movie{Title: "Alien", Director: "Ridley Scott", ReleaseYear: 1979}).Error)

	archive := &recordingArchive{err: errors.New("bucket unreachable")}
	require.NoError(t, prepareSchema(ctx, db, archive, true, testutil.NewLogger()))
	assert.Equal(t, 1, archive.calls)

	var count int64
	require.NoError(t, db.Model(&models.Movie{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPrepareSchemaKeepsData(t *testing.T) {
	db := testutil.NewDatabase(t, false)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Movie{Title: "Alien", Director: "Ridley Scott", ReleaseYear: 1979}).Error)

	archive := &recordingArchive{}
	require.NoError(t, prepareSchema(ctx, db, archive, false, testutil.NewLogger()))
	assert.Zero(t, archive.calls)

	var count int64
	require.NoError(t, db.Model(&models.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// replyOnce accepts one connection, records everything up to EOF and answers.
func replyOnce(t *testing.T, reply string) (port string, received <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		ch <- data
		conn.Write([]byte(reply))
	}()

	_, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return port, ch
}

func writeRequest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSendPrintsReply(t *testing.T) {
	port, received := replyOnce(t, `{"status":200,"message":"Movies retrieved successfully","movies":[]}`)
	path := writeRequest(t, `{"method":"GET","resource":"/movies"}`)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand(testConfig(t), testutil.NewLogger())
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"send", "127.0.0.1", path, "--port", port})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, `{"method":"GET","resource":"/movies"}`, string(<-received))
	assert.Contains(t, buf.String(), "client: connecting to 127.0.0.1:"+port)
	assert.Contains(t, buf.String(), `client: received '{"status":200,"message":"Movies retrieved successfully","movies":[]}'`)
}

func TestSendTruncatesLargeFiles(t *testing.T) {
	port, received := replyOnce(t, "ok")
	path := writeRequest(t, strings.Repeat("a", 3000))

	cmd := NewRootCommand(testConfig(t), testutil.NewLogger())
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"send", "127.0.0.1", path, "--port", port})

	require.NoError(t, cmd.Execute())
	assert.Len(t, <-received, maxRequestSize)
}

func TestSendMissingFile(t *testing.T) {
	cmd := NewRootCommand(testConfig(t), testutil.NewLogger())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"send", "127.0.0.1", filepath.Join(t.TempDir(), "missing.json")})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "failed to open request file")
}

func TestSendRequiresTwoArgs(t *testing.T) {
	cmd := NewRootCommand(testConfig(t), testutil.NewLogger())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"send", "127.0.0.1"})

	assert.Error(t, cmd.Execute())
}
