package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seededStore(t *testing.T) repository.Store {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "app.db"),
	}
	require.NoError(t, database.MigrateUp(cfg))
	store, err := database.OpenStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	coach, err := store.Users().Create(ctx, repository.CreateUserInput{
		Name: "Coach", Email: "coach@example.com", PasswordHash: "secret-hash", Role: models.RoleCoach,
	})
	require.NoError(t, err)
	client, err := store.Users().Create(ctx, repository.CreateUserInput{
		Name: "Client", Email: "client@example.com", PasswordHash: "secret-hash", Role: models.RoleClient,
	})
	require.NoError(t, err)
	session, err := store.Sessions().Create(ctx, repository.CreateSessionInput{
		CoachID: coach.ID, Title: "Yoga", Date: "2030-01-01", Time: "08:00", DurationMinutes: 45, Price: 20,
	})
	require.NoError(t, err)
	_, err = store.Bookings().Create(ctx, repository.CreateBookingInput{ClientID: client.ID, SessionID: session.ID})
	require.NoError(t, err)
	return store
}

func TestWriteJSON(t *testing.T) {
	store := seededStore(t)
	snapshot, err := Collect(context.Background(), store)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snapshot))
	assert.NotContains(t, buf.String(), "secret-hash")

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["users"], 2)
	assert.Len(t, decoded["sessions"], 1)
	assert.Len(t, decoded["bookings"], 1)
	assert.Equal(t, "Yoga", decoded["sessions"][0]["title"])
}

func TestToFileXLSX(t *testing.T) {
	store := seededStore(t)
	path := filepath.Join(t.TempDir(), "out", "backup.xlsx")
	require.NoError(t, ToFile(context.Background(), store, FormatXLSX, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"users", "sessions", "bookings"}, f.GetSheetList())
	rows, err := f.GetRows("sessions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][2])
	assert.Equal(t, "Yoga", rows[1][2])
}

func TestToFileRejectsUnknownFormat(t *testing.T) {
	store := seededStore(t)
	path := filepath.Join(t.TempDir(), "backup.csv")
	assert.Error(t, ToFile(context.Background(), store, "csv", path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

// pooledReadsFail rejects any read that bypasses the snapshot transaction.
type pooledReadsFail struct {
	repository.Store
	snapshots int
}

func (s *pooledReadsFail) Users() repository.UserRepository {
	return failingUsers{}
}

func (s *pooledReadsFail) WithinSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.snapshots++
	return s.Store.WithinSnapshot(ctx, fn)
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) List(context.Context) ([]models.User, error) {
	return nil, errors.New("read outside snapshot")
}

func TestCollectReadsInsideOneSnapshot(t *testing.T) {
	store := &pooledReadsFail{Store: seededStore(t)}

	snapshot, err := Collect(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 1, store.snapshots)
	assert.Len(t, snapshot.Users, 2)
	assert.Len(t, snapshot.Bookings, 1)
}
