package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) repository.Store {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "app.db"),
	}
	require.NoError(t, database.MigrateUp(cfg))
	store, err := database.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedSession(t *testing.T, store repository.Store) (*models.User, *models.User, *models.Session) {
	t.Helper()
	ctx := context.Background()

	coach, err := store.Users().Create(ctx, repository.CreateUserInput{
		Name: "Coach", Email: "coach@example.com", PasswordHash: "hash", Role: models.RoleCoach,
	})
	require.NoError(t, err)
	client, err := store.Users().Create(ctx, repository.CreateUserInput{
		Name: "Client", Email: "client@example.com", PasswordHash: "hash", Role: models.RoleClient,
	})
	require.NoError(t, err)
	session, err := store.Sessions().Create(ctx, repository.CreateSessionInput{
		CoachID: coach.ID, Title: "Mobility", Date: "2030-03-01", Time: "07:15", DurationMinutes: 30, Price: 12.5,
	})
	require.NoError(t, err)
	return coach, client, session
}

func TestSessionRoundTrip(t *testing.T) {
	store := openStore(t)
	_, _, session := seedSession(t, store)

	got, err := store.Sessions().GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAvailable, got.Status)
	assert.Equal(t, "2030-03-01", got.Date)
	assert.Equal(t, "07:15", got.Time)
	assert.Equal(t, 30, got.DurationMinutes)
	assert.InDelta(t, 12.5, got.Price, 0.001)

	_, err = store.Sessions().GetByID(context.Background(), session.ID+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateStatusIfCurrentGuards(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, _, session := seedSession(t, store)

	updated, err := store.Sessions().UpdateStatusIfCurrent(ctx, session.ID, models.SessionAvailable, models.SessionBooked)
	require.NoError(t, err)
	assert.Equal(t, models.SessionBooked, updated.Status)

	_, err = store.Sessions().UpdateStatusIfCurrent(ctx, session.ID, models.SessionAvailable, models.SessionBooked)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Sessions().DeleteIfStatus(ctx, session.ID, models.SessionAvailable)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSingleActiveBookingPerSession(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, client, session := seedSession(t, store)

	first, err := store.Bookings().Create(ctx, repository.CreateBookingInput{ClientID: client.ID, SessionID: session.ID})
	require.NoError(t, err)

	_, err = store.Bookings().Create(ctx, repository.CreateBookingInput{ClientID: client.ID, SessionID: session.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.Bookings().UpdateStatusIfCurrent(ctx, first.ID, models.BookingBooked, models.BookingCancelled)
	require.NoError(t, err)

	_, err = store.Bookings().Create(ctx, repository.CreateBookingInput{ClientID: client.ID, SessionID: session.ID})
	assert.NoError(t, err)

	bookings, err := store.Bookings().ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestWithinTxRollsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, _, session := seedSession(t, store)

	sentinel := errors.New("abort")
	err := store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Sessions().UpdateStatusIfCurrent(ctx, session.ID, models.SessionAvailable, models.SessionBooked); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, err := store.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAvailable, got.Status)
}

func TestDeletingSessionCascadesBookings(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, client, session := seedSession(t, store)

	booking, err := store.Bookings().Create(ctx, repository.CreateBookingInput{ClientID: client.ID, SessionID: session.ID})
	require.NoError(t, err)
	_, err = store.Bookings().UpdateStatusIfCurrent(ctx, booking.ID, models.BookingBooked, models.BookingCancelled)
	require.NoError(t, err)

	require.NoError(t, store.Sessions().DeleteIfStatus(ctx, session.ID, models.SessionAvailable))

	_, err = store.Bookings().GetByID(ctx, booking.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
