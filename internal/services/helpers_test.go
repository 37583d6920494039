package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/stretchr/testify/require"
)

var userSeq atomic.Int64

// baseTime is 10:00 UTC on a fixed day well in the future.
var baseTime = time.Date(2030, 6, 15, 10, 0, 0, 0, time.UTC)

const baseDate = "2030-06-15"

func newTestStore(t *testing.T) repository.Store {
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

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestService(t *testing.T, store repository.Store) (*SessionService, *testClock) {
	t.Helper()
	clock := &testClock{now: baseTime}
	return NewSessionService(store, WithClock(clock.Now)), clock
}

func createUser(t *testing.T, store repository.Store, role models.Role, name string) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user, err := store.Users().Create(context.Background(), repository.CreateUserInput{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@example.com", role, n),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func validSessionInput(date, clock string) CreateSessionInput {
	return CreateSessionInput{
		Title:       "Strength basics",
		Description: "Barbell fundamentals",
		Date:        date,
		Time:        clock,
		Duration:    "60",
		Price:       "45.50",
	}
}

func createSession(t *testing.T, service *SessionService, coachID int64, date, clock string) *models.Session {
	t.Helper()
	session, err := service.CreateSession(context.Background(), coachID, validSessionInput(date, clock))
	require.NoError(t, err)
	return session
}

// assertBookingInvariant checks that every session is booked exactly when
// one of its bookings is booked.
func assertBookingInvariant(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	sessions, err := store.Sessions().List(ctx)
	require.NoError(t, err)
	bookings, err := store.Bookings().List(ctx)
	require.NoError(t, err)

	active := make(map[int64]int)
	for _, booking := range bookings {
		if booking.Status == models.BookingBooked {
			active[booking.SessionID]++
		}
	}
	for _, session := range sessions {
		count := active[session.ID]
		require.LessOrEqualf(t, count, 1, "session %d has %d active bookings", session.ID, count)
		require.Equalf(t,
			session.Status == models.SessionBooked,
			count == 1,
			"session %d status %q with %d active bookings", session.ID, session.Status, count,
		)
	}
}

func sessionStatus(t *testing.T, store repository.Store, sessionID int64) models.SessionStatus {
	t.Helper()
	session, err := store.Sessions().GetByID(context.Background(), sessionID)
	require.NoError(t, err)
	return session.Status
}
