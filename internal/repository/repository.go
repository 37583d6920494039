// Package repository declares the storage contracts shared by every backend.
// Implementations live in the postgres and sqlite subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         models.Role
}

type CreateSessionInput struct {
	CoachID         int64
	Title           string
	Description     string
	Date            string
	Time            string
	DurationMinutes int
	Price           float64
}

type CreateBookingInput struct {
	ClientID  int64
	SessionID int64
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) (*models.Session, error)
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	// GetByIDForUpdate holds a write lock on the row until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error)
	ListAvailable(ctx context.Context, fromDate string) ([]models.AvailableSession, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	UpdateStatusIfCurrent(ctx context.Context, sessionID int64, current, next models.SessionStatus) (*models.Session, error)
	DeleteIfStatus(ctx context.Context, sessionID int64, status models.SessionStatus) error
}

type BookingRepository interface {
	Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, bookingID int64) (*models.Booking, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.BookedSession, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	UpdateStatusIfCurrent(ctx context.Context, bookingID int64, current, next models.BookingStatus) (*models.Booking, error)
}

// Tx exposes repositories bound to one unit of work.
type Tx interface {
	Users() UserRepository
	Sessions() SessionRepository
	Bookings() BookingRepository
}

// Store is a Tx bound to the connection pool, plus the transaction boundary.
// WithinTx commits when fn returns nil and rolls back on any error or panic.
// WithinSnapshot runs fn read-only against one consistent view of every table.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	WithinSnapshot(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
