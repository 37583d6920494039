package postgres

import (
	"context"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, client_id, session_id, status, created_at, updated_at`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input repository.CreateBookingInput) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (client_id, session_id, status)
		VALUES ($1, $2, 'booked')
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, input.ClientID, input.SessionID))
	if err != nil {
		return nil, translateError(err)
	}
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		return nil, translateError(err)
	}
	return booking, nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		return nil, translateError(err)
	}
	return booking, nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID int64) ([]models.BookedSession, error) {
	query := `
		SELECT ` + sessionColumns + `, u.id, u.name, b.id, b.created_at, b.status
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN users u ON u.id = s.coach_id
		WHERE b.client_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.BookedSession, 0)
	for rows.Next() {
		var (
			item          models.BookedSession
			sessionStatus string
			bookingStatus string
			bookedAt      time.Time
		)
		targets := append(
			sessionTargets(&item.Session, &sessionStatus),
			&item.Coach.ID,
			&item.Coach.Name,
			&item.BookingID,
			&bookedAt,
			&bookingStatus,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		item.Status = models.SessionStatus(sessionStatus)
		item.BookingStatus = models.BookingStatus(bookingStatus)
		item.BookingDate = models.NewTimestamp(bookedAt).String()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *BookingRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE session_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, sessionID)
}

func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id ASC`)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	current models.BookingStatus,
	next models.BookingStatus,
) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingID, string(current), string(next)))
	if err != nil {
		return nil, translateError(err)
	}
	return booking, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	var status string
	if err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.SessionID,
		&status,
		(*time.Time)(&booking.CreatedAt),
		(*time.Time)(&booking.UpdatedAt),
	); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatus(status)
	return &booking, nil
}
