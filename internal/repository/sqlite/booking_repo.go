package sqlite

import (
	"context"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, client_id, session_id, status, created_at, updated_at`

type bookingRow struct {
	ID        int64  `db:"id"`
	ClientID  int64  `db:"client_id"`
	SessionID int64  `db:"session_id"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row bookingRow) toModel() (*models.Booking, error) {
	createdAt, err := parseTimestamp(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTimestamp(row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &models.Booking{
		ID:        row.ID,
		ClientID:  row.ClientID,
		SessionID: row.SessionID,
		Status:    models.BookingStatus(row.Status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

type bookedSessionRow struct {
	sessionRow
	CoachRefID    int64  `db:"coach_ref_id"`
	CoachName     string `db:"coach_name"`
	BookingID     int64  `db:"booking_id"`
	BookedAt      string `db:"booked_at"`
	BookingStatus string `db:"booking_status"`
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input repository.CreateBookingInput) (*models.Booking, error) {
	stamp := now()
	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO bookings (client_id, session_id, status, created_at, updated_at) VALUES (?, ?, 'booked', ?, ?)`,
		input.ClientID,
		input.SessionID,
		stamp,
		stamp,
	)
	if err != nil {
		return nil, translateError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := sqlx.GetContext(ctx, r.db, &row, query, bookingID); err != nil {
		return nil, translateError(err)
	}
	return row.toModel()
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return r.GetByID(ctx, bookingID)
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID int64) ([]models.BookedSession, error) {
	query := `
		SELECT ` + sessionColumns + `,
			u.id AS coach_ref_id, u.name AS coach_name,
			b.id AS booking_id, b.created_at AS booked_at, b.status AS booking_status
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN users u ON u.id = s.coach_id
		WHERE b.client_id = ?
		ORDER BY b.created_at DESC, b.id DESC
	`
	var rows []bookedSessionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, clientID); err != nil {
		return nil, err
	}

	items := make([]models.BookedSession, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		bookedAt, err := parseTimestamp(row.BookedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, models.BookedSession{
			Session:       *session,
			Coach:         models.CoachSummary{ID: row.CoachRefID, Name: row.CoachName},
			BookingID:     row.BookingID,
			BookingDate:   bookedAt.String(),
			BookingStatus: models.BookingStatus(row.BookingStatus),
		})
	}
	return items, nil
}

func (r *BookingRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE session_id = ? ORDER BY id ASC`, sessionID)
}

func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id ASC`)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		booking, err := row.toModel()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	current models.BookingStatus,
	next models.BookingStatus,
) (*models.Booking, error) {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(next),
		now(),
		bookingID,
		string(current),
	)
	if err != nil {
		return nil, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, bookingID)
}
