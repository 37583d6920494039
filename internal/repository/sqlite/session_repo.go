package sqlite

import (
	"context"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jmoiron/sqlx"
)

const sessionColumns = `
	s.id, s.coach_id, s.title, s.description, s.session_date, s.start_time,
	s.duration_minutes, s.price, s.status, s.created_at, s.updated_at`

type sessionRow struct {
	ID              int64   `db:"id"`
	CoachID         int64   `db:"coach_id"`
	Title           string  `db:"title"`
	Description     string  `db:"description"`
	SessionDate     string  `db:"session_date"`
	StartTime       string  `db:"start_time"`
	DurationMinutes int     `db:"duration_minutes"`
	Price           float64 `db:"price"`
	Status          string  `db:"status"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

func (row sessionRow) toModel() (*models.Session, error) {
	createdAt, err := parseTimestamp(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTimestamp(row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:              row.ID,
		CoachID:         row.CoachID,
		Title:           row.Title,
		Description:     row.Description,
		Date:            row.SessionDate,
		Time:            row.StartTime,
		DurationMinutes: row.DurationMinutes,
		Price:           row.Price,
		Status:          models.SessionStatus(row.Status),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

type availableSessionRow struct {
	sessionRow
	CoachRefID int64  `db:"coach_ref_id"`
	CoachName  string `db:"coach_name"`
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, input repository.CreateSessionInput) (*models.Session, error) {
	stamp := now()
	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (coach_id, title, description, session_date, start_time, duration_minutes, price, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'available', ?, ?)`,
		input.CoachID,
		input.Title,
		input.Description,
		input.Date,
		input.Time,
		input.DurationMinutes,
		input.Price,
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

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	var row sessionRow
	query := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.id = ?`
	if err := sqlx.GetContext(ctx, r.db, &row, query, sessionID); err != nil {
		return nil, translateError(err)
	}
	return row.toModel()
}

// GetByIDForUpdate relies on the enclosing BEGIN IMMEDIATE transaction for
// exclusion; SQLite has no row locks.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error) {
	return r.GetByID(ctx, sessionID)
}

func (r *SessionRepository) ListAvailable(ctx context.Context, fromDate string) ([]models.AvailableSession, error) {
	query := `
		SELECT ` + sessionColumns + `, u.id AS coach_ref_id, u.name AS coach_name
		FROM sessions s
		JOIN users u ON u.id = s.coach_id
		WHERE s.status = 'available'
		  AND s.session_date >= ?
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`
	var rows []availableSessionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, fromDate); err != nil {
		return nil, err
	}

	sessions := make([]models.AvailableSession, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, models.AvailableSession{
			Session: *session,
			Coach:   models.CoachSummary{ID: row.CoachRefID, Name: row.CoachName},
		})
	}
	return sessions, nil
}

func (r *SessionRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		WHERE s.coach_id = ?
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`
	return r.list(ctx, query, coachID)
}

func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions s ORDER BY s.id ASC`)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	var rows []sessionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	current models.SessionStatus,
	next models.SessionStatus,
) (*models.Session, error) {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(next),
		now(),
		sessionID,
		string(current),
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, sessionID)
}

func (r *SessionRepository) DeleteIfStatus(ctx context.Context, sessionID int64, status models.SessionStatus) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND status = ?`, sessionID, string(status))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
