package postgres

import (
	"context"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `
	s.id, s.coach_id, s.title, s.description,
	to_char(s.session_date, 'YYYY-MM-DD'), to_char(s.start_time, 'HH24:MI'),
	s.duration_minutes, s.price::float8, s.status, s.created_at, s.updated_at`

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(
	ctx context.Context,
	input repository.CreateSessionInput,
) (*models.Session, error) {
	query := `
		WITH s AS (
			INSERT INTO sessions (coach_id, title, description, session_date, start_time, duration_minutes, price, status)
			VALUES ($1, $2, $3, $4::text::date, $5::text::time, $6, $7::float8, 'available')
			RETURNING *
		)
		SELECT ` + sessionColumns + ` FROM s`

	session, err := scanSession(r.db.QueryRow(
		ctx,
		query,
		input.CoachID,
		input.Title,
		input.Description,
		input.Date,
		input.Time,
		input.DurationMinutes,
		input.Price,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return session, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.id = $1`
	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		return nil, translateError(err)
	}
	return session, nil
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.id = $1 FOR UPDATE`
	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		return nil, translateError(err)
	}
	return session, nil
}

func (r *SessionRepository) ListAvailable(ctx context.Context, fromDate string) ([]models.AvailableSession, error) {
	query := `
		SELECT ` + sessionColumns + `, u.id, u.name
		FROM sessions s
		JOIN users u ON u.id = s.coach_id
		WHERE s.status = 'available'
		  AND s.session_date >= $1::text::date
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`
	rows, err := r.db.Query(ctx, query, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.AvailableSession, 0)
	for rows.Next() {
		var item models.AvailableSession
		var status string
		if err := rows.Scan(append(sessionTargets(&item.Session, &status), &item.Coach.ID, &item.Coach.Name)...); err != nil {
			return nil, err
		}
		item.Status = models.SessionStatus(status)
		sessions = append(sessions, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		WHERE s.coach_id = $1
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`
	return r.list(ctx, query, coachID)
}

func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions s ORDER BY s.id ASC`)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	current models.SessionStatus,
	next models.SessionStatus,
) (*models.Session, error) {
	query := `
		WITH s AS (
			UPDATE sessions
			SET status = $3, updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING *
		)
		SELECT ` + sessionColumns + ` FROM s`

	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID, string(current), string(next)))
	if err != nil {
		return nil, translateError(err)
	}
	return session, nil
}

func (r *SessionRepository) DeleteIfStatus(ctx context.Context, sessionID int64, status models.SessionStatus) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND status = $2`, sessionID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func sessionTargets(session *models.Session, status *string) []any {
	return []any{
		&session.ID,
		&session.CoachID,
		&session.Title,
		&session.Description,
		&session.Date,
		&session.Time,
		&session.DurationMinutes,
		&session.Price,
		status,
		(*time.Time)(&session.CreatedAt),
		(*time.Time)(&session.UpdatedAt),
	}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	var status string
	if err := row.Scan(sessionTargets(&session, &status)...); err != nil {
		return nil, err
	}
	session.Status = models.SessionStatus(status)
	return &session, nil
}
