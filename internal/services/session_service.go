package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/metrics"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/rs/zerolog"
)

// SessionService owns every change to session and booking status. Each
// mutating method runs in exactly one store transaction, so a session is
// booked exactly when one of its bookings is.
type SessionService struct {
	store    repository.Store
	logger   zerolog.Logger
	location *time.Location
	now      func() time.Time
}

type Option func(*SessionService)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *SessionService) {
		s.logger = logger
	}
}

// WithLocation sets the zone whose calendar date counts as "today".
func WithLocation(location *time.Location) Option {
	return func(s *SessionService) {
		if location != nil {
			s.location = location
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSessionService(store repository.Store, opts ...Option) *SessionService {
	service := &SessionService{
		store:    store,
		logger:   zerolog.Nop(),
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *SessionService) today() string {
	return s.now().In(s.location).Format(models.DateLayout)
}

func (s *SessionService) BookSession(ctx context.Context, sessionID, clientID int64) (booking *models.Booking, err error) {
	defer func() { s.finish("book", err, sessionID, clientID) }()

	if sessionID <= 0 || clientID <= 0 {
		return nil, ErrNotAvailable
	}

	today := s.today()
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		session, err := tx.Sessions().GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotAvailable
			}
			return err
		}
		if session.Status != models.SessionAvailable {
			return ErrNotAvailable
		}
		if session.Date < today {
			return ErrPastDate
		}

		created, err := tx.Bookings().Create(ctx, repository.CreateBookingInput{
			ClientID:  clientID,
			SessionID: sessionID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrNotAvailable
			}
			return err
		}

		if _, err := tx.Sessions().UpdateStatusIfCurrent(
			ctx,
			sessionID,
			models.SessionAvailable,
			models.SessionBooked,
		); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotAvailable
			}
			return err
		}

		booking = created
		return nil
	})
	if err != nil {
		return nil, s.resolve(err)
	}
	return booking, nil
}

func (s *SessionService) CancelBooking(ctx context.Context, bookingID, clientID int64) (err error) {
	defer func() { s.finish("cancel", err, bookingID, clientID) }()

	if bookingID <= 0 || clientID <= 0 {
		return ErrNotCancellable
	}

	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		booking, err := tx.Bookings().GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotCancellable
			}
			return err
		}
		if booking.ClientID != clientID || booking.Status != models.BookingBooked {
			return ErrNotCancellable
		}

		if _, err := tx.Bookings().UpdateStatusIfCurrent(
			ctx,
			bookingID,
			models.BookingBooked,
			models.BookingCancelled,
		); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotCancellable
			}
			return err
		}

		if _, err := tx.Sessions().UpdateStatusIfCurrent(
			ctx,
			booking.SessionID,
			models.SessionBooked,
			models.SessionAvailable,
		); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("session %d of booking %d is not booked", booking.SessionID, bookingID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return s.resolve(err)
	}
	return nil
}

func (s *SessionService) CreateSession(
	ctx context.Context,
	coachID int64,
	input CreateSessionInput,
) (session *models.Session, err error) {
	defer func() { s.finish("create", err, 0, coachID) }()

	valid, err := validateCreateSession(input, s.today())
	if err != nil {
		return nil, err
	}

	session, err = s.store.Sessions().Create(ctx, repository.CreateSessionInput{
		CoachID:         coachID,
		Title:           valid.title,
		Description:     valid.description,
		Date:            valid.date,
		Time:            valid.time,
		DurationMinutes: valid.durationMinutes,
		Price:           valid.price,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, sessionID, coachID int64) (err error) {
	defer func() { s.finish("delete", err, sessionID, coachID) }()

	if sessionID <= 0 || coachID <= 0 {
		return ErrSessionNotFound
	}

	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		session, err := tx.Sessions().GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.CoachID != coachID {
			return ErrSessionNotFound
		}
		if session.Status != models.SessionAvailable {
			return ErrNotDeletable
		}

		if err := tx.Sessions().DeleteIfStatus(ctx, sessionID, models.SessionAvailable); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotDeletable
			}
			return err
		}
		return nil
	})
	if err != nil {
		return s.resolve(err)
	}
	return nil
}

// ListAvailableSessions returns open sessions dated today or later.
func (s *SessionService) ListAvailableSessions(ctx context.Context) ([]models.AvailableSession, error) {
	return s.store.Sessions().ListAvailable(ctx, s.today())
}

func (s *SessionService) ListBookedSessionsForClient(ctx context.Context, clientID int64) ([]models.BookedSession, error) {
	return s.store.Bookings().ListByClient(ctx, clientID)
}

func (s *SessionService) ListSessionsForCoach(ctx context.Context, coachID int64) ([]models.Session, error) {
	return s.store.Sessions().ListByCoach(ctx, coachID)
}

// resolve keeps domain errors as they are and reports anything else that
// aborted the transaction as ErrTransactionFailed.
func (s *SessionService) resolve(err error) error {
	if isDomainError(err) {
		return err
	}
	return transactionFailed(err)
}

func (s *SessionService) finish(operation string, err error, targetID, actorID int64) {
	metrics.IncTransition(operation, outcome(err))

	switch {
	case err == nil:
		s.logger.Info().
			Str("operation", operation).
			Int64("target_id", targetID).
			Int64("actor_id", actorID).
			Msg("session transition applied")
	case isDomainError(err):
		s.logger.Debug().
			Err(err).
			Str("operation", operation).
			Int64("target_id", targetID).
			Int64("actor_id", actorID).
			Msg("session transition rejected")
	default:
		s.logger.Error().
			Err(err).
			Str("operation", operation).
			Int64("target_id", targetID).
			Int64("actor_id", actorID).
			Msg("session transition failed")
	}
}
