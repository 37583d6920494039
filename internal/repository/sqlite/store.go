// Package sqlite implements the repository contracts on an embedded SQLite
// database through sqlx. Writers are serialized by opening every transaction
// with BEGIN IMMEDIATE, so a row read inside WithinTx cannot change before the
// transaction ends.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
}

type Store struct {
	db *sqlx.DB
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.db)
}

func (s *Store) Sessions() repository.SessionRepository {
	return NewSessionRepository(s.db)
}

func (s *Store) Bookings() repository.BookingRepository {
	return NewBookingRepository(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txScope{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// WithinSnapshot is WithinTx: BEGIN IMMEDIATE already keeps every writer out
// until the reads are done.
func (s *Store) WithinSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.WithinTx(ctx, fn)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

type txScope struct {
	db DBTX
}

func (t txScope) Users() repository.UserRepository {
	return NewUserRepository(t.db)
}

func (t txScope) Sessions() repository.SessionRepository {
	return NewSessionRepository(t.db)
}

func (t txScope) Bookings() repository.BookingRepository {
	return NewBookingRepository(t.db)
}

const timestampLayout = models.TimestampLayout

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (models.Timestamp, error) {
	parsed, err := time.ParseInLocation(timestampLayout, value, time.UTC)
	if err != nil {
		return models.Timestamp{}, fmt.Errorf("parse stored timestamp %q: %w", value, err)
	}
	return models.NewTimestamp(parsed), nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Join(repository.ErrDuplicate, err)
	}
	return err
}
