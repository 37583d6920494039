package postgres

import (
	"context"
	"errors"

	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.pool)
}

func (s *Store) Sessions() repository.SessionRepository {
	return NewSessionRepository(s.pool)
}

func (s *Store) Bookings() repository.BookingRepository {
	return NewBookingRepository(s.pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.run(ctx, pgx.TxOptions{}, fn)
}

func (s *Store) WithinSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, fn func(tx repository.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(txScope{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
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

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Join(repository.ErrDuplicate, err)
	}
	return err
}
