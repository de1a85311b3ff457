// Package db — доступ к PostgreSQL: параметризованные запросы, без бизнес-логики.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/ctxutil"
	"github.com/Spok95/kindergarten/internal/metrics"
)

// Store — хранилище поверх явно созданного пула; передаётся в обработчики.
type Store struct {
	db *sqlx.DB
}

func New(database *sqlx.DB) *Store {
	return &Store{db: database}
}

// DB — исходный пул (для миграций и health-check).
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	metrics.ObserveDBPing(time.Since(t0))
	return nil
}

// inTx — транзакция с откатом при ошибке или панике fn.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// notFound превращает sql.ErrNoRows в типизированную 404.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// mustAffect — 404, если UPDATE/DELETE не задел ни одной строки.
func mustAffect(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctxutil.WithDBTimeout(ctx)
}
