package db

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/verification/usecase"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// receiverLockKey hashes the receiver into the 64-bit key space of postgres
// advisory locks.
func receiverLockKey(receiver string) int64 {
	h := fnv.New64a()
	h.Write([]byte(receiver))
	return int64(h.Sum64())
}

// WithinReceiverTx runs fn inside a transaction that holds an advisory lock
// derived from the receiver, serializing all mutations for one receiver while
// leaving other receivers unblocked. The lock is released automatically when
// the transaction ends.
func (s *DB) WithinReceiverTx(ctx context.Context, receiver string, fn func(ctx context.Context, tx usecase.TxStore) error) (err error) {
	ctx, span := s.startSpan(ctx, "WithinReceiverTx")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", receiverLockKey(receiver)); err != nil {
		return s.mapError(err)
	}

	if err = fn(ctx, &txStore{tx: tx, parent: s}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) GetClientPhoneByPassport(ctx context.Context, passportNumber string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetClientPhoneByPassport")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT mobile_phone
		FROM clients
		WHERE passport_number = $1`

	var phone string
	if err = s.conn.QueryRow(ctx, query, passportNumber).Scan(&phone); err != nil {
		return "", s.mapError(err)
	}

	return phone, nil
}
