package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/takonote/verigate/internal/verification/entity"
)

// txStore implements usecase.TxStore on top of a single open transaction.
// Zero time values map to NULL columns and back.
type txStore struct {
	tx     pgx.Tx
	parent *DB
}

func toNullableTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Valid: true, Time: t}
}

func fromNullableTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

func (t *txStore) GetThrottle(ctx context.Context, receiver string) (_ *entity.Throttle, err error) {
	ctx, span := t.parent.startSpan(ctx, "GetThrottle")
	defer func() { t.parent.endSpan(span, err) }()

	const query = `
		SELECT receiver, sending_count, block_until
		FROM verification_throttles
		WHERE receiver = $1`

	var (
		th         entity.Throttle
		blockUntil pgtype.Timestamptz
	)
	if err = t.tx.QueryRow(ctx, query, receiver).Scan(&th.Receiver, &th.SendingCount, &blockUntil); err != nil {
		return nil, t.parent.mapError(err)
	}
	th.BlockUntil = fromNullableTime(blockUntil)

	return &th, nil
}

func (t *txStore) SaveThrottle(ctx context.Context, th entity.Throttle) (err error) {
	ctx, span := t.parent.startSpan(ctx, "SaveThrottle")
	defer func() { t.parent.endSpan(span, err) }()

	const query = `
		INSERT INTO verification_throttles (receiver, sending_count, block_until)
		VALUES ($1, $2, $3)
		ON CONFLICT (receiver) DO UPDATE
		SET sending_count = EXCLUDED.sending_count,
		    block_until   = EXCLUDED.block_until,
		    updated_at    = now()`

	_, err = t.tx.Exec(ctx, query, th.Receiver, th.SendingCount, toNullableTime(th.BlockUntil))
	return t.parent.mapError(err)
}

func (t *txStore) GetChallenge(ctx context.Context, receiver string) (_ *entity.Challenge, err error) {
	ctx, span := t.parent.startSpan(ctx, "GetChallenge")
	defer func() { t.parent.endSpan(span, err) }()

	const query = `
		SELECT receiver, code, code_expires_at, wrong_attempts, user_blocked_until
		FROM verification_challenges
		WHERE receiver = $1`

	var (
		ch           entity.Challenge
		expiresAt    pgtype.Timestamptz
		blockedUntil pgtype.Timestamptz
	)
	if err = t.tx.QueryRow(ctx, query, receiver).Scan(
		&ch.Receiver, &ch.Code, &expiresAt, &ch.WrongAttempts, &blockedUntil,
	); err != nil {
		return nil, t.parent.mapError(err)
	}
	ch.CodeExpiresAt = fromNullableTime(expiresAt)
	ch.UserBlockedUntil = fromNullableTime(blockedUntil)

	return &ch, nil
}

func (t *txStore) SaveChallenge(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := t.parent.startSpan(ctx, "SaveChallenge")
	defer func() { t.parent.endSpan(span, err) }()

	const query = `
		INSERT INTO verification_challenges (receiver, code, code_expires_at, wrong_attempts, user_blocked_until)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (receiver) DO UPDATE
		SET code               = EXCLUDED.code,
		    code_expires_at    = EXCLUDED.code_expires_at,
		    wrong_attempts     = EXCLUDED.wrong_attempts,
		    user_blocked_until = EXCLUDED.user_blocked_until,
		    updated_at         = now()`

	_, err = t.tx.Exec(ctx, query,
		ch.Receiver, ch.Code, toNullableTime(ch.CodeExpiresAt), ch.WrongAttempts, toNullableTime(ch.UserBlockedUntil),
	)
	return t.parent.mapError(err)
}

func (t *txStore) DeleteChallenge(ctx context.Context, receiver string) (err error) {
	ctx, span := t.parent.startSpan(ctx, "DeleteChallenge")
	defer func() { t.parent.endSpan(span, err) }()

	_, err = t.tx.Exec(ctx, `DELETE FROM verification_challenges WHERE receiver = $1`, receiver)
	return t.parent.mapError(err)
}
