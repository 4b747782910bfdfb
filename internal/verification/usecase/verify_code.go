package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takonote/verigate/internal/pkg/goerror"
)

type VerifyCodeInput struct {
	Receiver string `validate:"required,phone"`
	Code     string `validate:"required,len=6,numeric"`
}

// VerifyCode checks a submitted code against the receiver's pending
// challenge. Wrong submissions increment the attempt counter and the attempt
// past the limit locks the receiver out for the block duration; these counter
// mutations are committed even though the call fails, so the failure result
// must not be treated as a no-op by retrying callers. A correct, unexpired
// code consumes the challenge.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) error {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	// Business failures below still need their writes committed, so they are
	// captured here and the transaction closure returns nil.
	var failure error

	err := s.repoDB.WithinReceiverTx(ctx, in.Receiver, func(ctx context.Context, tx TxStore) error {
		now := s.clock.Now()

		ch, err := tx.GetChallenge(ctx, in.Receiver)
		if errors.Is(err, goerror.ErrNotFound) {
			failure = goerror.NewNotFound("No verification code sent to this receiver")
			return nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		if ch.UserBlockedUntil.After(now) {
			failure = goerror.NewBlocked(remainingSeconds(now, ch.UserBlockedUntil))
			return nil
		}

		// The attempt past the limit locks the receiver out before the
		// submitted code is even looked at.
		attempt := ch.WrongAttempts + 1
		if attempt > s.maxWrongAttempts() {
			ch.UserBlockedUntil = now.Add(s.userBlockDuration())
			ch.WrongAttempts = 0
			if err := tx.SaveChallenge(ctx, *ch); err != nil {
				slog.ErrorContext(ctx, "failed to repo save challenge", "receiver", in.Receiver, "error", err)
				return goerror.NewServer(err)
			}

			failure = goerror.NewBlocked(remainingSeconds(now, ch.UserBlockedUntil))
			return nil
		}

		if in.Code != ch.Code {
			ch.WrongAttempts = attempt
			if err := tx.SaveChallenge(ctx, *ch); err != nil {
				slog.ErrorContext(ctx, "failed to repo save challenge", "receiver", in.Receiver, "error", err)
				return goerror.NewServer(err)
			}

			failure = goerror.NewInvalidCode("Verification code is invalid")
			return nil
		}

		// Match before expiry: a correct but stale code reports expired.
		if now.After(ch.CodeExpiresAt) {
			failure = goerror.NewInvalidCode("Verification code is expired")
			return nil
		}

		if err := tx.DeleteChallenge(ctx, in.Receiver); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return failure
}
