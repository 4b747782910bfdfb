package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takonote/verigate/internal/pkg/goerror"
)

type SetBlockInput struct {
	Receiver string `validate:"required,phone"`
}

// SetBlock locks the receiver out of verification for the block duration,
// regardless of its current state. Used by operators after independently
// spotting abusive behavior.
func (s *Usecase) SetBlock(ctx context.Context, in SetBlockInput) error {
	ctx, span := s.startSpan(ctx, "SetBlock")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	var failure error

	err := s.repoDB.WithinReceiverTx(ctx, in.Receiver, func(ctx context.Context, tx TxStore) error {
		ch, err := tx.GetChallenge(ctx, in.Receiver)
		if errors.Is(err, goerror.ErrNotFound) {
			failure = goerror.NewNotFound("No verification code sent to this receiver")
			return nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		ch.UserBlockedUntil = s.clock.Now().Add(s.userBlockDuration())
		if err := tx.SaveChallenge(ctx, *ch); err != nil {
			slog.ErrorContext(ctx, "failed to repo save challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return failure
}
