package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/verification/entity"
)

const smsTemplate = "Your verification code: "

type RequestCodeInput struct {
	Receiver string `validate:"required,phone"`
}

type RequestCodeOutput struct {
	RemainingBlockSeconds int64
	Code                  string
}

// RequestCode issues a fresh verification code for the receiver and delivers
// it over SMS. Resends are throttled with an exponential window (30s doubling
// per consecutive issue) that flattens to 600s once the send count reaches
// its cap. The whole issuance, delivery included, is one transaction: a
// failed delivery leaves no throttle or challenge mutation behind.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var out *RequestCodeOutput
	err := s.repoDB.WithinReceiverTx(ctx, in.Receiver, func(ctx context.Context, tx TxStore) error {
		now := s.clock.Now()

		th, err := tx.GetThrottle(ctx, in.Receiver)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get throttle", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}
		if th == nil {
			th = &entity.Throttle{Receiver: in.Receiver}
		}

		if th.BlockUntil.After(now) {
			return goerror.NewBlocked(remainingSeconds(now, th.BlockUntil))
		}

		window := s.flatBlock()
		if th.SendingCount < s.maxSendCount() {
			window = s.baseWindow() << th.SendingCount
			th.SendingCount++
		}
		th.BlockUntil = now.Add(window)

		if err := tx.SaveThrottle(ctx, *th); err != nil {
			slog.ErrorContext(ctx, "failed to repo save throttle", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		code, err := s.otp.Generate()
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
			return goerror.NewServer(err)
		}

		ch, err := tx.GetChallenge(ctx, in.Receiver)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		// Wrong attempts and the user block survive a reissue.
		newCh := entity.Challenge{
			Receiver:      in.Receiver,
			Code:          code,
			CodeExpiresAt: now.Add(s.codeTTL()),
		}
		if ch != nil {
			newCh.WrongAttempts = ch.WrongAttempts
			newCh.UserBlockedUntil = ch.UserBlockedUntil
		}

		if err := tx.SaveChallenge(ctx, newCh); err != nil {
			slog.ErrorContext(ctx, "failed to repo save challenge", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		if err := s.sms.Send(ctx, in.Receiver, smsTemplate+code); err != nil {
			slog.ErrorContext(ctx, "failed to deliver verification code", "receiver", in.Receiver, "error", err)
			return goerror.NewServer(err)
		}

		out = &RequestCodeOutput{
			RemainingBlockSeconds: remainingSeconds(now, th.BlockUntil),
			Code:                  code,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
