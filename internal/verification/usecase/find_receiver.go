package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takonote/verigate/internal/pkg/goerror"
)

type FindReceiverInput struct {
	PassportNumber string `validate:"required,alphanum,min=6,max=20"`
}

type FindReceiverOutput struct {
	MobilePhone string
}

// FindReceiver resolves a client's mobile phone from a passport number via
// the client directory. It shares the verification surface but takes no part
// in throttling.
func (s *Usecase) FindReceiver(ctx context.Context, in FindReceiverInput) (*FindReceiverOutput, error) {
	ctx, span := s.startSpan(ctx, "FindReceiver")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone, err := s.repoDB.GetClientPhoneByPassport(ctx, in.PassportNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewNotFound("Client not found")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get client phone by passport", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &FindReceiverOutput{MobilePhone: phone}, nil
}
