package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takonote/verigate/internal/pkg/goerror"
)

type UpdateEmployerInput struct {
	ClientID                     string `validate:"required,uuid"`
	EmployerIdentificationNumber string `validate:"required,numeric,min=9,max=12"`
}

// UpdateEmployer applies an employer change event to the client record. A
// missing client is logged and dropped rather than retried, the event may
// arrive before this service knows the client at all.
func (s *Usecase) UpdateEmployer(ctx context.Context, in UpdateEmployerInput) error {
	ctx, span := s.startSpan(ctx, "UpdateEmployer")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	err := s.repoDB.UpdateEmployer(ctx, in.ClientID, in.EmployerIdentificationNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "employer update for unknown client", "client_id", in.ClientID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update employer", "client_id", in.ClientID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
