package usecase

import (
	"context"

	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	UpdateEmployer(ctx context.Context, clientID, employerIdentificationNumber string) error
}

// Usecase keeps the client directory in sync with upstream employer changes.
type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("client.usecase").Start(ctx, name)
}
