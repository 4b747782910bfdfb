// Package verification wires the verification engine: code issuance with
// resend throttling, verification with wrong-attempt escalation, the operator
// block, and the passport-to-phone lookup.
package verification

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/takonote/verigate/internal/pkg/clock"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/idempotency"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/otp"
	"github.com/takonote/verigate/internal/pkg/router"
	"github.com/takonote/verigate/internal/pkg/validator"
	"github.com/takonote/verigate/internal/verification/inbound"
	"github.com/takonote/verigate/internal/verification/outbound/db"
	"github.com/takonote/verigate/internal/verification/outbound/sms"
	"github.com/takonote/verigate/internal/verification/usecase"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	OTP         otp.Generator              `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	gateway := sms.New(sms.Config{
		URL:    dep.Config.GetString("sms.gateway_url"),
		Secret: dep.Config.GetBinary("sms.gateway_secret"),
		Idem:   dep.Idempotency,
		Ins:    dep.Instrument,
	})

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		SMS:        gateway,
		Validator:  dep.Validator,
		Config:     dep.Config,
		OTP:        dep.OTP,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetString("admin.api_key"))

	return nil
}
