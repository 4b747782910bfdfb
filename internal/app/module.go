package app

import (
	"log/slog"
	"os"

	"github.com/takonote/verigate/internal/client"
	"github.com/takonote/verigate/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			OTP:         a.otp,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.client.enabled") {
		if err := client.New(client.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module client", "error", err)
			os.Exit(1)
		}
	}
}
