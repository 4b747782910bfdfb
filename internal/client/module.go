// Package client keeps the client directory consumed by the verification
// lookup in sync with upstream events.
package client

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/takonote/verigate/internal/client/inbound"
	"github.com/takonote/verigate/internal/client/outbound/db"
	"github.com/takonote/verigate/internal/client/usecase"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/goroutine"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/messaging"
	"github.com/takonote/verigate/internal/pkg/uid"
	"github.com/takonote/verigate/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.Generator
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
}

func New(dep Dependency) error {
	dbClient := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbClient,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
