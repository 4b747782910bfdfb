package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/takonote/verigate/internal/pkg/clock"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/goroutine"
	"github.com/takonote/verigate/internal/pkg/idempotency"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/messaging"
	"github.com/takonote/verigate/internal/pkg/otp"
	"github.com/takonote/verigate/internal/pkg/router"
	"github.com/takonote/verigate/internal/pkg/uid"
	"github.com/takonote/verigate/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.Generator
	otp       otp.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
