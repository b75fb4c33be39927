package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shandysiswandi/swivel/internal/pkg/clock"
	"github.com/shandysiswandi/swivel/internal/pkg/config"
	"github.com/shandysiswandi/swivel/internal/pkg/goroutine"
	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/pkg/jwt"
	"github.com/shandysiswandi/swivel/internal/pkg/messaging"
	"github.com/shandysiswandi/swivel/internal/pkg/router"
	"github.com/shandysiswandi/swivel/internal/pkg/uid"
	"github.com/shandysiswandi/swivel/internal/pkg/validator"
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
	uuid      uid.StringID
	jwt       jwt.JWT
	registry  *prometheus.Registry

	// resources
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
	app.initJWT()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
