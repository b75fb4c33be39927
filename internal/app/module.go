package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/swivel/internal/swivel"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.swivel.enabled") {
		slog.Warn("module swivel is disabled")
		return
	}

	if _, err := swivel.New(swivel.Dependency{
		Ctx:        a.ctx,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		Goroutine:  a.goroutine,
		Registerer: a.registry,
		Messaging:  a.messaging,
	}); err != nil {
		slog.Error("failed to init module swivel", "error", err)
		os.Exit(1)
	}
}
