package swivel

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shandysiswandi/swivel/internal/pkg/clock"
	"github.com/shandysiswandi/swivel/internal/pkg/config"
	"github.com/shandysiswandi/swivel/internal/pkg/goroutine"
	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/pkg/jwt"
	"github.com/shandysiswandi/swivel/internal/pkg/messaging"
	"github.com/shandysiswandi/swivel/internal/pkg/router"
	"github.com/shandysiswandi/swivel/internal/pkg/validator"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"github.com/shandysiswandi/swivel/internal/swivel/inbound"
	"github.com/shandysiswandi/swivel/internal/swivel/outbound/agent"
	"github.com/shandysiswandi/swivel/internal/swivel/outbound/mq"
	"github.com/shandysiswandi/swivel/internal/swivel/usecase"
)

type Dependency struct {
	// Ctx bounds the reachability monitor. Nil disables it.
	Ctx        context.Context
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Registerer prometheus.Registerer      `validate:"required"`
	// Messaging receives audit events. Nil keeps auditing in the logs only.
	Messaging messaging.Messaging
}

func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	client := agent.New(agent.Config{
		AgentPath:    dep.Config.GetString("swivel.agent_path"),
		Timeout:      dep.Config.GetSecond("swivel.timeout_seconds"),
		ProbeTimeout: dep.Config.GetSecond("swivel.probe_timeout_seconds"),
		Instrument:   dep.Instrument,
	})

	var auditor interface {
		RecordFailure(ctx context.Context, rec entity.AuditRecord)
		RecordSuccess(ctx context.Context, principalID string)
	} = mq.NopAuditor{}
	if dep.Messaging != nil {
		auditor = mq.NewAuditor(dep.Messaging, dep.Goroutine, dep.Instrument, dep.Clock)
	}

	errorCodes := entity.NewErrorCodeTable(dep.Config.GetMap("swivel.error_codes"))

	uc := usecase.New(usecase.Dependency{
		Transport:  client,
		Auditor:    auditor,
		Principal:  jwt.PrincipalFromContext,
		ErrorCodes: errorCodes,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Registerer: dep.Registerer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if interval := dep.Config.GetSecond("swivel.monitor_interval_seconds"); dep.Ctx != nil && interval > 0 {
		if !dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
			return uc.MonitorReachability(ctx, interval)
		}) {
			slog.Warn("swivel reachability monitor not started")
		}
	}

	slog.Info("swivel module ready", "error_codes", errorCodes.Len(), "audit_events", dep.Messaging != nil)

	return uc, nil
}
