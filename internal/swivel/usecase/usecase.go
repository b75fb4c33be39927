package usecase

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shandysiswandi/swivel/internal/pkg/clock"
	"github.com/shandysiswandi/swivel/internal/pkg/config"
	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/pkg/validator"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type transport interface {
	Exchange(ctx context.Context, req entity.VerificationRequest) entity.ExchangeResult
	CanReach(ctx context.Context, endpoint string) bool
}

type auditor interface {
	RecordFailure(ctx context.Context, rec entity.AuditRecord)
	RecordSuccess(ctx context.Context, principalID string)
}

// PrincipalSource resolves the principal established by primary
// authentication. ok is false when there is no such context.
type PrincipalSource func(ctx context.Context) (principalID string, ok bool)

// Usecase verifies one-time codes against the Swivel server.
type Usecase struct {
	transport  transport
	auditor    auditor
	principal  PrincipalSource
	errorCodes entity.ErrorCodeTable
	validator  validator.Validator
	cfg        config.Config
	clock      clock.Clocker
	ins        instrument.Instrumentation

	verifications metric.Int64Counter
	reachable     metric.Int64Gauge
	remoteUp      prometheus.Gauge
}

// Dependency holds what New needs to build a Usecase.
type Dependency struct {
	Transport  transport
	Auditor    auditor
	Principal  PrincipalSource
	ErrorCodes entity.ErrorCodeTable
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	// Registerer receives the swivel_remote_up gauge. Nil skips registration.
	Registerer prometheus.Registerer
}

// New returns a Usecase wired to dep.
func New(dep Dependency) *Usecase {
	s := &Usecase{
		transport:  dep.Transport,
		auditor:    dep.Auditor,
		principal:  dep.Principal,
		errorCodes: dep.ErrorCodes,
		validator:  dep.Validator,
		cfg:        dep.Config,
		clock:      dep.Clock,
		ins:        dep.Instrument,
		remoteUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swivel_remote_up",
			Help: "Whether the last reachability probe of the Swivel server got HTTP 200 (1) or not (0).",
		}),
	}

	meter := s.ins.Meter("swivel.usecase")

	var err error
	s.verifications, err = meter.Int64Counter("swivel.verifications",
		metric.WithDescription("Number of OTC verification attempts by outcome"))
	if err != nil {
		slog.Error("failed to create swivel.verifications counter", "error", err)
	}

	s.reachable, err = meter.Int64Gauge("swivel.reachable",
		metric.WithDescription("Result of the last Swivel reachability probe"))
	if err != nil {
		slog.Error("failed to create swivel.reachable gauge", "error", err)
	}

	if dep.Registerer != nil {
		if err := dep.Registerer.Register(s.remoteUp); err != nil {
			slog.Error("failed to register swivel_remote_up gauge", "error", err)
		}
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("swivel.usecase").Start(ctx, name)
}

// remoteConfig reads the swivel.* keys on every call so config reloads apply.
func (s *Usecase) remoteConfig() entity.Config {
	return entity.Config{
		URL:             s.cfg.GetString("swivel.url"),
		SharedSecret:    s.cfg.GetString("swivel.shared_secret"),
		IgnoreSSLErrors: s.cfg.GetBool("swivel.ignore_ssl_errors"),
	}
}
