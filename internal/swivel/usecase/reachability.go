package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// CanReach probes swivel.url. It is a diagnostic signal only and never
// gates Verify.
func (s *Usecase) CanReach(ctx context.Context) bool {
	ctx, span := s.startSpan(ctx, "CanReach")
	defer span.End()

	endpoint := s.cfg.GetString("swivel.url")
	ok := s.transport.CanReach(ctx, endpoint)
	span.SetAttributes(attribute.Bool("swivel.reachable", ok))

	s.recordReachability(ctx, ok)
	return ok
}

// MonitorReachability probes every interval until ctx is done, logging state
// changes. It returns nil when ctx is canceled.
func (s *Usecase) MonitorReachability(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.CanReach(ctx)
	slog.InfoContext(ctx, "swivel reachability monitor started", "interval", interval.String(), "reachable", last)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := s.CanReach(ctx)
			if now != last {
				if now {
					slog.InfoContext(ctx, "swivel server is reachable again")
				} else {
					slog.WarnContext(ctx, "swivel server became unreachable", "url", s.cfg.GetString("swivel.url"))
				}
				last = now
			}
		}
	}
}

func (s *Usecase) recordReachability(ctx context.Context, ok bool) {
	var v int64
	if ok {
		v = 1
	}
	if s.reachable != nil {
		s.reachable.Record(ctx, v)
	}
	s.remoteUp.Set(float64(v))
}
