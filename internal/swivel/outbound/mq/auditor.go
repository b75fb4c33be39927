package mq

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/swivel/internal/pkg/clock"
	"github.com/shandysiswandi/swivel/internal/pkg/goroutine"
	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/pkg/messaging"
	"github.com/shandysiswandi/swivel/internal/shared/event"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"
	publishTimeout            = 15 * time.Second
)

// Auditor publishes verification audit events in the background.
type Auditor struct {
	client    messaging.Publisher
	goroutine *goroutine.Manager
	ins       instrument.Instrumentation
	clock     clock.Clocker
	backoff   func() retry.Backoff
}

// NewAuditor returns an Auditor publishing through client. Publishing runs on gm.
func NewAuditor(client messaging.Publisher, gm *goroutine.Manager, ins instrument.Instrumentation, clk clock.Clocker) *Auditor {
	return &Auditor{
		client:    client,
		goroutine: gm,
		ins:       ins,
		clock:     clk,
		backoff:   defaultBackoff,
	}
}

func defaultBackoff() retry.Backoff {
	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	return retry.WithMaxRetries(3, b)
}

// RecordFailure publishes rec to event.VerificationFailedDestination.
func (a *Auditor) RecordFailure(ctx context.Context, rec entity.AuditRecord) {
	at := rec.OccurredAt
	if at.IsZero() {
		at = a.clock.Now()
	}

	a.publishAsync(ctx, event.VerificationFailedDestination, rec.PrincipalID, event.VerificationFailedMessage{
		EventID:         newEventID(at),
		PrincipalID:     rec.PrincipalID,
		Kind:            string(rec.Kind),
		Category:        rec.Kind.Category().String(),
		ResponseCode:    rec.ResponseCode,
		RemoteErrorCode: rec.RemoteErrorCode,
		RawResponse:     rec.RawResponse,
		OccurredAt:      at,
	})
}

// RecordSuccess publishes to event.VerificationSucceededDestination.
func (a *Auditor) RecordSuccess(ctx context.Context, principalID string) {
	at := a.clock.Now()
	a.publishAsync(ctx, event.VerificationSucceededDestination, principalID, event.VerificationSucceededMessage{
		EventID:     newEventID(at),
		PrincipalID: principalID,
		OccurredAt:  at,
	})
}

func newEventID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}

func (a *Auditor) publishAsync(ctx context.Context, destination, key string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal audit event", "destination", destination, "error", err)
		return
	}

	msg := messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(key),
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}

	// detached from the request so the event survives the response
	bg := context.WithoutCancel(ctx)
	if ok := a.goroutine.Go(bg, func(ctx context.Context) error {
		return a.publish(ctx, destination, msg)
	}); !ok {
		slog.WarnContext(ctx, "audit event dropped, worker pool closed", "destination", destination)
	}
}

func (a *Auditor) publish(ctx context.Context, destination string, msg messaging.OutgoingMessage) error {
	ctx, span := a.ins.Tracer("swivel.outbound.mq").Start(ctx, "Publish "+destination)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := retry.Do(ctx, a.backoff(), func(ctx context.Context) error {
		_, err := a.client.Publish(ctx, destination, msg)
		if err == nil {
			return nil
		}
		if errors.Is(err, messaging.ErrDestinationRequired) || errors.Is(err, messaging.ErrUnsupported) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to publish audit event", "destination", destination, "error", err)
		return err
	}

	return nil
}

// NopAuditor discards audit events. Verification failures are still logged
// by the caller.
type NopAuditor struct{}

func (NopAuditor) RecordFailure(context.Context, entity.AuditRecord) {}

func (NopAuditor) RecordSuccess(context.Context, string) {}
