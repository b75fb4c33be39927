package mq

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/swivel/internal/pkg/clock"
	"github.com/shandysiswandi/swivel/internal/pkg/goroutine"
	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/pkg/messaging"
	"github.com/shandysiswandi/swivel/internal/shared/event"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
)

type published struct {
	destination string
	msg         messaging.OutgoingMessage
}

type fakePublisher struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
	sent     []published
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failures {
		return messaging.PublishResult{}, f.err
	}
	f.sent = append(f.sent, published{destination: destination, msg: msg})
	return messaging.PublishResult{Topic: destination}, nil
}

func newTestAuditor(pub messaging.Publisher, gm *goroutine.Manager, now time.Time) *Auditor {
	a := NewAuditor(pub, gm, instrument.NewNoop(), clock.Fixed(now))
	a.backoff = func() retry.Backoff {
		return retry.WithMaxRetries(3, retry.NewConstant(time.Millisecond))
	}
	return a
}

func TestAuditor_RecordFailure(t *testing.T) {
	// Arrange
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pub := &fakePublisher{failures: 2, err: errors.New("broker busy")}
	gm := goroutine.NewManager(2)
	a := newTestAuditor(pub, gm, now)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-9")

	// Act
	a.RecordFailure(ctx, entity.AuditRecord{
		PrincipalID:     "alice",
		Kind:            entity.KindUserLocked,
		ResponseCode:    200,
		RemoteErrorCode: "AGENT_ERROR_USER_LOCKED",
		RawResponse:     "<SASResponse/>",
	})
	err := gm.Wait()

	// Assert
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if pub.calls != 3 || len(pub.sent) != 1 {
		t.Fatalf("calls = %d, sent = %d", pub.calls, len(pub.sent))
	}

	got := pub.sent[0]
	if got.destination != event.VerificationFailedDestination {
		t.Fatalf("destination = %q", got.destination)
	}
	if got.msg.Headers[keyOfCorrelationID] != "cid-9" || string(got.msg.Key) != "alice" {
		t.Fatalf("headers = %v key = %q", got.msg.Headers, got.msg.Key)
	}

	var body event.VerificationFailedMessage
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Kind != "swivel.auth.user.locked" || body.Category != "rejection" || !body.OccurredAt.Equal(now) {
		t.Fatalf("body = %+v", body)
	}
	if _, err := ulid.ParseStrict(body.EventID); err != nil {
		t.Fatalf("event id %q is not a ULID: %v", body.EventID, err)
	}
}

func TestAuditor_RecordSuccess(t *testing.T) {
	pub := &fakePublisher{}
	gm := goroutine.NewManager(1)
	a := newTestAuditor(pub, gm, time.Now())

	a.RecordSuccess(context.Background(), "bob")
	if err := gm.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(pub.sent) != 1 || pub.sent[0].destination != event.VerificationSucceededDestination {
		t.Fatalf("sent = %+v", pub.sent)
	}
	if strings.Contains(string(pub.sent[0].msg.Body), "otc") {
		t.Fatalf("success event must not mention the otc: %s", pub.sent[0].msg.Body)
	}
}

func TestAuditor_GivesUp(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{name: "transient error exhausts retries", err: errors.New("broker down"), wantCalls: 4},
		{name: "permanent error is not retried", err: messaging.ErrUnsupported, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{failures: 100, err: tt.err}
			gm := goroutine.NewManager(1)
			a := newTestAuditor(pub, gm, time.Now())

			a.RecordFailure(context.Background(), entity.AuditRecord{PrincipalID: "alice", Kind: entity.KindRemoteFailure})

			if err := gm.Wait(); !errors.Is(err, tt.err) {
				t.Fatalf("Wait() error = %v, want %v", err, tt.err)
			}
			if pub.calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", pub.calls, tt.wantCalls)
			}
		})
	}
}

func TestAuditor_ClosedPoolDrops(t *testing.T) {
	pub := &fakePublisher{}
	gm := goroutine.NewManager(1)
	_ = gm.Wait()

	newTestAuditor(pub, gm, time.Now()).RecordSuccess(context.Background(), "bob")

	if pub.calls != 0 {
		t.Fatalf("closed pool must not publish")
	}
}
