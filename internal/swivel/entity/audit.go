package entity

import (
	"log/slog"
	"time"
)

// AuditRecord describes a failed verification for postmortem diagnosis.
// It never holds the shared secret or the OTC.
type AuditRecord struct {
	PrincipalID     string
	Kind            Kind
	ResponseCode    int
	RemoteErrorCode string
	RawResponse     string
	OccurredAt      time.Time
}

func (r AuditRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("principal_id", r.PrincipalID),
		slog.String("kind", string(r.Kind)),
		slog.String("category", r.Kind.Category().String()),
		slog.Int("response_code", r.ResponseCode),
		slog.String("remote_error_code", r.RemoteErrorCode),
		slog.String("raw_response", r.RawResponse),
	)
}
