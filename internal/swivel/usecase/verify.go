package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	OTC string
}

// Verify checks in.OTC for the principal carried by ctx against the Swivel
// server. It performs at most one exchange and never retries. Failures are
// returned as *entity.VerificationError.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*entity.PrincipalResult, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	res, err := s.verify(ctx, in)

	outcome := "success"
	if kind, ok := entity.KindOf(err); ok {
		outcome = kind.Category().String()
		span.SetStatus(codes.Error, string(kind))
		span.SetAttributes(attribute.String("swivel.kind", string(kind)))
	}
	if s.verifications != nil {
		s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}

	return res, err
}

func (s *Usecase) verify(ctx context.Context, in VerifyInput) (*entity.PrincipalResult, error) {
	if strings.TrimSpace(in.OTC) == "" {
		slog.WarnContext(ctx, "swivel otc is blank")
		return nil, s.fail(ctx, entity.AuditRecord{Kind: entity.KindInvalidCredential}, nil)
	}

	principalID, ok := s.principal(ctx)
	if !ok || strings.TrimSpace(principalID) == "" {
		slog.WarnContext(ctx, "no authenticated principal to attach swivel verification to")
		return nil, s.fail(ctx, entity.AuditRecord{Kind: entity.KindMissingAuthenticationContext}, nil)
	}

	cfg := s.remoteConfig()
	if err := s.validator.Validate(cfg); err != nil {
		slog.ErrorContext(ctx, "swivel url/shared secret is not configured", "principal_id", principalID, "config", cfg, "error", err)
		return nil, s.fail(ctx, entity.AuditRecord{PrincipalID: principalID, Kind: entity.KindMisconfigured}, err)
	}

	req := entity.NewVerificationRequest(cfg, principalID, in.OTC)
	slog.DebugContext(ctx, "sending swivel verification request", "request", req)

	out := entity.Interpret(s.transport.Exchange(ctx, req))

	switch out.Type {
	case entity.OutcomeSuccess:
		slog.InfoContext(ctx, "swivel verification succeeded", "principal_id", principalID)
		s.auditor.RecordSuccess(ctx, principalID)
		return &entity.PrincipalResult{PrincipalID: principalID}, nil

	case entity.OutcomeRemoteFailure:
		rec := entity.AuditRecord{
			PrincipalID:  principalID,
			Kind:         entity.KindRemoteFailure,
			ResponseCode: out.ResponseCode,
			RawResponse:  out.RawResponse,
		}
		verr := entity.NewVerificationError(entity.KindRemoteFailure, out.Err)
		verr.ResponseCode = out.ResponseCode
		return nil, s.record(ctx, rec, verr, out.Err)

	default:
		token := out.RejectionToken()
		kind := s.errorCodes.Lookup(token)
		rec := entity.AuditRecord{
			PrincipalID:     principalID,
			Kind:            kind,
			ResponseCode:    out.ResponseCode,
			RemoteErrorCode: token,
			RawResponse:     out.RawResponse,
		}
		return nil, s.record(ctx, rec, entity.NewRejectionError(kind, token, out.ResponseCode), nil)
	}
}

func (s *Usecase) fail(ctx context.Context, rec entity.AuditRecord, cause error) error {
	return s.record(ctx, rec, entity.NewVerificationError(rec.Kind, cause), cause)
}

// record logs and audits a failure and returns verr.
func (s *Usecase) record(ctx context.Context, rec entity.AuditRecord, verr *entity.VerificationError, cause error) error {
	rec.OccurredAt = s.clock.Now()

	attrs := []any{"audit", rec}
	if cause != nil {
		attrs = append(attrs, "error", cause)
	}
	slog.ErrorContext(ctx, "swivel verification failed", attrs...)

	s.auditor.RecordFailure(ctx, rec)
	return verr
}
