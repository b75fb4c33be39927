package entity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shandysiswandi/swivel/internal/pkg/goerror"
)

func TestVerificationError_Mapping(t *testing.T) {
	tests := []struct {
		kind     Kind
		category Category
		status   int
	}{
		{KindInvalidCredential, CategoryValidation, http.StatusUnprocessableEntity},
		{KindMissingAuthenticationContext, CategoryValidation, http.StatusUnauthorized},
		{KindMisconfigured, CategoryValidation, http.StatusInternalServerError},
		{KindRemoteFailure, CategoryTransport, http.StatusServiceUnavailable},
		{KindUserLocked, CategoryRejection, http.StatusUnauthorized},
		{KindAuthenticationFailed, CategoryRejection, http.StatusUnauthorized},
		{Kind("swivel.auth.custom"), CategoryRejection, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			// Arrange
			err := fmt.Errorf("wrapped: %w", NewVerificationError(tt.kind, nil))

			// Act
			kind, ok := KindOf(err)
			var gerr *goerror.Error
			isGo := errors.As(err, &gerr)

			// Assert
			if !ok || kind != tt.kind {
				t.Fatalf("KindOf() = (%q, %v), want %q", kind, ok, tt.kind)
			}
			if kind.Category() != tt.category {
				t.Fatalf("Category() = %v, want %v", kind.Category(), tt.category)
			}
			if !isGo || gerr.StatusCode() != tt.status {
				t.Fatalf("goerror status mismatch: %v", gerr)
			}
			if gerr.Msg() != string(tt.kind) {
				t.Fatalf("Msg() = %q, want kind", gerr.Msg())
			}
		})
	}
}

func TestVerificationError_Cause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewVerificationError(KindRemoteFailure, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if _, ok := KindOf(cause); ok {
		t.Fatalf("KindOf(plain error) must be false")
	}
}

func TestNewRejectionError(t *testing.T) {
	err := NewRejectionError(KindUserLocked, "AGENT_ERROR_USER_LOCKED", http.StatusOK)

	if !strings.Contains(err.Error(), "AGENT_ERROR_USER_LOCKED") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if err.Category() != CategoryRejection {
		t.Fatalf("Category() = %v", err.Category())
	}
}
