package entity

import (
	"errors"
	"strconv"

	"github.com/shandysiswandi/swivel/internal/pkg/goerror"
)

// VerificationError is the single error value returned by a failed
// verification. It unwraps to a *goerror.Error carrying the HTTP mapping.
type VerificationError struct {
	Kind            Kind
	RemoteErrorCode string
	ResponseCode    int
	err             error
}

// NewVerificationError classifies kind and wraps cause, which may be nil.
func NewVerificationError(kind Kind, cause error) *VerificationError {
	return &VerificationError{Kind: kind, err: toGoError(kind, cause)}
}

// NewRejectionError builds the error for a remote rejection.
func NewRejectionError(kind Kind, remoteErrorCode string, responseCode int) *VerificationError {
	e := NewVerificationError(kind, nil)
	e.RemoteErrorCode = remoteErrorCode
	e.ResponseCode = responseCode
	return e
}

func toGoError(kind Kind, cause error) error {
	msg := string(kind)
	switch kind {
	case KindInvalidCredential:
		return goerror.New(cause, msg, goerror.TypeValidation, goerror.CodeInvalidInput)
	case KindMissingAuthenticationContext:
		return goerror.New(cause, msg, goerror.TypeValidation, goerror.CodeUnauthorized)
	case KindMisconfigured:
		return goerror.New(cause, msg, goerror.TypeServer, goerror.CodeInternal)
	case KindRemoteFailure:
		return goerror.NewUnavailable(cause, msg)
	default:
		return goerror.New(cause, msg, goerror.TypeBusiness, goerror.CodeUnauthorized)
	}
}

func (e *VerificationError) Error() string {
	s := "swivel: " + string(e.Kind)
	if e.RemoteErrorCode != "" {
		s += " (" + e.RemoteErrorCode + ")"
	}
	if e.Kind == KindRemoteFailure && e.ResponseCode != 0 {
		s += " status=" + strconv.Itoa(e.ResponseCode)
	}
	return s
}

func (e *VerificationError) Unwrap() error {
	return e.err
}

// Category is a shortcut for e.Kind.Category().
func (e *VerificationError) Category() Category {
	return e.Kind.Category()
}

// KindOf returns the kind of a verification error in err's chain.
func KindOf(err error) (Kind, bool) {
	var verr *VerificationError
	if !errors.As(err, &verr) {
		return "", false
	}
	return verr.Kind, true
}
