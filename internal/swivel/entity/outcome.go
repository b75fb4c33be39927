package entity

import "strings"

// OutcomeType is the interpretation of a completed or failed agent exchange.
type OutcomeType int

const (
	OutcomeSuccess OutcomeType = iota + 1
	OutcomeRemoteFailure
	OutcomeRejected
	OutcomeRejectedGeneric
)

func (o OutcomeType) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRemoteFailure:
		return "remote_failure"
	case OutcomeRejected:
		return "rejected"
	case OutcomeRejectedGeneric:
		return "rejected_generic"
	default:
		return "unknown"
	}
}

// Outcome is the interpreted result of one exchange. ResponseCode and
// RawResponse are set for OutcomeRemoteFailure, RemoteErrorCode for
// OutcomeRejected.
type Outcome struct {
	Type            OutcomeType
	ResponseCode    int
	RawResponse     string
	RemoteErrorCode string
	Err             error
}

// Interpret classifies an exchange result into exactly one outcome.
func Interpret(res ExchangeResult) Outcome {
	switch {
	case !res.Completed:
		return Outcome{
			Type:         OutcomeRemoteFailure,
			ResponseCode: res.ResponseCode,
			RawResponse:  res.RawResponse,
			Err:          res.Err,
		}
	case res.Passed:
		return Outcome{Type: OutcomeSuccess}
	case strings.TrimSpace(res.AgentError) == "":
		return Outcome{Type: OutcomeRejectedGeneric, ResponseCode: res.ResponseCode, RawResponse: res.RawResponse}
	default:
		return Outcome{
			Type:            OutcomeRejected,
			ResponseCode:    res.ResponseCode,
			RawResponse:     res.RawResponse,
			RemoteErrorCode: strings.TrimSpace(res.AgentError),
		}
	}
}

// RejectionToken returns the remote token to look up. A generic rejection
// carries no token, so the fallback kind is used as one.
func (o Outcome) RejectionToken() string {
	if o.RemoteErrorCode == "" {
		return string(KindAuthenticationFailed)
	}
	return o.RemoteErrorCode
}
