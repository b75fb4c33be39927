package event

import "time"

const VerificationFailedDestination string = "swivel.verification.failed"
const VerificationSucceededDestination string = "swivel.verification.succeeded"

// VerificationFailedMessage never carries the shared secret or the OTC.
type VerificationFailedMessage struct {
	EventID         string    `json:"event_id"`
	PrincipalID     string    `json:"principal_id"`
	Kind            string    `json:"kind"`
	Category        string    `json:"category"`
	ResponseCode    int       `json:"response_code,omitempty"`
	RemoteErrorCode string    `json:"remote_error_code,omitempty"`
	RawResponse     string    `json:"raw_response,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type VerificationSucceededMessage struct {
	EventID     string    `json:"event_id"`
	PrincipalID string    `json:"principal_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
