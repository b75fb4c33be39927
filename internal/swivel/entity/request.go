package entity

import (
	"log/slog"
	"strings"
)

// Config is the remote server configuration used for one attempt.
type Config struct {
	URL             string `validate:"notblank"`
	SharedSecret    string `validate:"notblank"`
	IgnoreSSLErrors bool
}

// LogValue omits the shared secret.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("ignore_ssl_errors", c.IgnoreSSLErrors),
		slog.Bool("shared_secret_set", strings.TrimSpace(c.SharedSecret) != ""),
	)
}

// VerificationRequest is the input of one exchange with the agent server.
type VerificationRequest struct {
	Endpoint     string
	SharedSecret string
	PrincipalID  string
	// Password is always empty: only the OTC is checked.
	Password        string
	OTC             string
	IgnoreTLSErrors bool
}

// NewVerificationRequest builds the request for principalID and otc.
func NewVerificationRequest(cfg Config, principalID, otc string) VerificationRequest {
	return VerificationRequest{
		Endpoint:        strings.TrimSpace(cfg.URL),
		SharedSecret:    cfg.SharedSecret,
		PrincipalID:     principalID,
		OTC:             otc,
		IgnoreTLSErrors: cfg.IgnoreSSLErrors,
	}
}

// String omits the shared secret and the OTC.
func (r VerificationRequest) String() string {
	return "VerificationRequest{endpoint=" + r.Endpoint + ", principal_id=" + r.PrincipalID + "}"
}

// LogValue omits the shared secret and the OTC.
func (r VerificationRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", r.Endpoint),
		slog.String("principal_id", r.PrincipalID),
		slog.Bool("ignore_tls_errors", r.IgnoreTLSErrors),
	)
}

// ExchangeResult is what the transport reports about one exchange.
type ExchangeResult struct {
	// Completed is true when the server gave a definitive PASS or FAIL.
	Completed bool
	// Passed is the verdict; meaningful only when Completed.
	Passed       bool
	AgentError   string
	ResponseCode int
	RawResponse  string
	// Err is the transport error of an incomplete exchange, if any.
	Err error
}

// PrincipalResult is returned by a successful verification.
type PrincipalResult struct {
	PrincipalID string
}
