package agent

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shandysiswandi/swivel/internal/pkg/instrument"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultAgentPath is appended to the server URL for AgentXML calls.
	DefaultAgentPath = "AgentXML"

	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second
	maxResponseBytes    = 64 * 1024
)

var errUnexpectedResult = errors.New("agent: reply has no PASS/FAIL result")

// Config configures a Client. Zero durations use the defaults.
type Config struct {
	AgentPath    string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	Instrument   instrument.Instrumentation
}

// Client talks to a Swivel agent server over AgentXML.
//
// The verifying client is used unless a request explicitly sets
// IgnoreTLSErrors, in which case insecureClient is used instead.
type Client struct {
	client         *http.Client
	insecureClient *http.Client
	probeClient    *http.Client
	agentPath      string
	ins            instrument.Instrumentation
}

// New builds a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	agentPath := cfg.AgentPath
	if agentPath == "" {
		agentPath = DefaultAgentPath
	}
	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	secure := http.DefaultTransport.(*http.Transport).Clone()

	insecure := http.DefaultTransport.(*http.Transport).Clone()
	//nolint:gosec // opt-in via swivel.ignore_ssl_errors for self-signed agent certificates
	insecure.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(secure),
		},
		insecureClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(insecure),
		},
		probeClient: &http.Client{
			Timeout:   probeTimeout,
			Transport: otelhttp.NewTransport(secure),
		},
		agentPath: agentPath,
		ins:       ins,
	}
}

func (c *Client) httpClient(ignoreTLSErrors bool) *http.Client {
	if ignoreTLSErrors {
		return c.insecureClient
	}
	return c.client
}

// Exchange performs one login exchange for req. It never retries. The
// result is Completed only when the server answered 200 with PASS or FAIL.
func (c *Client) Exchange(ctx context.Context, req entity.VerificationRequest) entity.ExchangeResult {
	ctx, span := c.ins.Tracer("swivel.outbound.agent").Start(ctx, "Exchange")
	defer span.End()

	span.SetAttributes(attribute.Bool("swivel.ignore_tls_errors", req.IgnoreTLSErrors))

	res := c.exchange(ctx, req)
	if !res.Completed {
		span.SetStatus(codes.Error, "incomplete exchange")
		if res.Err != nil {
			span.RecordError(res.Err)
		}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", res.ResponseCode))

	return res
}

func (c *Client) exchange(ctx context.Context, req entity.VerificationRequest) entity.ExchangeResult {
	target, err := url.JoinPath(req.Endpoint, c.agentPath)
	if err != nil {
		return entity.ExchangeResult{Err: fmt.Errorf("agent: invalid endpoint: %w", err)}
	}

	body, err := encodeLogin(req.SharedSecret, req.PrincipalID, req.Password, req.OTC)
	if err != nil {
		return entity.ExchangeResult{Err: fmt.Errorf("agent: encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return entity.ExchangeResult{Err: fmt.Errorf("agent: build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("Accept", "text/xml")

	resp, err := c.httpClient(req.IgnoreTLSErrors).Do(httpReq)
	if err != nil {
		return entity.ExchangeResult{Err: fmt.Errorf("agent: send request: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.WarnContext(ctx, "agent: failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	res := entity.ExchangeResult{ResponseCode: resp.StatusCode, RawResponse: string(raw)}
	if err != nil {
		res.Err = fmt.Errorf("agent: read response: %w", err)
		return res
	}

	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("agent: unexpected status %d", resp.StatusCode)
		return res
	}

	result, agentError, err := decodeResult(raw)
	if err != nil {
		res.Err = fmt.Errorf("agent: decode response: %w", err)
		return res
	}

	switch result {
	case resultPass:
		res.Completed, res.Passed = true, true
	case resultFail:
		res.Completed, res.AgentError = true, agentError
	default:
		res.Err = errUnexpectedResult
	}

	return res
}
