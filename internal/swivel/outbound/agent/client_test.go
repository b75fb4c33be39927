package agent

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"github.com/shandysiswandi/swivel/internal/swivel/swiveltest"
)

const testSecret = "shared-secret"

func newRequest(endpoint, principal, otc string, ignoreTLS bool) entity.VerificationRequest {
	return entity.NewVerificationRequest(entity.Config{
		URL:             endpoint,
		SharedSecret:    testSecret,
		IgnoreSSLErrors: ignoreTLS,
	}, principal, otc)
}

func TestClient_Exchange_FakeAgent(t *testing.T) {
	srv := swiveltest.NewServer(t, testSecret)
	srv.FailUser("locked", "AGENT_ERROR_USER_LOCKED")
	c := New(Config{})

	tests := []struct {
		name         string
		principal    string
		otc          func() string
		wantPassed   bool
		wantAgentErr string
	}{
		{name: "valid code", principal: "alice", otc: func() string { return srv.Code(t) }, wantPassed: true},
		{name: "wrong code", principal: "alice", otc: func() string { return "000000x" }},
		{name: "agent error", principal: "locked", otc: func() string { return srv.Code(t) }, wantAgentErr: "AGENT_ERROR_USER_LOCKED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			res := c.Exchange(context.Background(), newRequest(srv.Endpoint(), tt.principal, tt.otc(), false))

			// Assert
			if !res.Completed {
				t.Fatalf("exchange not completed: %+v", res)
			}
			if res.Passed != tt.wantPassed || res.AgentError != tt.wantAgentErr {
				t.Fatalf("got passed=%v agentError=%q", res.Passed, res.AgentError)
			}
			if res.ResponseCode != http.StatusOK {
				t.Fatalf("ResponseCode = %d", res.ResponseCode)
			}
		})
	}

	if user, pass := srv.LastLogin(); user != "locked" || pass != "" {
		t.Fatalf("LastLogin() = (%q, %q)", user, pass)
	}
	if srv.AgentHits() != int64(len(tests)) {
		t.Fatalf("AgentHits() = %d, want %d (no retries)", srv.AgentHits(), len(tests))
	}
}

func TestClient_Exchange_WrongSecret(t *testing.T) {
	srv := swiveltest.NewServer(t, "other")

	res := New(Config{}).Exchange(context.Background(), newRequest(srv.Endpoint(), "alice", srv.Code(t), false))

	if !res.Completed || res.Passed || res.AgentError != "AGENT_ERROR_AGENT_ACCESS" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_Exchange_Incomplete(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		delay  time.Duration
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "oops"},
		{name: "not xml", status: http.StatusOK, body: "hello"},
		{name: "unknown result", status: http.StatusOK, body: "<SASResponse><Result>MAYBE</Result></SASResponse>"},
		{name: "timeout", status: http.StatusOK, body: "<SASResponse><Result>PASS</Result></SASResponse>", delay: 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.delay > 0 {
					select {
					case <-time.After(tt.delay):
					case <-r.Context().Done():
						return
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			c := New(Config{Timeout: 100 * time.Millisecond})

			// Act
			res := c.Exchange(context.Background(), newRequest(srv.URL, "alice", "123456", false))

			// Assert
			if res.Completed {
				t.Fatalf("expected incomplete exchange, got %+v", res)
			}
			if res.Err == nil {
				t.Fatalf("expected error detail")
			}
			if tt.delay == 0 && (res.ResponseCode != tt.status || res.RawResponse != tt.body) {
				t.Fatalf("lost response details: %+v", res)
			}
		})
	}
}

func TestClient_Exchange_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	res := New(Config{}).Exchange(context.Background(), newRequest(endpoint, "alice", "123456", false))

	if res.Completed || res.Err == nil || res.ResponseCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_Exchange_TLS(t *testing.T) {
	srv := swiveltest.NewServer(t, testSecret, swiveltest.WithTLS())
	c := New(Config{})

	strict := c.Exchange(context.Background(), newRequest(srv.Endpoint(), "alice", srv.Code(t), false))
	if strict.Completed {
		t.Fatalf("self-signed certificate must fail without ignore flag: %+v", strict)
	}

	lenient := c.Exchange(context.Background(), newRequest(srv.Endpoint(), "alice", srv.Code(t), true))
	if !lenient.Completed || !lenient.Passed {
		t.Fatalf("ignore flag must allow self-signed certificate: %+v", lenient)
	}
}

func TestClient_Exchange_WireFormat(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = r.Method + " " + r.URL.Path + " " + string(body)
		_, _ = w.Write([]byte("<SASResponse><Result>PASS</Result></SASResponse>"))
	}))
	t.Cleanup(srv.Close)

	New(Config{AgentPath: "/AgentXML"}).Exchange(context.Background(), newRequest(srv.URL+"/pinsafe", "bob", "42", false))

	for _, want := range []string{
		"POST /pinsafe/AgentXML ",
		"<SASRequest><Version>3.4</Version><Secret>shared-secret</Secret><Action>login</Action>",
		"<Username>bob</Username><Password></Password><OTC>42</OTC></SASRequest>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("request %q does not contain %q", got, want)
		}
	}
}
