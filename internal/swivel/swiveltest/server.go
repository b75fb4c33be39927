package swiveltest

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/atomic"
)

// BasePath is the server URL path; AgentXML requests go to BasePath/AgentPath.
const (
	BasePath  = "/pinsafe"
	AgentPath = "AgentXML"
)

type loginRequest struct {
	XMLName  xml.Name `xml:"SASRequest"`
	Version  string   `xml:"Version"`
	Secret   string   `xml:"Secret"`
	Action   string   `xml:"Action"`
	Username string   `xml:"Username"`
	Password string   `xml:"Password"`
	OTC      string   `xml:"OTC"`
}

type loginResponse struct {
	XMLName xml.Name `xml:"SASResponse"`
	Version string   `xml:"Version"`
	Result  string   `xml:"Result"`
	Error   string   `xml:"Error,omitempty"`
}

// Server is a fake agent server backed by httptest.
type Server struct {
	*httptest.Server

	secret string
	key    *otp.Key

	agentHits *atomic.Int64
	probeHits *atomic.Int64

	mu         sync.RWMutex
	userErrors map[string]string
	probeCode  int
	lastLogin  loginRequest
}

type options struct {
	tls bool
}

// Option configures NewServer.
type Option func(*options)

// WithTLS serves over TLS with a self-signed certificate.
func WithTLS() Option {
	return func(o *options) { o.tls = true }
}

// NewServer starts a fake agent accepting secret. It is closed on test cleanup.
func NewServer(t testing.TB, secret string, opts ...Option) *Server {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "swiveltest", AccountName: "agent"})
	if err != nil {
		t.Fatalf("swiveltest: generate totp key: %v", err)
	}

	s := &Server{
		secret:     secret,
		key:        key,
		agentHits:  atomic.NewInt64(0),
		probeHits:  atomic.NewInt64(0),
		userErrors: map[string]string{},
		probeCode:  http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleProbe)
	mux.HandleFunc("POST "+BasePath+"/"+AgentPath, s.handleAgent)

	if o.tls {
		s.Server = httptest.NewTLSServer(mux)
	} else {
		s.Server = httptest.NewServer(mux)
	}
	t.Cleanup(s.Close)

	return s
}

// Endpoint is the value to configure as swivel.url.
func (s *Server) Endpoint() string {
	return s.URL + BasePath
}

// Code returns an OTC the server currently accepts.
func (s *Server) Code(t testing.TB) string {
	t.Helper()

	code, err := totp.GenerateCode(s.key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("swiveltest: generate code: %v", err)
	}
	return code
}

// FailUser makes every login of username fail with the agent error token.
// An empty token produces a FAIL reply without an Error element.
func (s *Server) FailUser(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userErrors[username] = token
}

// SetProbeStatus sets the status returned for GET requests.
func (s *Server) SetProbeStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeCode = code
}

// AgentHits returns the number of AgentXML requests received.
func (s *Server) AgentHits() int64 {
	return s.agentHits.Load()
}

// ProbeHits returns the number of GET requests received.
func (s *Server) ProbeHits() int64 {
	return s.probeHits.Load()
}

// LastLogin returns the username and password of the last login request.
func (s *Server) LastLogin() (username, password string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLogin.Username, s.lastLogin.Password
}

func (s *Server) handleProbe(w http.ResponseWriter, _ *http.Request) {
	s.probeHits.Inc()

	s.mu.RLock()
	code := s.probeCode
	s.mu.RUnlock()

	w.WriteHeader(code)
	fmt.Fprint(w, "Swivel PINsafe")
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	s.agentHits.Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req loginRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		http.Error(w, "malformed AgentXML", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.lastLogin = req
	token, forced := s.userErrors[req.Username]
	s.mu.Unlock()

	switch {
	case req.Secret != s.secret:
		s.reply(w, "FAIL", "AGENT_ERROR_AGENT_ACCESS")
	case !strings.EqualFold(req.Action, "login"):
		s.reply(w, "FAIL", "AGENT_ERROR_GENERAL")
	case forced:
		s.reply(w, "FAIL", token)
	case strings.TrimSpace(req.OTC) == "":
		s.reply(w, "FAIL", "AGENT_ERROR_NO_OTC")
	case totp.Validate(req.OTC, s.key.Secret()):
		s.reply(w, "PASS", "")
	default:
		s.reply(w, "FAIL", "")
	}
}

func (s *Server) reply(w http.ResponseWriter, result, agentError string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	out, err := xml.Marshal(loginResponse{Version: "3.4", Result: result, Error: agentError})
	if err != nil {
		return
	}
	_, _ = io.WriteString(w, xml.Header)
	_, _ = w.Write(out)
}
