package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/swivel/internal/pkg/config"
	"github.com/shandysiswandi/swivel/internal/pkg/goerror"
	"github.com/shandysiswandi/swivel/internal/pkg/jwt"
)

type stubJWT struct {
	subject string
	err     error
}

func (s stubJWT) Generate(string) (string, error) { return "token", nil }

func (s stubJWT) Verify(string) (jwt.Claims, error) {
	if s.err != nil {
		return jwt.Claims{}, s.err
	}
	var c jwt.Claims
	c.Subject = s.subject
	return c, nil
}

type body struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, body) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var b body
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, b
}

func TestRouter_Authentication(t *testing.T) {
	ro := NewRouter(Config{JWT: stubJWT{subject: "alice"}})
	ro.POST("/private", func(r *Request) (any, error) {
		id, _ := jwt.PrincipalFromContext(r.Context())
		return map[string]string{"principal": id}, nil
	})
	ro.GETPublic("/open", func(*Request) (any, error) {
		return map[string]string{"ok": "yes"}, nil
	})

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
		data   string
	}{
		{
			name:   "missing bearer",
			req:    func() *http.Request { return httptest.NewRequest(http.MethodPost, "/private", nil) },
			status: http.StatusUnauthorized,
		},
		{
			name: "bearer ok",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/private", nil)
				r.Header.Set("Authorization", "Bearer abc")
				return r
			},
			status: http.StatusOK,
			data:   `{"principal":"alice"}`,
		},
		{
			name:   "public route",
			req:    func() *http.Request { return httptest.NewRequest(http.MethodGet, "/open", nil) },
			status: http.StatusOK,
			data:   `{"ok":"yes"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, b := serve(t, ro, tt.req())

			// Assert
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.data != "" && string(b.Data) != tt.data {
				t.Fatalf("data = %s, want %s", b.Data, tt.data)
			}
		})
	}
}

func TestRouter_InvalidToken(t *testing.T) {
	ro := NewRouter(Config{JWT: stubJWT{err: jwt.ErrTokenExpired}})
	ro.POST("/private", func(*Request) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodPost, "/private", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec, b := serve(t, ro, req)

	if rec.Code != http.StatusUnauthorized || b.Message != "Invalid or expired token" {
		t.Fatalf("got %d %q", rec.Code, b.Message)
	}
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unavailable", goerror.NewUnavailable(errors.New("dial"), "Server unavailable"), http.StatusServiceUnavailable, "Server unavailable"},
		{"unauthorized", goerror.NewBusiness("Rejected", goerror.CodeUnauthorized), http.StatusUnauthorized, "Rejected"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := NewRouter(Config{})
			ro.GETPublic("/x", func(*Request) (any, error) { return nil, tt.err })

			rec, b := serve(t, ro, httptest.NewRequest(http.MethodGet, "/x", nil))

			if rec.Code != tt.status || b.Message != tt.msg {
				t.Fatalf("got %d %q, want %d %q", rec.Code, b.Message, tt.status, tt.msg)
			}
		})
	}
}

func TestRouter_CorrelationIDAndNotFound(t *testing.T) {
	ro := NewRouter(Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "  rid-1 ")
	rec, b := serve(t, ro, req)
	if rec.Code != http.StatusOK || b.Message != "Welcome to API Swivel" {
		t.Fatalf("welcome got %d %q", rec.Code, b.Message)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "rid-1" {
		t.Fatalf("correlation id = %q", got)
	}

	rec, _ = serve(t, ro, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	ro := NewRouter(Config{})
	ro.GETPublic("/panic", func(*Request) (any, error) { panic("boom") })

	rec, b := serve(t, ro, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError || b.Message != "Internal server error" {
		t.Fatalf("got %d %q", rec.Code, b.Message)
	}
}

func TestRequest_DecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"otc":"123"}`, false},
		{"unknown field", `{"otc":"123","x":1}`, true},
		{"trailing data", `{"otc":"123"}{}`, true},
		{"malformed", `{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				OTC string `json:"otc"`
			}
			r := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}

			err := r.DecodeBody(&dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeBody() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCID(t *testing.T) {
	long := strings.Repeat("a", 200)
	if got := normalizeCID(long); len(got) != maxCIDLen {
		t.Fatalf("len = %d", len(got))
	}
	if got := normalizeCID("a\r\nb"); got != "" {
		t.Fatalf("normalizeCID() = %q, want empty", got)
	}
}

func TestRouter_Maintenance(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: \"POST /a, /b\"\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	ro := NewRouter(Config{Config: cfg, JWT: stubJWT{subject: "alice"}})
	ok := func(*Request) (any, error) { return map[string]string{"ok": "yes"}, nil }
	ro.POST("/a", ok)
	ro.GET("/a", ok)
	ro.GET("/b", ok)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/a", http.StatusServiceUnavailable},
		{http.MethodGet, "/a", http.StatusOK},
		{http.MethodGet, "/b", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
		req.Header.Set("Authorization", "Bearer x")
		rec, _ := serve(t, ro, req)
		if rec.Code != tt.want {
			t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}

	cfg.Set("app.maintenance.endpoints", "")
	rec, _ := serve(t, ro, func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/b", nil)
		req.Header.Set("Authorization", "Bearer x")
		return req
	}())
	if rec.Code != http.StatusOK {
		t.Fatalf("after reload status = %d", rec.Code)
	}
}

func TestRouter_LogsNeverCarryOTC(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte("instrument:\n  log_mask_fields: \"password\"\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	logs := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ro := NewRouter(Config{Config: cfg, JWT: stubJWT{subject: "alice"}})
	ro.POST("/verify", func(*Request) (any, error) { return map[string]string{"ok": "yes"}, nil })

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(`{"otc":"918273","secret":"s3cr3t","note":"visible"}`))
	req.Header.Set("Authorization", "Bearer x")

	// Act
	rec, _ := serve(t, ro, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := logs.String()
	if strings.Contains(out, "918273") || strings.Contains(out, "s3cr3t") {
		t.Fatalf("secret reached logs: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("request body not logged: %s", out)
	}
}
