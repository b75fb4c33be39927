package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/swivel/internal/pkg/jwt"
	"github.com/shandysiswandi/swivel/internal/pkg/router"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"github.com/shandysiswandi/swivel/internal/swivel/usecase"
)

type stubJWT struct{}

func (stubJWT) Generate(string) (string, error) { return "token", nil }

func (stubJWT) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	var c jwt.Claims
	c.Subject = "alice"
	return c, nil
}

type stubUsecase struct {
	err       error
	reachable bool
	gotOTC    string
	gotUser   string
}

func (s *stubUsecase) Verify(ctx context.Context, in usecase.VerifyInput) (*entity.PrincipalResult, error) {
	s.gotOTC = in.OTC
	s.gotUser, _ = jwt.PrincipalFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PrincipalResult{PrincipalID: s.gotUser}, nil
}

func (s *stubUsecase) CanReach(context.Context) bool { return s.reachable }

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestVerifyEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		body     string
		ucErr    error
		wantCode int
		wantMsg  string
	}{
		{name: "verified", token: "good", body: `{"otc":"123456"}`, wantCode: http.StatusOK, wantMsg: "Second factor verified"},
		{name: "no bearer token", body: `{"otc":"123456"}`, wantCode: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "unknown field", token: "good", body: `{"otc":"1","pin":"2"}`, wantCode: http.StatusBadRequest},
		{
			name: "blank otc", token: "good", body: `{"otc":""}`,
			ucErr:    entity.NewVerificationError(entity.KindInvalidCredential, nil),
			wantCode: http.StatusUnprocessableEntity, wantMsg: string(entity.KindInvalidCredential),
		},
		{
			name: "locked user", token: "good", body: `{"otc":"123456"}`,
			ucErr:    entity.NewRejectionError(entity.KindUserLocked, "AGENT_ERROR_USER_LOCKED", 200),
			wantCode: http.StatusUnauthorized, wantMsg: string(entity.KindUserLocked),
		},
		{
			name: "remote down", token: "good", body: `{"otc":"123456"}`,
			ucErr:    entity.NewVerificationError(entity.KindRemoteFailure, nil),
			wantCode: http.StatusServiceUnavailable, wantMsg: string(entity.KindRemoteFailure),
		},
		{
			name: "misconfigured", token: "good", body: `{"otc":"123456"}`,
			ucErr:    entity.NewVerificationError(entity.KindMisconfigured, nil),
			wantCode: http.StatusInternalServerError, wantMsg: string(entity.KindMisconfigured),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc := &stubUsecase{err: tt.ucErr}
			ro := router.NewRouter(router.Config{JWT: stubJWT{}})
			RegisterHTTPEndpoint(ro, uc)

			// Act
			code, env := do(t, ro, http.MethodPost, "/api/v1/swivel/verify", tt.token, tt.body)

			// Assert
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.wantCode, env)
			}
			if tt.wantMsg != "" && env.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if code == http.StatusOK {
				var data VerifyResponse
				if err := json.Unmarshal(env.Data, &data); err != nil || data.PrincipalID != "alice" {
					t.Fatalf("data = %s", env.Data)
				}
				if uc.gotOTC != "123456" || uc.gotUser != "alice" {
					t.Fatalf("usecase got otc=%q user=%q", uc.gotOTC, uc.gotUser)
				}
			}
		})
	}
}

func TestReachabilityEndpoint(t *testing.T) {
	for _, reachable := range []bool{true, false} {
		ro := router.NewRouter(router.Config{JWT: stubJWT{}})
		RegisterHTTPEndpoint(ro, &stubUsecase{reachable: reachable})

		code, env := do(t, ro, http.MethodGet, "/api/v1/swivel/reachability", "", "")

		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		var data ReachabilityResponse
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Reachable != reachable {
			t.Fatalf("data = %s, want reachable=%v", env.Data, reachable)
		}
	}
}
