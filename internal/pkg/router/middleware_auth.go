package router

import (
	"net/http"
	"strings"
	"sync"

	"github.com/shandysiswandi/swivel/internal/pkg/jwt"
)

type publicSet struct {
	mu        sync.RWMutex
	endpoints map[string]map[string]struct{}
}

func newPublicSet() *publicSet {
	return &publicSet{endpoints: make(map[string]map[string]struct{})}
}

func (p *publicSet) add(method, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.endpoints[method]; !ok {
		p.endpoints[method] = make(map[string]struct{})
	}
	p.endpoints[method][path] = struct{}{}
}

func (p *publicSet) has(method, path string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.endpoints[method][path]
	return ok
}

// middlewareAuthentication verifies the bearer token and stores its claims,
// which carry the principal id, on the request context.
func middlewareAuthentication(verifier jwt.JWT, public *publicSet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.has(r.Method, matchedRoutePath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			if verifier == nil {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			p := strings.Fields(r.Header.Get("Authorization"))
			if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(p[1])
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
