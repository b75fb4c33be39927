package router

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/swivel/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed under
// app.maintenance.endpoints. Entries are either a route pattern
// ("/api/v1/swivel/verify") or a method and pattern ("POST /api/v1/swivel/verify").
// The list is read per request so config reloads apply.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			blocked := lo.ContainsBy(cfg.GetArray("app.maintenance.endpoints"), func(entry string) bool {
				method, path, hasMethod := strings.Cut(strings.TrimSpace(entry), " ")
				if !hasMethod {
					return method == route
				}
				return strings.EqualFold(method, r.Method) && strings.TrimSpace(path) == route
			})
			if blocked {
				writeJSON(w, errorResponse{Message: "Service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
