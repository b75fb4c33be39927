package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/swivel/internal/pkg/goerror"
	"github.com/shandysiswandi/swivel/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a handler panic into a 500 response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // sentinel is compared by identity
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(r.Context(), "router: handler panicked", "panic", rvr, "frames", paths)
			} else {
				slog.ErrorContext(r.Context(), "router: handler panicked", "panic", rvr, "stack", string(stack))
			}

			writeError(r.Context(), w, goerror.NewServer(fmt.Errorf("panic: %v", rvr)))
		}()

		next.ServeHTTP(w, r)
	})
}
