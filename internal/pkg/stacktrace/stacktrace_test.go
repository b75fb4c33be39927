package stacktrace

import "testing"

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/swivel/internal/swivel/usecase.(*Usecase).Verify(...)
	/src/internal/swivel/usecase/verify.go:42 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2220 +0x29
`)

	got := InternalPaths(stack)

	if len(got) != 1 {
		t.Fatalf("InternalPaths = %v, want one frame", got)
	}
	if got[0] != "internal/swivel/usecase/verify.go:42" {
		t.Fatalf("frame = %q", got[0])
	}
}
