package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeAllower struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeAllower) Allow(ctx context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

func serve(t *testing.T, a Allower) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", PerClientIP(a), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestPerClientIP_Admits(t *testing.T) {
	f := &fakeAllower{allow: true}
	if w := serve(t, f); w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(f.keys) != 1 || f.keys[0] != "ratelimit:10.0.0.1" {
		t.Fatalf("unexpected keys: %v", f.keys)
	}
}

func TestPerClientIP_RejectsWith429(t *testing.T) {
	if w := serve(t, &fakeAllower{allow: false}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestPerClientIP_FailsOpenOnError(t *testing.T) {
	f := &fakeAllower{err: errors.New("redis down")}
	if w := serve(t, f); w.Code != 200 {
		t.Fatalf("expected fail-open 200, got %d", w.Code)
	}
}

func TestFixedWindowScriptCompiles(t *testing.T) {
	// Compile-time smoke test: script should be initialized.
	if fixedWindowScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}
