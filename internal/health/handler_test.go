// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all healthy",
			deps:       []Dependency{{"database", pinger{}}, {"redis", pinger{}}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "redis down",
			deps:       []Dependency{{"database", pinger{}}, {"redis", pinger{errors.New("refused")}}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name:       "unconfigured",
			deps:       []Dependency{{"database", nil}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewHandler(tt.deps...), "/readyz")
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}

			var resp ReadinessResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus || len(resp.Checks) != len(tt.deps) {
				t.Errorf("response = %+v", resp)
			}
			for i, c := range resp.Checks {
				if c.Name != tt.deps[i].Name {
					t.Errorf("check %d = %q, want %q", i, c.Name, tt.deps[i].Name)
				}
			}
		})
	}
}

func TestShutdownDrainsProbes(t *testing.T) {
	h := NewHandler(Dependency{"database", pinger{}})

	if w := serve(h, "/livez"); w.Code != http.StatusOK {
		t.Fatalf("livez before shutdown = %d", w.Code)
	}

	h.SetShutdown(true)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		if w := serve(h, path); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s during shutdown = %d, want 503", path, w.Code)
		}
	}
}

func TestNotReady(t *testing.T) {
	h := NewHandler()
	h.SetReady(false)

	if w := serve(h, "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz = %d, want 503", w.Code)
	}
	if w := serve(h, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", w.Code)
	}
}

func TestIsProbe(t *testing.T) {
	for path, want := range map[string]bool{
		"/readyz":        true,
		"/healthz":       true,
		"/metrics":       false,
		"/auth/login":    false,
		"/readyz/extra":  false,
		"/guard/checkin": false,
	} {
		if got := IsProbe(httptest.NewRequest(http.MethodGet, path, nil)); got != want {
			t.Errorf("IsProbe(%s) = %v, want %v", path, got, want)
		}
	}
}
