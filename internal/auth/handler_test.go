// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(newTestService(t)).RegisterRoutes(r, passthrough)
	return r
}

func postLogin(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandlerFailuresIndistinguishable(t *testing.T) {
	h := newTestRouter(t)

	unknown := postLogin(t, h, LoginRequest{
		Email:    "nobody@acme.test",
		Password: testPassword,
	})
	wrong := postLogin(t, h, LoginRequest{
		Email:    "guard@acme.test",
		Password: "Wrong1Password",
	})

	if unknown.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", unknown.Code)
	}
	if unknown.Code != wrong.Code {
		t.Errorf("status differs: %d vs %d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("body differs:\n%s\n%s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestLoginHandlerSuccess(t *testing.T) {
	h := newTestRouter(t)

	rec := postLogin(t, h, LoginRequest{
		Email:    "guard@acme.test",
		Password: testPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool          `json:"success"`
		Data    LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Token == "" {
		t.Errorf("response = %+v", body)
	}
	if body.Data.User.Role != "Guard" {
		t.Errorf("role = %q", body.Data.User.Role)
	}
}

func TestLoginHandlerValidation(t *testing.T) {
	h := newTestRouter(t)

	rec := postLogin(t, h, map[string]string{"email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
