// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("get site: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", fmt.Errorf("create: %w", ErrDuplicateKey), http.StatusConflict, "DUPLICATE"},
		{"forbidden", fmt.Errorf("target tenant: %w", ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"tenant missing", ErrTenantNotFound, http.StatusBadRequest, "TENANT_NOT_FOUND"},
		{"capacity", &CapacityExceededError{Current: 10, Max: 10}, http.StatusBadRequest, "CAPACITY_EXCEEDED"},
		{"validation", NewValidationError("site_id", "is required"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"active shift", fmt.Errorf("start: %w", ErrActiveShiftExists), http.StatusBadRequest, "ACTIVE_SHIFT_EXISTS"},
		{"no shift", ErrNoActiveShift, http.StatusBadRequest, "NO_ACTIVE_SHIFT"},
		{"transition", fmt.Errorf("Closed to Open: %w", ErrInvalidTransition), http.StatusBadRequest, "INVALID_TRANSITION"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"app error passes through", TokenExpiredError(), http.StatusUnauthorized, "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorFor(tt.err, "site")
			if got == nil {
				t.Fatal("ErrorFor returned nil")
			}
			if got.StatusCode != tt.wantStatus || got.Code != tt.wantCode {
				t.Errorf("ErrorFor = %d %s, want %d %s",
					got.StatusCode, got.Code, tt.wantStatus, tt.wantCode)
			}
		})
	}

	if got := ErrorFor(errors.New("connection reset"), "site"); got != nil {
		t.Errorf("unknown error mapped to %+v", got)
	}
}

func TestCapacityMessage(t *testing.T) {
	err := &CapacityExceededError{Current: 12, Max: 12}
	want := "user limit exceeded: maximum allowed users: 12, current users: 12"
	if err.Error() != want {
		t.Errorf("message = %q", err.Error())
	}
}

func TestHandleErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"mapped", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unmapped", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, "incident")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("envelope = %+v", resp)
			}
			if tt.wantStatus == http.StatusInternalServerError && resp.Error.Message != "internal server error" {
				t.Errorf("internal detail leaked: %q", resp.Error.Message)
			}
		})
	}
}

func TestOKEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]int{"count": 3})

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Error   *ErrorBody     `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || !resp.Success || resp.Data["count"] != 3 || resp.Error != nil {
		t.Errorf("envelope = %d %+v", w.Code, resp)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
