// AngelaMos | 2026
// params.go

package core

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathID reads a UUID route parameter. A malformed id is answered with
// 400 and ok=false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := uuid.Validate(id); err != nil {
		BadRequest(w, name+" must be a valid UUID")
		return "", false
	}
	return id, true
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// QueryDate parses a YYYY-MM-DD query value as a UTC day. Missing or
// malformed values fall back to today.
func QueryDate(r *http.Request, key string, now time.Time) time.Time {
	today := now.UTC().Truncate(24 * time.Hour)

	val := r.URL.Query().Get(key)
	if val == "" {
		return today
	}

	day, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return today
	}

	return day.UTC()
}
