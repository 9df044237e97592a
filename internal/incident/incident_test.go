// AngelaMos | 2026
// incident_test.go

package incident

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/middleware"
	"github.com/carterperez-dev/guardops/internal/shift"
	"github.com/carterperez-dev/guardops/internal/site"
)

const (
	tenantA  = "11111111-1111-4111-8111-111111111111"
	tenantB  = "22222222-2222-4222-8222-222222222222"
	siteA    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	siteA2   = "abababab-abab-4bab-8bab-abababababab"
	siteB    = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	reportB  = "eeeeeeee-eeee-4eee-8eee-eeeeeeeeeeee"
	notThere = "ffffffff-ffff-4fff-8fff-ffffffffffff"
)

type fakeRepo struct {
	mu      sync.Mutex
	reports map[string]*Report
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: map[string]*Report{
		reportB: {ID: reportB, TenantID: tenantB, SiteID: siteB, Status: StatusOpen},
	}}
}

func (f *fakeRepo) Create(_ context.Context, r *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r.CreatedAt = time.Now()
	clone := *r
	f.reports[r.ID] = &clone
	return nil
}

func (f *fakeRepo) Get(_ context.Context, scope authz.Scope, id string) (*Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reports[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !scope.Allows(r.TenantID) {
		return nil, core.ErrForbidden
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, scope authz.Scope, id string, u StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reports[id]
	if !ok || !scope.Allows(r.TenantID) || r.Status != u.From {
		return core.ErrInvalidTransition
	}
	r.Status = u.To
	if u.ActionsTaken != nil {
		r.ActionsTaken = u.ActionsTaken
	}
	return nil
}

type fakeShifts map[string]*shift.Shift

func (f fakeShifts) Current(_ context.Context, p *authz.Principal) (*shift.Shift, error) {
	return f[p.UserID], nil
}

type fakeSites map[string]*site.Site

func (f fakeSites) GetSite(_ context.Context, p *authz.Principal, id string) (*site.Site, error) {
	s, ok := f[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !authz.CanAccess(p, s.TenantID) {
		return nil, core.ErrForbidden
	}
	return s, nil
}

var (
	guardA    = &authz.Principal{UserID: "guard-a", Role: authz.RoleGuard, TenantID: tenantA}
	offDutyA  = &authz.Principal{UserID: "guard-off", Role: authz.RoleGuard, TenantID: tenantA}
	superA    = &authz.Principal{UserID: "super-a", Role: authz.RoleSupervisor, TenantID: tenantA}
	ownerUser = &authz.Principal{UserID: "owner", Role: authz.RolePlatformOwner}
)

func fixture() (*fakeRepo, *Service) {
	repo := newFakeRepo()
	shifts := fakeShifts{
		"guard-a": {ID: "shift-1", TenantID: tenantA, GuardID: "guard-a", SiteID: siteA},
	}
	sites := fakeSites{
		siteA:  {ID: siteA, TenantID: tenantA, Name: "North Gate"},
		siteA2: {ID: siteA2, TenantID: tenantA, Name: "Depot"},
		siteB:  {ID: siteB, TenantID: tenantB, Name: "Harbour"},
	}
	return repo, NewService(repo, shifts, sites)
}

func newRouter(svc *Service, p *authz.Principal) http.Handler {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithPrincipal(req.Context(), p)))
		})
	})
	r.Route("/guard", func(r chi.Router) { h.RegisterGuardRoutes(r, nil) })
	r.Route("/management", func(r chi.Router) { h.RegisterManagementRoutes(r, nil) })
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, core.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp core.Response
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode body %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusResolved, true},
		{StatusOpen, StatusClosed, true},
		{StatusInProgress, StatusResolved, true},
		{StatusResolved, StatusClosed, true},
		{StatusOpen, StatusOpen, false},
		{StatusResolved, StatusInProgress, false},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusClosed, false},
		{Status("Archived"), StatusClosed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestReportOnDutyUsesShiftSite(t *testing.T) {
	repo, svc := fixture()

	body := `{
		"site_id": "` + siteA2 + `",
		"description": "Gate left open",
		"incident_type": "Security",
		"latitude": 40.71, "longitude": -74.00,
		"media": [
			{"media_type": "Photo", "file_name": "gate.jpg", "file_path": "incidents/gate.jpg", "file_size": 2048},
			{"media_type": "Audio", "file_name": "note.m4a", "file_path": "incidents/note.m4a", "duration_seconds": 12}
		]
	}`

	w, resp := do(t, newRouter(svc, guardA), http.MethodPost, "/guard/incident", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	data, _ := resp.Data.(map[string]any)
	if data["site_id"] != siteA || data["shift_id"] != "shift-1" {
		t.Errorf("incident not attached to the active shift: %v", data)
	}
	if data["title"] != "Security" || data["severity"] != "Medium" || data["status"] != "Open" {
		t.Errorf("defaults not applied: %v", data)
	}

	stored := repo.reports[data["id"].(string)]
	if len(stored.Media) != 2 {
		t.Fatalf("media = %d, want 2", len(stored.Media))
	}
	for _, m := range stored.Media {
		if m.IncidentReportID != stored.ID || m.TenantID != tenantA {
			t.Errorf("media not bound to report: %+v", m)
		}
	}
}

func TestReportRejections(t *testing.T) {
	tests := []struct {
		name   string
		caller *authz.Principal
		body   string
		want   int
	}{
		{"off duty without site", offDutyA, `{"description":"x","incident_type":"Other","latitude":1,"longitude":1}`, http.StatusBadRequest},
		{"off duty foreign site", offDutyA, `{"site_id":"` + siteB + `","description":"x","incident_type":"Other","latitude":1,"longitude":1}`, http.StatusForbidden},
		{"off duty own site", offDutyA, `{"site_id":"` + siteA2 + `","description":"x","incident_type":"Other","latitude":1,"longitude":1}`, http.StatusCreated},
		{"unknown type", guardA, `{"description":"x","incident_type":"Alien","latitude":1,"longitude":1}`, http.StatusBadRequest},
		{"bad media type", guardA, `{"description":"x","incident_type":"Other","latitude":1,"longitude":1,"media":[{"media_type":"Hologram","file_name":"a","file_path":"b"}]}`, http.StatusBadRequest},
		{"supervisor cannot file", superA, `{"description":"x","incident_type":"Other","latitude":1,"longitude":1}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := fixture()
			w, _ := do(t, newRouter(svc, tt.caller), http.MethodPost, "/guard/incident", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetIncidentTenantChecked(t *testing.T) {
	_, svc := fixture()

	tests := []struct {
		name   string
		caller *authz.Principal
		id     string
		want   int
	}{
		{"supervisor foreign tenant", superA, reportB, http.StatusForbidden},
		{"owner any tenant", ownerUser, reportB, http.StatusOK},
		{"missing", superA, notThere, http.StatusNotFound},
		{"guard blocked", guardA, reportB, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, newRouter(svc, tt.caller), http.MethodGet, "/management/incidents/"+tt.id, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	_, svc := fixture()
	h := newRouter(svc, ownerUser)
	path := "/management/incidents/" + reportB + "/status"

	w, resp := do(t, h, http.MethodPut, path, `{"status":"InProgress","actions_taken":"patrol dispatched"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("open to in-progress: status = %d (%s)", w.Code, w.Body.String())
	}
	data, _ := resp.Data.(map[string]any)
	if data["status"] != "InProgress" || data["actions_taken"] != "patrol dispatched" {
		t.Errorf("updated report = %v", data)
	}

	w, resp = do(t, h, http.MethodPut, path, `{"status":"Open"}`)
	if w.Code != http.StatusBadRequest || resp.Error.Code != "INVALID_TRANSITION" {
		t.Errorf("backward move: status = %d error = %+v", w.Code, resp.Error)
	}

	w, _ = do(t, h, http.MethodPut, path, `{"status":"Closed"}`)
	if w.Code != http.StatusOK {
		t.Errorf("in-progress to closed: status = %d", w.Code)
	}

	w, _ = do(t, newRouter(svc, superA), http.MethodPut, path, `{"status":"Closed"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign supervisor: status = %d, want 403", w.Code)
	}
}
