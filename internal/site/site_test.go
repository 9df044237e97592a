// AngelaMos | 2026
// site_test.go

package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/geo"
	"github.com/carterperez-dev/guardops/internal/middleware"
)

const (
	tenantA = "11111111-1111-4111-8111-111111111111"
	tenantB = "22222222-2222-4222-8222-222222222222"
	siteA   = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	siteB   = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

type fakeRepo struct {
	mu          sync.Mutex
	sites       map[string]*Site
	checkpoints map[string]*Checkpoint
}

func newFakeRepo() *fakeRepo {
	f := &fakeRepo{
		sites:       map[string]*Site{},
		checkpoints: map[string]*Checkpoint{},
	}
	f.sites[siteA] = &Site{ID: siteA, TenantID: tenantA, Name: "North Gate", GeofenceRadius: 100, IsActive: true}
	f.sites[siteB] = &Site{ID: siteB, TenantID: tenantB, Name: "Harbour", GeofenceRadius: 100, IsActive: true}
	return f
}

func (f *fakeRepo) CreateSite(_ context.Context, s *Site) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.TenantID != tenantA && s.TenantID != tenantB {
		return core.ErrTenantNotFound
	}
	clone := *s
	f.sites[s.ID] = &clone
	return nil
}

func (f *fakeRepo) GetSite(_ context.Context, scope authz.Scope, id string) (*Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sites[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !scope.Allows(s.TenantID) {
		return nil, core.ErrForbidden
	}
	clone := *s
	return &clone, nil
}

func (f *fakeRepo) ListSites(_ context.Context, scope authz.Scope, activeOnly bool) ([]Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Site{}
	for _, s := range f.sites {
		if scope.Allows(s.TenantID) && (!activeOnly || s.IsActive) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateCheckpoint(_ context.Context, c *Checkpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.checkpoints {
		if existing.Code == c.Code {
			return core.ErrDuplicateKey
		}
	}
	clone := *c
	f.checkpoints[c.ID] = &clone
	return nil
}

func (f *fakeRepo) ListCheckpoints(_ context.Context, scope authz.Scope, siteID string) ([]Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Checkpoint{}
	for _, c := range f.checkpoints {
		if c.SiteID == siteID && scope.Allows(c.TenantID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetCheckpointByCode(_ context.Context, scope authz.Scope, code string) (*Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.checkpoints {
		if c.Code == code && c.IsActive && scope.Allows(c.TenantID) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

var (
	owner  = &authz.Principal{UserID: "owner", Role: authz.RolePlatformOwner}
	adminA = &authz.Principal{UserID: "admin-a", Role: authz.RoleCompanyAdmin, TenantID: tenantA}
	superA = &authz.Principal{UserID: "super-a", Role: authz.RoleSupervisor, TenantID: tenantA}
	guardA = &authz.Principal{UserID: "guard-a", Role: authz.RoleGuard, TenantID: tenantA}
)

func newRouter(repo Repository, p *authz.Principal) http.Handler {
	h := NewHandler(NewService(repo))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithPrincipal(req.Context(), p)))
		})
	})
	r.Route("/management", func(r chi.Router) { h.RegisterRoutes(r, nil) })
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

func TestCreateSite(t *testing.T) {
	tests := []struct {
		name   string
		caller *authz.Principal
		body   string
		want   int
	}{
		{"admin own tenant", adminA, `{"name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusCreated},
		{"admin foreign tenant", adminA, `{"tenant_id":"` + tenantB + `","name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusForbidden},
		{"owner without tenant", owner, `{"name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusBadRequest},
		{"owner names tenant", owner, `{"tenant_id":"` + tenantB + `","name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusCreated},
		{"supervisor cannot create", superA, `{"name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusForbidden},
		{"guard cannot create", guardA, `{"name":"Depot","latitude":51.5,"longitude":-0.12}`, http.StatusForbidden},
		{"latitude out of range", adminA, `{"name":"Depot","latitude":95,"longitude":-0.12}`, http.StatusBadRequest},
		{"missing coordinates", adminA, `{"name":"Depot"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, newRouter(newFakeRepo(), tt.caller), http.MethodPost, "/management/sites", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestCreateSiteDefaultsRadius(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	lat, lng := 51.5, -0.12

	s, err := svc.CreateSite(context.Background(), adminA, CreateSiteRequest{
		Name:      "Depot",
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	if s.GeofenceRadius != DefaultGeofenceRadius || !s.IsActive || s.TenantID != tenantA {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestGetSiteTenantChecked(t *testing.T) {
	repo := newFakeRepo()

	tests := []struct {
		name   string
		caller *authz.Principal
		id     string
		want   int
	}{
		{"supervisor own site", superA, siteA, http.StatusOK},
		{"supervisor foreign site", superA, siteB, http.StatusForbidden},
		{"owner foreign site", owner, siteB, http.StatusOK},
		{"missing", adminA, "cccccccc-cccc-4ccc-8ccc-cccccccccccc", http.StatusNotFound},
		{"guard blocked by policy", guardA, siteA, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, newRouter(repo, tt.caller), http.MethodGet, "/management/sites/"+tt.id, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListSitesScoped(t *testing.T) {
	repo := newFakeRepo()

	w, resp := do(t, newRouter(repo, adminA), http.MethodGet, "/management/sites", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	sites, _ := resp.Data.([]any)
	if len(sites) != 1 {
		t.Errorf("admin sees %d sites, want 1", len(sites))
	}

	_, resp = do(t, newRouter(repo, owner), http.MethodGet, "/management/sites", "")
	if sites, _ := resp.Data.([]any); len(sites) != 2 {
		t.Errorf("owner sees %d sites, want 2", len(sites))
	}
}

func TestCreateCheckpoint(t *testing.T) {
	repo := newFakeRepo()
	h := newRouter(repo, adminA)
	body := `{"name":"Loading Bay","latitude":51.5,"longitude":-0.12,"checkpoint_code":"NG-001"}`

	w, resp := do(t, h, http.MethodPost, "/management/sites/"+siteA+"/checkpoints", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	data, _ := resp.Data.(map[string]any)
	if data["checkpoint_type"] != "QR" || data["expected_interval_minutes"] != float64(60) || data["is_mandatory"] != true {
		t.Errorf("checkpoint defaults not applied: %v", data)
	}

	w, _ = do(t, h, http.MethodPost, "/management/sites/"+siteA+"/checkpoints", body)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate code: status = %d, want 409", w.Code)
	}

	w, _ = do(t, h, http.MethodPost, "/management/sites/"+siteB+"/checkpoints",
		`{"name":"Quay","latitude":51.5,"longitude":-0.12,"checkpoint_code":"HB-001"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign site: status = %d, want 403", w.Code)
	}

	for _, c := range repo.checkpoints {
		if c.TenantID != tenantA {
			t.Errorf("checkpoint %s landed in tenant %s", c.Code, c.TenantID)
		}
	}
}

func TestCheckpointByCodeScoped(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	lat, lng := 1.0, 1.0

	if _, err := svc.CreateCheckpoint(context.Background(), owner, siteB, CreateCheckpointRequest{
		Name: "Quay", Latitude: &lat, Longitude: &lng, Code: "HB-001",
	}); err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if _, err := svc.CheckpointByCode(context.Background(), authz.ScopeFor(guardA), " HB-001 "); err == nil {
		t.Error("guard of tenant A resolved tenant B's checkpoint")
	}
	c, err := svc.CheckpointByCode(context.Background(), authz.ScopeFor(owner), "HB-001")
	if err != nil || c.SiteID != siteB {
		t.Errorf("owner lookup: %v %+v", err, c)
	}
}

func TestSiteContains(t *testing.T) {
	s := &Site{Latitude: 40.7128, Longitude: -74.0060, GeofenceRadius: 150}

	if !s.Contains(geo.Point{Latitude: 40.7130, Longitude: -74.0062}) {
		t.Error("point ~30m away should be inside a 150m fence")
	}
	if s.Contains(geo.Point{Latitude: 40.7228, Longitude: -74.0060}) {
		t.Error("point ~1.1km away should be outside")
	}
}
