// AngelaMos | 2026
// user_test.go

package user

import (
	"context"
	"encoding/json"
	"errors"
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
)

const (
	tenantA = "11111111-1111-4111-8111-111111111111"
	tenantB = "22222222-2222-4222-8222-222222222222"
)

type fakeRepo struct {
	mu       sync.Mutex
	users    map[string]*User
	maxUsers map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[string]*User{},
		maxUsers: map[string]int{tenantA: 10, tenantB: 10},
	}
}

func (f *fakeRepo) seed(id, email string, role authz.Role, tenant string) *User {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := &User{
		Account:      Account{ID: id, Email: email, IsActive: true},
		Profile:      Profile{Role: role, FirstName: "F", LastName: "L"},
		TenantActive: true,
	}
	if tenant != "" {
		u.TenantID = &tenant
	}
	f.users[id] = u
	return u
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u.TenantID != nil {
		maxUsers, ok := f.maxUsers[*u.TenantID]
		if !ok {
			return core.ErrTenantNotFound
		}
		current := 0
		for _, existing := range f.users {
			if existing.Tenant() == *u.TenantID && !existing.IsDeleted() {
				current++
			}
		}
		if err := checkCapacity(current, maxUsers); err != nil {
			return err
		}
	}

	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return core.ErrDuplicateKey
		}
	}

	u.CreatedAt = time.Now()
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, scope authz.Scope, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, core.ErrNotFound
	}
	if !scope.Allows(u.Tenant()) {
		return nil, core.ErrForbidden
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) SetActive(_ context.Context, scope authz.Scope, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || !scope.Allows(u.Tenant()) {
		return core.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeRepo) List(_ context.Context, scope authz.Scope, params ListUsersParams) ([]User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []User
	for _, u := range f.users {
		if !scope.Allows(u.Tenant()) {
			continue
		}
		if params.Role != "" && string(u.Role) != params.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

var owner = &authz.Principal{UserID: "owner", Role: authz.RolePlatformOwner}

var (
	adminA = &authz.Principal{
		UserID:   "admin-a",
		Role:     authz.RoleCompanyAdmin,
		TenantID: tenantA,
	}
	guardA = &authz.Principal{
		UserID:   "guard-a",
		Role:     authz.RoleGuard,
		TenantID: tenantA,
	}
)

func newRouter(repo Repository, p *authz.Principal) http.Handler {
	h := NewHandler(NewService(repo))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithPrincipal(req.Context(), p)))
		})
	})
	r.Route("/auth", func(r chi.Router) { h.RegisterRoutes(r, nil) })
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

func registerBody(email, role, tenant string) string {
	b := map[string]any{
		"email":      email,
		"password":   "Correct1Horse",
		"first_name": "Sam",
		"last_name":  "Rivera",
		"role":       role,
	}
	if tenant != "" {
		b["tenant_id"] = tenant
	}
	out, _ := json.Marshal(b)
	return string(out)
}

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		current, max int
		wantErr      bool
	}{
		{0, 1, false},
		{1, 1, true},
		{9, 10, false},
		{10, 10, true},
		{3, 0, true},
	}

	for _, tt := range tests {
		err := checkCapacity(tt.current, tt.max)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkCapacity(%d, %d) = %v", tt.current, tt.max, err)
		}
	}

	var capErr *core.CapacityExceededError
	if !errors.As(checkCapacity(1, 1), &capErr) || capErr.Current != 1 || capErr.Max != 1 {
		t.Errorf("expected CapacityExceededError{1,1}, got %v", capErr)
	}
}

func TestRegisterCapacityExceeded(t *testing.T) {
	repo := newFakeRepo()
	repo.maxUsers[tenantA] = 1
	repo.seed("admin-a", "admin@a.example", authz.RoleCompanyAdmin, tenantA)

	w, resp := do(t, newRouter(repo, adminA), http.MethodPost, "/auth/register",
		registerBody("new@a.example", "Guard", ""))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
	want := "user limit exceeded: maximum allowed users: 1, current users: 1"
	if resp.Error == nil || resp.Error.Message != want {
		t.Errorf("error = %+v, want message %q", resp.Error, want)
	}
}

func TestRegisterCrossTenantForbidden(t *testing.T) {
	repo := newFakeRepo()

	w, _ := do(t, newRouter(repo, adminA), http.MethodPost, "/auth/register",
		registerBody("x@b.example", "Guard", tenantB))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if len(repo.users) != 0 {
		t.Error("user was created despite forbidden tenant")
	}
}

func TestRegisterRoleAssignment(t *testing.T) {
	tests := []struct {
		name   string
		caller *authz.Principal
		body   string
		want   int
	}{
		{"admin defaults to own tenant", adminA, registerBody("g@a.example", "Guard", ""), http.StatusCreated},
		{"admin cannot mint owner", adminA, registerBody("o@a.example", "PlatformOwner", ""), http.StatusForbidden},
		{"guard cannot register", guardA, registerBody("g2@a.example", "Guard", ""), http.StatusForbidden},
		{"owner must name tenant", owner, registerBody("s@a.example", "Supervisor", ""), http.StatusBadRequest},
		{"owner names tenant", owner, registerBody("s@b.example", "Supervisor", tenantB), http.StatusCreated},
		{"owner creates owner", owner, registerBody("o2@x.example", "PlatformOwner", ""), http.StatusCreated},
		{"owner with tenant rejected", owner, registerBody("o3@x.example", "PlatformOwner", tenantA), http.StatusBadRequest},
		{"weak password", adminA, strings.Replace(registerBody("w@a.example", "Guard", ""), "Correct1Horse", "alllowercase", 1), http.StatusBadRequest},
		{"unknown role", adminA, registerBody("u@a.example", "Janitor", ""), http.StatusBadRequest},
		{"tenantless admin", &authz.Principal{UserID: "x", Role: authz.RoleCompanyAdmin},
			registerBody("t@a.example", "Guard", ""), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, newRouter(newFakeRepo(), tt.caller), http.MethodPost, "/auth/register", tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusCreated && !resp.Success {
				t.Error("expected success envelope")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("existing", "dup@a.example", authz.RoleGuard, tenantA)

	w, _ := do(t, newRouter(repo, adminA), http.MethodPost, "/auth/register",
		registerBody("DUP@a.example", "Guard", ""))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestGetUserTenantChecked(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("33333333-3333-4333-8333-333333333333", "g@a.example", authz.RoleGuard, tenantA)
	repo.seed("44444444-4444-4444-8444-444444444444", "g@b.example", authz.RoleGuard, tenantB)

	tests := []struct {
		name   string
		caller *authz.Principal
		id     string
		want   int
	}{
		{"same tenant", adminA, "33333333-3333-4333-8333-333333333333", http.StatusOK},
		{"other tenant", adminA, "44444444-4444-4444-8444-444444444444", http.StatusForbidden},
		{"owner any tenant", owner, "44444444-4444-4444-8444-444444444444", http.StatusOK},
		{"missing", adminA, "55555555-5555-4555-8555-555555555555", http.StatusNotFound},
		{"malformed id", adminA, "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, newRouter(repo, tt.caller), http.MethodGet, "/auth/users/"+tt.id, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestGetMeRechecksActive(t *testing.T) {
	repo := newFakeRepo()
	u := repo.seed("guard-a", "g@a.example", authz.RoleGuard, tenantA)

	w, _ := do(t, newRouter(repo, guardA), http.MethodGet, "/auth/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("active user: status = %d", w.Code)
	}

	u.IsActive = false
	w, _ = do(t, newRouter(repo, guardA), http.MethodGet, "/auth/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("deactivated user: status = %d, want 401", w.Code)
	}
}

func TestManagementUsersScope(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "a1@a.example", authz.RoleGuard, tenantA)
	repo.seed("b1", "b1@b.example", authz.RoleGuard, tenantB)

	w, resp := do(t, newRouter(repo, adminA), http.MethodGet, "/management/users", "")
	if w.Code != http.StatusOK || resp.Meta == nil || resp.Meta.Total != 1 {
		t.Fatalf("tenant admin list: status %d meta %+v", w.Code, resp.Meta)
	}

	w, _ = do(t, newRouter(repo, adminA), http.MethodGet, "/management/users?tenant_id="+tenantB, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("narrowing to foreign tenant: status = %d, want 403", w.Code)
	}

	w, resp = do(t, newRouter(repo, owner), http.MethodGet, "/management/users?tenant_id="+tenantB, "")
	if w.Code != http.StatusOK || resp.Meta.Total != 1 {
		t.Errorf("owner narrowed list: status %d meta %+v", w.Code, resp.Meta)
	}

	w, _ = do(t, newRouter(repo, guardA), http.MethodGet, "/management/users", "")
	if w.Code != http.StatusForbidden {
		t.Errorf("guard list: status = %d, want 403", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	target := repo.seed("66666666-6666-4666-8666-666666666666", "g@a.example", authz.RoleGuard, tenantA)

	w, _ := do(t, newRouter(repo, adminA), http.MethodPut,
		"/management/users/66666666-6666-4666-8666-666666666666/status", `{"is_active":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if target.IsActive {
		t.Error("user still active")
	}

	w, _ = do(t, newRouter(repo, adminA), http.MethodPut,
		"/management/users/66666666-6666-4666-8666-666666666666/status", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing is_active: status = %d, want 400", w.Code)
	}
}

func TestServiceProvidesCredentials(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("g", "Guard@A.example", authz.RoleGuard, tenantA)

	info, err := NewService(repo).GetByEmail(context.Background(), "GUARD@a.EXAMPLE")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if info.TenantID == nil || *info.TenantID != tenantA || !info.TenantActive {
		t.Errorf("unexpected user info %+v", info)
	}
}
