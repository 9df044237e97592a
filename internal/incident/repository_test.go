// AngelaMos | 2026
// repository_test.go

package incident

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/testdb"
)

func newReport(tenantID, guardID, siteID string, media ...MediaType) *Report {
	rep := &Report{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		GuardID:          guardID,
		SiteID:           siteID,
		Title:            "Broken fence",
		Description:      "Fence panel down on the east side",
		Type:             TypeMaintenance,
		Severity:         SeverityLow,
		IncidentDateTime: time.Now().UTC(),
		Status:           StatusOpen,
	}
	for _, mt := range media {
		rep.Media = append(rep.Media, Media{
			ID:               uuid.NewString(),
			TenantID:         tenantID,
			IncidentReportID: rep.ID,
			Type:             mt,
			FileName:         "f",
			FilePath:         "incidents/f",
		})
	}
	return rep
}

func TestRepositoryCreateIsAtomic(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := testdb.Tenant(t, db, 10)
	guardID := testdb.User(t, db, tenantID, "Guard")
	siteID := testdb.Site(t, db, tenantID, 1, 1)
	scope := authz.ScopeFor(&authz.Principal{UserID: guardID, Role: authz.RoleSupervisor, TenantID: tenantID})

	good := newReport(tenantID, guardID, siteID, MediaPhoto, MediaVideo)
	if err := repo.Create(ctx, good); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, scope, good.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Media) != 2 || got.SiteName != "Site" || got.GuardName != "Test User" {
		t.Errorf("loaded report = %+v", got)
	}

	bad := newReport(tenantID, guardID, siteID, MediaPhoto, MediaType("Hologram"))
	if err := repo.Create(ctx, bad); err == nil {
		t.Fatal("expected media check constraint failure")
	}
	if _, err := repo.Get(ctx, scope, bad.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("report survived a failed media insert: %v", err)
	}
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantA := testdb.Tenant(t, db, 10)
	tenantB := testdb.Tenant(t, db, 10)
	guardID := testdb.User(t, db, tenantA, "Guard")
	siteID := testdb.Site(t, db, tenantA, 1, 1)
	scopeA := authz.ScopeFor(&authz.Principal{UserID: "s", Role: authz.RoleSupervisor, TenantID: tenantA})
	scopeB := authz.ScopeFor(&authz.Principal{UserID: "s", Role: authz.RoleSupervisor, TenantID: tenantB})

	rep := newReport(tenantA, guardID, siteID)
	if err := repo.Create(ctx, rep); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Get(ctx, scopeB, rep.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("foreign get: %v", err)
	}

	err := repo.UpdateStatus(ctx, scopeB, rep.ID, StatusUpdate{From: StatusOpen, To: StatusResolved})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("foreign update: %v", err)
	}

	notes := "replaced panel"
	err = repo.UpdateStatus(ctx, scopeA, rep.ID, StatusUpdate{From: StatusOpen, To: StatusResolved, ActionsTaken: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = repo.UpdateStatus(ctx, scopeA, rep.ID, StatusUpdate{From: StatusOpen, To: StatusInProgress})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("stale from-status applied: %v", err)
	}

	got, _ := repo.Get(ctx, scopeA, rep.ID)
	if got.Status != StatusResolved || got.ActionsTaken == nil || *got.ActionsTaken != notes {
		t.Errorf("report = %+v", got)
	}
}
