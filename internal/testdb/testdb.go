// AngelaMos | 2026
// testdb.go

// Package testdb opens an isolated, migrated PostgreSQL schema per test.
// Tests are skipped unless GUARDOPS_TEST_DATABASE_URL is set.
package testdb

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/core"
)

const EnvURL = "GUARDOPS_TEST_DATABASE_URL"

// Open creates a fresh schema, points a new pool at it and applies every
// migration. The schema is dropped when the test ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv(EnvURL))
	if dsn == "" {
		t.Skip(EnvURL + " not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", withSearchPath(dsn, schema))
	if err != nil {
		_ = admin.Close()
		t.Fatalf("connect to schema: %v", err)
	}
	db.SetMaxOpenConns(10)

	t.Cleanup(func() {
		_ = db.Close()
		_, _ = admin.ExecContext(
			context.Background(),
			"DROP SCHEMA IF EXISTS "+schema+" CASCADE",
		)
		_ = admin.Close()
	})

	if err := core.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err == nil {
			q := u.Query()
			q.Set("search_path", schema)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}
	return dsn + " search_path=" + schema
}

// Tenant inserts an active tenant and returns its id.
func Tenant(t *testing.T, db *sqlx.DB, maxUsers int) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO tenants (id, company_name, contact_email, max_user_accounts)
		VALUES ($1, $2, $3, $4)`,
		id, "Tenant "+id[:8], id[:8]+"@tenant.test", maxUsers,
	)
	if err != nil {
		t.Fatalf("insert tenant: %v", err)
	}
	return id
}

// User inserts an account and profile. tenantID may be empty for a
// PlatformOwner.
func User(t *testing.T, db *sqlx.DB, tenantID, role string) string {
	t.Helper()

	id := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, 'x')`,
		id, id[:8]+"@user.test",
	); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	var tenant any
	if tenantID != "" {
		tenant = tenantID
	}
	if _, err := db.Exec(`
		INSERT INTO profiles (account_id, role, tenant_id, first_name, last_name)
		VALUES ($1, $2, $3, 'Test', 'User')`,
		id, role, tenant,
	); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return id
}

// Site inserts a site at lat/lng with the default geofence radius.
func Site(t *testing.T, db *sqlx.DB, tenantID string, lat, lng float64) string {
	t.Helper()

	id := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO sites (id, tenant_id, name, latitude, longitude)
		VALUES ($1, $2, 'Site', $3, $4)`,
		id, tenantID, lat, lng,
	); err != nil {
		t.Fatalf("insert site: %v", err)
	}
	return id
}
