// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef"

// setRequired clears every mapped variable, then sets the three that
// validation demands.
func setRequired(t *testing.T) {
	t.Helper()
	for key := range envKeyMap {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("DATABASE_URL", "postgres://guardops@localhost/guardops")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_KEY", testKey)
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_LOGIN_REQUESTS", "3")
	t.Setenv("BOOTSTRAP_TENANT_NAME", "Northwind Security")
	t.Setenv("BOOTSTRAP_TENANT_EMAIL", "ops@northwind.test")

	c, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %q", c.Server.Address())
	}
	if c.JWT.Expiry() != time.Hour {
		t.Errorf("jwt expiry = %v, want 1h", c.JWT.Expiry())
	}
	if c.RateLimit.LoginRequests != 3 || c.RateLimit.Window != time.Minute ||
		c.RateLimit.CallerRequests != 120 || c.RateLimit.CallerBurst != 30 {
		t.Errorf("rate limit = %+v", c.RateLimit)
	}
	if !c.Bootstrap.HasTenant() || c.Bootstrap.TenantMaxUsers != 10 {
		t.Errorf("bootstrap = %+v", c.Bootstrap)
	}
	if c.IsProduction() || !c.IsDevelopment() {
		t.Errorf("environment = %q", c.App.Environment)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 7070\n  host: 127.0.0.1\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Address() != "127.0.0.1:9090" {
		t.Errorf("address = %q, env should win over file", c.Server.Address())
	}
	if c.Log.Level != "debug" {
		t.Errorf("log level = %q", c.Log.Level)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	setRequired(t)

	if _, err := load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("load: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"short key", map[string]string{"JWT_KEY": "short"}, "JWT_KEY must be at least"},
		{"zero expiry", map[string]string{"JWT_EXPIRY_MINUTES": "0"}, "JWT_EXPIRY_MINUTES"},
		{"insecure otel in production", map[string]string{
			"ENVIRONMENT":   "production",
			"OTEL_ENABLED":  "true",
			"OTEL_INSECURE": "true",
		}, "OTEL_INSECURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
