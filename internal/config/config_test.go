package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")

	c := Load()
	if c.StoreDriver != "memory" {
		t.Fatalf("expected memory driver, got %q", c.StoreDriver)
	}
	if c.Addr() != ":8080" {
		t.Fatalf("unexpected addr %q", c.Addr())
	}
	if c.PhotoMaxBytes != 5<<20 {
		t.Fatalf("unexpected photo max %d", c.PhotoMaxBytes)
	}
	if !c.EnforceFlow {
		t.Fatalf("flow enforcement should default to true")
	}
	if c.DevRoleHeader {
		t.Fatalf("role header must be ignored unless enabled")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://x")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ROLE_STAFF_DOMAINS", " @a.gov , ,@b.gov")
	t.Setenv("GRIEVANCE_ENFORCE_FLOW", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("DEV_TRUST_ROLE_HEADER", "true")

	c := Load()
	if c.StoreDriver != "postgres" {
		t.Fatalf("DB_DSN should imply postgres, got %q", c.StoreDriver)
	}
	if len(c.StaffDomains) != 2 || c.StaffDomains[1] != "@b.gov" {
		t.Fatalf("unexpected staff domains %v", c.StaffDomains)
	}
	if c.EnforceFlow {
		t.Fatalf("expected enforce flow false")
	}
	if c.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", c.ShutdownTimeout)
	}
	if !c.DevRoleHeader {
		t.Fatalf("expected role header trusted")
	}
	if c.DBMaxConns != 10 {
		t.Fatalf("invalid int should fall back, got %d", c.DBMaxConns)
	}
}
