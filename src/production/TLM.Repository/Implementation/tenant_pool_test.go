package implementation

import (
	"context"
	"testing"
)

func TestSchemaForSlug(t *testing.T) {
	if got := SchemaForSlug("acme"); got != "tenant_acme" {
		t.Errorf("SchemaForSlug(acme) = %q", got)
	}
	if got := SchemaForSlug("cold-chain-2"); got != "tenant_cold-chain-2" {
		t.Errorf("SchemaForSlug(cold-chain-2) = %q", got)
	}
}

func TestAcquireRejectsInvalidSlug(t *testing.T) {
	// Validation runs before any pool interaction, so no database is needed.
	pool := NewTenantPool(nil)

	bad := []string{
		"",
		"Acme",
		"tenant; DROP SCHEMA public",
		`x" ; SET search_path TO public --`,
		"a b",
	}
	for _, slug := range bad {
		if _, err := pool.Acquire(context.Background(), slug); err == nil {
			t.Errorf("Acquire(%q) succeeded, want error", slug)
		}
	}
}
