package catalog

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/atende-ai/atende/agent/contract"
)

func TestNewTenantStoreRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	seed := []Tenant{
		{ID: "ortofaccia", Name: "A", Prefix: "ORT"},
		{ID: "ortofaccia", Name: "B", Prefix: "ORB"},
	}
	if _, err := NewTenantStore(seed); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestNewTenantStoreRejectsBadPrefix(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"", "X", "TOOLONG"} {
		seed := []Tenant{{ID: "ortofaccia", Name: "A", Prefix: prefix}}
		if _, err := NewTenantStore(seed); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("prefix %q: err = %v, want ErrValidation", prefix, err)
		}
	}
}

func TestTenantStoreGetUnknownListsAvailable(t *testing.T) {
	t.Parallel()

	store, err := NewTenantStore(DefaultTenants())
	if err != nil {
		t.Fatalf("NewTenantStore: %v", err)
	}

	_, err = store.Get("nope")
	if !errors.Is(err, contractx.ErrTenantNotFound) {
		t.Fatalf("err = %v, want ErrTenantNotFound", err)
	}
	if !strings.Contains(err.Error(), "ortofaccia") || !strings.Contains(err.Error(), "silva-associados") {
		t.Fatalf("error %q does not list available tenants", err)
	}
}

func TestNewAgentStoreRejectsDanglingTenant(t *testing.T) {
	t.Parallel()

	tenants, err := NewTenantStore(DefaultTenants())
	if err != nil {
		t.Fatalf("NewTenantStore: %v", err)
	}

	defs := []AgentDefinition{{
		ID:       "ghost",
		TenantID: "missing-tenant",
		Name:     "Ghost",
		LLM:      LLM{Model: "gpt-4o-mini", Temperature: 0.7},
	}}
	if _, err := NewAgentStore(defs, tenants); err == nil {
		t.Fatal("NewAgentStore accepted an agent with an unknown tenant")
	}
}

func TestNewAgentStoreRejectsBadTemperature(t *testing.T) {
	t.Parallel()

	tenants, err := NewTenantStore(DefaultTenants())
	if err != nil {
		t.Fatalf("NewTenantStore: %v", err)
	}

	defs := []AgentDefinition{{
		ID:       "hot",
		TenantID: "ortofaccia",
		Name:     "Hot",
		LLM:      LLM{Model: "gpt-4o-mini", Temperature: 3.5},
	}}
	if _, err := NewAgentStore(defs, tenants); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAgentStoreByTenant(t *testing.T) {
	t.Parallel()

	tenants, err := NewTenantStore(DefaultTenants())
	if err != nil {
		t.Fatalf("NewTenantStore: %v", err)
	}
	agents, err := NewAgentStore(DefaultAgents(), tenants)
	if err != nil {
		t.Fatalf("NewAgentStore: %v", err)
	}

	ortofaccia := agents.ByTenant("ortofaccia")
	if len(ortofaccia) == 0 {
		t.Fatal("no agents for ortofaccia")
	}
	for _, def := range ortofaccia {
		if def.TenantID != "ortofaccia" {
			t.Fatalf("agent %q belongs to tenant %q", def.ID, def.TenantID)
		}
	}

	if got := agents.ByTenant("missing"); len(got) != 0 {
		t.Fatalf("ByTenant(missing) = %d agents, want 0", len(got))
	}
}

func TestDefaultCatalogIsInternallyConsistent(t *testing.T) {
	t.Parallel()

	tenants, err := NewTenantStore(DefaultTenants())
	if err != nil {
		t.Fatalf("NewTenantStore: %v", err)
	}
	if _, err := NewAgentStore(DefaultAgents(), tenants); err != nil {
		t.Fatalf("NewAgentStore: %v", err)
	}
	for _, tenant := range tenants.All() {
		if tenant.Business.Timezone == "" {
			t.Fatalf("tenant %q has no timezone", tenant.ID)
		}
	}
}
