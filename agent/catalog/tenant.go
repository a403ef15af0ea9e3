// Package catalog holds the static tenant and agent configuration and the
// read-mostly stores built from it at startup. Adding a tenant or agent is a
// configuration change, not a runtime operation.
package catalog

import (
	"fmt"
	"strings"

	contractx "github.com/atende-ai/atende/agent/contract"
)

// KnowledgeSources flags which knowledge tiers a tenant searches.
type KnowledgeSources struct {
	IndustryKnowledge bool `json:"industry_knowledge"`
	TenantKnowledge   bool `json:"tenant_knowledge"`
}

type Industry struct {
	Type             string           `json:"type"`
	Config           map[string]any   `json:"config,omitempty"`
	ToolBundles      []string         `json:"tool_bundles,omitempty"`
	AgentTemplates   []string         `json:"agent_templates,omitempty"`
	KnowledgeSources KnowledgeSources `json:"knowledge_sources"`
}

type Business struct {
	Location    string         `json:"location"`
	Phone       string         `json:"phone"`
	Timezone    string         `json:"timezone"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Tenant is a business customer of the platform. Records are immutable after
// load; Prefix is the 2-5 character code stamped into appointment ids.
type Tenant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Prefix   string   `json:"prefix"`
	Industry Industry `json:"industry"`
	Business Business `json:"business"`
}

// TenantStore is an in-memory registry of tenant records, built once at
// startup and read-only afterwards.
type TenantStore struct {
	byID    map[string]*Tenant
	ordered []*Tenant
}

func NewTenantStore(tenants []Tenant) (*TenantStore, error) {
	store := &TenantStore{
		byID:    make(map[string]*Tenant, len(tenants)),
		ordered: make([]*Tenant, 0, len(tenants)),
	}

	for i := range tenants {
		t := tenants[i]
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: tenant id is empty", contractx.ErrValidation)
		}
		if _, exists := store.byID[id]; exists {
			return nil, fmt.Errorf("%w: duplicate tenant id %q", contractx.ErrValidation, id)
		}
		if n := len(strings.TrimSpace(t.Prefix)); n < 2 || n > 5 {
			return nil, fmt.Errorf("%w: tenant %q prefix must be 2-5 characters", contractx.ErrValidation, id)
		}
		store.byID[id] = &t
		store.ordered = append(store.ordered, &t)
	}

	return store, nil
}

// Get returns the tenant for id. The error lists the available ids so a
// misconfigured reference is diagnosable from the message alone.
func (s *TenantStore) Get(id string) (*Tenant, error) {
	tenant, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", contractx.ErrTenantNotFound, id, strings.Join(s.IDs(), ", "))
	}
	return tenant, nil
}

func (s *TenantStore) All() []*Tenant {
	out := make([]*Tenant, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *TenantStore) IDs() []string {
	ids := make([]string, 0, len(s.ordered))
	for _, t := range s.ordered {
		ids = append(ids, t.ID)
	}
	return ids
}

func (s *TenantStore) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}
