package catalog

import (
	"fmt"
	"strings"

	contractx "github.com/atende-ai/atende/agent/contract"
)

type LLM struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

// AgentDefinition is a configured conversational persona bound to one tenant.
// Instructions are order-significant: they are concatenated verbatim, one per
// line, into the runtime instruction text. Tools may name individual tools or
// bundles.
type AgentDefinition struct {
	ID           string   `json:"id"`
	TenantID     string   `json:"tenant_id"`
	Name         string   `json:"name"`
	Prompt       string   `json:"prompt"`
	Instructions []string `json:"instructions"`
	Language     string   `json:"language"`
	Tools        []string `json:"tools"`
	LLM          LLM      `json:"llm"`
}

// AgentStore is an in-memory registry of agent definitions with a secondary
// index by tenant. Construction validates every TenantID against the tenant
// store; a dangling reference is a configuration-integrity error that must
// abort startup rather than surface per-request.
type AgentStore struct {
	byID        map[string]*AgentDefinition
	ordered     []*AgentDefinition
	tenantIndex map[string][]*AgentDefinition
}

func NewAgentStore(defs []AgentDefinition, tenants *TenantStore) (*AgentStore, error) {
	store := &AgentStore{
		byID:        make(map[string]*AgentDefinition, len(defs)),
		ordered:     make([]*AgentDefinition, 0, len(defs)),
		tenantIndex: make(map[string][]*AgentDefinition),
	}

	for i := range defs {
		def := defs[i]
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: agent id is empty", contractx.ErrValidation)
		}
		if _, exists := store.byID[id]; exists {
			return nil, fmt.Errorf("%w: duplicate agent id %q", contractx.ErrValidation, id)
		}
		if !tenants.Exists(def.TenantID) {
			return nil, fmt.Errorf("%w: agent %q references unknown tenant %q (available: %s)",
				contractx.ErrTenantNotFound, id, def.TenantID, strings.Join(tenants.IDs(), ", "))
		}
		if def.LLM.Temperature < 0 || def.LLM.Temperature > 2 {
			return nil, fmt.Errorf("%w: agent %q temperature %.2f outside [0,2]", contractx.ErrValidation, id, def.LLM.Temperature)
		}

		store.byID[id] = &def
		store.ordered = append(store.ordered, &def)
		store.tenantIndex[def.TenantID] = append(store.tenantIndex[def.TenantID], &def)
	}

	return store, nil
}

func (s *AgentStore) Get(id string) (*AgentDefinition, error) {
	def, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", contractx.ErrAgentNotFound, id, strings.Join(s.IDs(), ", "))
	}
	return def, nil
}

func (s *AgentStore) All() []*AgentDefinition {
	out := make([]*AgentDefinition, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *AgentStore) IDs() []string {
	ids := make([]string, 0, len(s.ordered))
	for _, def := range s.ordered {
		ids = append(ids, def.ID)
	}
	return ids
}

// ByTenant returns the tenant's agents in definition order. Unknown tenants
// yield an empty slice, not an error.
func (s *AgentStore) ByTenant(tenantID string) []*AgentDefinition {
	defs := s.tenantIndex[tenantID]
	out := make([]*AgentDefinition, len(defs))
	copy(out, defs)
	return out
}
