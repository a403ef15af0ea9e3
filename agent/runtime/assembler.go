// Package runtime assembles ready-to-serve agents: configuration joined with
// its tenant's business context and the resolved tool set.
package runtime

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
	"github.com/atende-ai/atende/agent/tool"
	"github.com/atende-ai/atende/pkg/openrouter"
)

// RuntimeAgent is a fully assembled agent: instruction text with the tenant's
// business context injected, the instantiated tools, and the model settings.
type RuntimeAgent struct {
	AgentID      string
	TenantID     string
	Name         string
	Instructions string
	Tools        []contractx.Tool
	Model        string
	Temperature  float32
}

// ToolInfos returns the schema infos the chat model binds to.
func (ra *RuntimeAgent) ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(ra.Tools))
	for _, t := range ra.Tools {
		infos = append(infos, t.Info())
	}
	return infos
}

// Tool returns the instantiated tool by name.
func (ra *RuntimeAgent) Tool(name string) (contractx.Tool, bool) {
	for _, t := range ra.Tools {
		if t.Info().Name == name {
			return t, true
		}
	}
	return nil, false
}

// Assembler turns agent definitions into RuntimeAgents. Results are cached
// per agent id; the catalog is immutable after startup so the cache is only
// invalidated by process restart.
type Assembler struct {
	agents   *catalog.AgentStore
	tenants  *catalog.TenantStore
	registry *tool.Registry
	llm      openrouter.Config

	mu    sync.Mutex
	cache map[string]*RuntimeAgent
}

func NewAssembler(agents *catalog.AgentStore, tenants *catalog.TenantStore, registry *tool.Registry, llm openrouter.Config) *Assembler {
	return &Assembler{
		agents:   agents,
		tenants:  tenants,
		registry: registry,
		llm:      llm,
		cache:    make(map[string]*RuntimeAgent),
	}
}

// Assemble resolves the agent's tenant, builds the instruction text, and
// instantiates its tool list. A dangling tenant reference here is a
// configuration-integrity failure, not a user error.
func (a *Assembler) Assemble(ctx context.Context, agentID string) (*RuntimeAgent, error) {
	a.mu.Lock()
	if cached, ok := a.cache[agentID]; ok {
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	def, err := a.agents.Get(agentID)
	if err != nil {
		return nil, err
	}
	tenant, err := a.tenants.Get(def.TenantID)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", agentID, err)
	}

	tools, err := a.registry.Resolve(ctx, def.Tools, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", agentID, err)
	}

	assembled := &RuntimeAgent{
		AgentID:      def.ID,
		TenantID:     tenant.ID,
		Name:         def.Name,
		Instructions: BuildInstructions(def, tenant),
		Tools:        tools,
		Model:        def.LLM.Model,
		Temperature:  def.LLM.Temperature,
	}

	log.Debug().
		Str("agent_id", def.ID).
		Str("tenant_id", tenant.ID).
		Int("tools", len(tools)).
		Msg("agent assembled")

	a.mu.Lock()
	a.cache[agentID] = assembled
	a.mu.Unlock()

	return assembled, nil
}

// ChatModel builds the eino chat model for the agent, bound to its tools.
func (a *Assembler) ChatModel(ctx context.Context, ra *RuntimeAgent) (model.ToolCallingChatModel, error) {
	cfg := a.llm.For(ra.Model, ra.Temperature)
	m, err := cfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: agent %q: %v", contractx.ErrModelInvoke, ra.AgentID, err)
	}
	if len(ra.Tools) == 0 {
		return m, nil
	}

	bound, err := m.WithTools(ra.ToolInfos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent %q: %v", contractx.ErrModelInvoke, ra.AgentID, err)
	}
	return bound, nil
}

// BuildInstructions renders the system prompt: the agent's prompt, the
// tenant's business context block, then the instruction lines verbatim.
func BuildInstructions(def *catalog.AgentDefinition, tenant *catalog.Tenant) string {
	description := strings.TrimSpace(tenant.Business.Description)
	if description == "" {
		description = "N/A"
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(def.Prompt))
	sb.WriteString("\n\n# Contexto do Negócio\n")
	fmt.Fprintf(&sb, "- Empresa: %s\n", tenant.Name)
	fmt.Fprintf(&sb, "- Descrição: %s\n", description)
	fmt.Fprintf(&sb, "- Localização: %s\n", tenant.Business.Location)
	fmt.Fprintf(&sb, "- Telefone: %s\n", tenant.Business.Phone)
	sb.WriteString("\n# Instruções\n")
	for _, line := range def.Instructions {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
