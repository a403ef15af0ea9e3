package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/atende-ai/atende/agent/booking"
	"github.com/atende-ai/atende/agent/catalog"
	"github.com/atende-ai/atende/agent/knowledge"
	"github.com/atende-ai/atende/agent/runtime"
	"github.com/atende-ai/atende/agent/tool"
	configx "github.com/atende-ai/atende/pkg/config"
	_ "github.com/atende-ai/atende/pkg/logger/autoload"
	"github.com/atende-ai/atende/pkg/notify"
	openrouterx "github.com/atende-ai/atende/pkg/openrouter"
)

type AppConfig struct {
	DefaultAgent   string `envconfig:"DEFAULT_AGENT" default:"ortofaccia-booking"`
	KnowledgePath  string `envconfig:"KNOWLEDGE_PATH"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")

	tenants, err := catalog.NewTenantStore(catalog.DefaultTenants())
	if err != nil {
		log.Fatal().Err(err).Msg("load tenant catalog")
	}
	agents, err := catalog.NewAgentStore(catalog.DefaultAgents(), tenants)
	if err != nil {
		log.Fatal().Err(err).Msg("load agent catalog")
	}

	repo := newRepository()
	ledger := booking.NewLedger(repo)

	store, err := newKnowledgeStore(*appCfg, *openRouterCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open knowledge store")
	}

	sender := newSender()

	registry, err := tool.DefaultRegistry(tool.Deps{
		Tenants:   tenants,
		Ledger:    ledger,
		Knowledge: store,
		Sender:    sender,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}

	if err := runtime.ValidateCatalog(tenants, agents, registry); err != nil {
		log.Fatal().Err(err).Msg("catalog validation failed")
	}

	assembler := runtime.NewAssembler(agents, tenants, registry, *openRouterCfg)
	assembled, err := assembler.Assemble(ctx, appCfg.DefaultAgent)
	if err != nil {
		log.Fatal().Err(err).Str("agent_id", appCfg.DefaultAgent).Msg("assemble default agent")
	}

	log.Info().
		Str("agent_id", assembled.AgentID).
		Str("tenant_id", assembled.TenantID).
		Int("tools", len(assembled.Tools)).
		Strs("tenants", tenants.IDs()).
		Strs("bundles", registry.Bundles()).
		Msg("agent platform ready")
}

// newRepository prefers the Upstash-backed store when configured and falls
// back to the in-memory one.
func newRepository() booking.Repository {
	upstashCfg, err := configx.New[booking.UpstashConfig]("UPSTASH")
	if err != nil {
		log.Info().Msg("upstash not configured, using in-memory repository")
		return booking.NewMemoryRepository()
	}

	repo, err := booking.NewUpstashRepository(*upstashCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init upstash repository")
	}
	log.Info().Msg("using upstash repository")
	return repo
}

func newKnowledgeStore(appCfg AppConfig, llmCfg openrouterx.Config) (*knowledge.Store, error) {
	client := openrouterx.NewClient(llmCfg)
	embedder, err := knowledge.NewOpenAIEmbedder(client, appCfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	if appCfg.KnowledgePath != "" {
		return knowledge.NewPersistentStore(appCfg.KnowledgePath, true, embedder)
	}
	return knowledge.NewStore(embedder), nil
}

func newSender() notify.Sender {
	notifyCfg, err := configx.New[notify.Config]("NOTIFY")
	if err != nil || notifyCfg.URL == "" {
		log.Info().Msg("notify endpoint not configured, confirmations are logged")
		return notify.LogSender{}
	}

	sender, err := notify.NewHTTPSender(*notifyCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init notification sender")
		return nil
	}
	return sender
}
