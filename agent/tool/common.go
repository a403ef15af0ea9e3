package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
	"github.com/atende-ai/atende/agent/knowledge"
	"github.com/atende-ai/atende/pkg/timeutil"
)

const (
	ToolRAG             = "common.rag"
	ToolCurrentDateTime = "common.currentDateTime"
)

const defaultRAGTopK = 3

// ragFallbackMessage is what the agent relays when the knowledge base has
// nothing useful or the search backend is down. The conversation must never
// see a raw infrastructure error.
const ragFallbackMessage = "Não encontrei informações relevantes na base de conhecimento. " +
	"Recomendo encaminhar esta pergunta para um atendente humano."

func newRAGTool(tenants *catalog.TenantStore, store *knowledge.Store) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		tenant, err := tenants.Get(tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{
			Name: ToolRAG,
			Desc: "Busca informações na base de conhecimento da empresa (serviços, preços, políticas).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Pergunta em linguagem natural", Required: true},
				"top_k": {Type: schema.Integer, Desc: "Quantidade máxima de trechos retornados"},
			}),
		}

		return &funcTool{info: info, run: func(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return contractx.ToolResult{Tool: ToolRAG, Error: err.Error()}, nil
			}
			topK := intArg(args, "top_k", defaultRAGTopK)

			matches, err := store.Search(ctx, tenant, query, topK)
			if err != nil {
				log.Warn().Err(err).Str("tenant_id", tenant.ID).Msg("knowledge search failed")
				return contractx.ToolResult{Tool: ToolRAG, Result: ragFallbackMessage}, nil
			}
			if len(matches) == 0 {
				return contractx.ToolResult{Tool: ToolRAG, Result: ragFallbackMessage}, nil
			}

			var sb strings.Builder
			for i, match := range matches {
				if i > 0 {
					sb.WriteString("\n\n")
				}
				fmt.Fprintf(&sb, "[%d] (%s) %s", i+1, match.Source, match.Content)
			}

			return contractx.ToolResult{Tool: ToolRAG, Result: map[string]any{
				"context": sb.String(),
				"matches": matches,
			}}, nil
		}}, nil
	}
}

func newCurrentDateTimeTool(tenants *catalog.TenantStore, now func() time.Time) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		tenant, err := tenants.Get(tenantID)
		if err != nil {
			return nil, err
		}
		loc, err := timeutil.LoadLocation(tenant.Business.Timezone)
		if err != nil {
			return nil, fmt.Errorf("tenant %q timezone: %w", tenantID, err)
		}

		info := &schema.ToolInfo{
			Name: ToolCurrentDateTime,
			Desc: "Retorna a data e hora atuais no fuso horário da empresa.",
		}

		return &funcTool{info: info, run: func(context.Context, map[string]any) (contractx.ToolResult, error) {
			local := now().In(loc)
			return contractx.ToolResult{Tool: ToolCurrentDateTime, Result: map[string]any{
				"date":        local.Format(timeutil.LayoutDate),
				"time":        local.Format(timeutil.LayoutTime),
				"day_of_week": timeutil.DayOfWeekPT(local),
				"date_time":   timeutil.FormatDateTime(local),
				"timezone":    tenant.Business.Timezone,
			}}, nil
		}}, nil
	}
}
