package tool

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
)

const (
	ToolContractAnalysis     = "legal.contractAnalysis"
	ToolCaseSearch           = "legal.caseSearch"
	ToolScheduleConsultation = "legal.scheduleConsultation"
)

// The legal tools answer with a handoff message instead of automating the
// work: contract review and case research stay with the attorneys, the tool
// only routes the request.
func newLegalTool(tenants *catalog.TenantStore, name, desc, response string, params map[string]*schema.ParameterInfo) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		tenant, err := tenants.Get(tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{Name: name, Desc: desc}
		if len(params) > 0 {
			info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
		}

		return &funcTool{info: info, run: func(context.Context, map[string]any) (contractx.ToolResult, error) {
			return contractx.ToolResult{Tool: name, Result: map[string]any{
				"message": response,
				"phone":   tenant.Business.Phone,
			}}, nil
		}}, nil
	}
}

func legalDefinitions(tenants *catalog.TenantStore) []Definition {
	return []Definition{
		{
			Name:      ToolContractAnalysis,
			Namespace: "legal",
			Category:  "legal",
			Factory: newLegalTool(tenants, ToolContractAnalysis,
				"Encaminha um contrato para análise por um advogado.",
				"A análise de contratos é feita por um de nossos advogados. Por favor, envie o documento pelo nosso canal de atendimento e retornaremos em até 2 dias úteis.",
				map[string]*schema.ParameterInfo{
					"summary": {Type: schema.String, Desc: "Resumo do contrato e da dúvida do cliente", Required: true},
				}),
		},
		{
			Name:      ToolCaseSearch,
			Namespace: "legal",
			Category:  "legal",
			Factory: newLegalTool(tenants, ToolCaseSearch,
				"Consulta o andamento de um processo pelo número.",
				"Para consultar o andamento de um processo, nossa equipe precisa validar sua identidade. Entre em contato pelo telefone do escritório.",
				map[string]*schema.ParameterInfo{
					"case_number": {Type: schema.String, Desc: "Número do processo", Required: true},
				}),
		},
		{
			Name:      ToolScheduleConsultation,
			Namespace: "legal",
			Category:  "legal",
			Factory: newLegalTool(tenants, ToolScheduleConsultation,
				"Inicia o agendamento de uma consulta jurídica.",
				"Para agendar uma consulta jurídica, informe a área do direito e os horários de sua preferência que um de nossos advogados confirmará o atendimento.",
				map[string]*schema.ParameterInfo{
					"area": {Type: schema.String, Desc: "Área do direito (civil, criminal, família, empresarial, imobiliário)"},
				}),
		},
	}
}
