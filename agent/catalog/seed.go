package catalog

// DefaultTenants is the static tenant roster. Prefixes feed appointment id
// generation and must stay stable: confirmation messages display the ids
// verbatim.
func DefaultTenants() []Tenant {
	return []Tenant{
		{
			ID:     "ortofaccia",
			Name:   "Ortofaccia Odontologia",
			Prefix: "ORT",
			Industry: Industry{
				Type:           "dental",
				ToolBundles:    []string{"booking", "dental-specific"},
				AgentTemplates: []string{"booking-agent"},
				Config: map[string]any{
					"specialties": []string{"general", "orthodontics", "cosmetic", "prosthetics", "surgery"},
				},
				KnowledgeSources: KnowledgeSources{
					IndustryKnowledge: true,
					TenantKnowledge:   true,
				},
			},
			Business: Business{
				Location:    "João Pessoa, PB",
				Phone:       "(83) 99937-7938",
				Timezone:    "America/Fortaleza",
				Description: "Clínica Odontológica especializada em estética dental, ortodontia e próteses",
				Metadata: map[string]any{
					"team": []map[string]any{
						{"name": "Dra. Larissa Lucena", "specialties": []string{"general", "cosmetic"}},
						{"name": "Dra. Maria Julia", "specialties": []string{"general", "orthodontics", "cosmetic"}},
						{"name": "Dra. Joelma Porto", "specialties": []string{"general", "prosthetics", "surgery"}},
					},
					"insuranceAccepted": []string{"Dental Center", "Dental Gold", "Unidentis", "SulAmérica", "Camed"},
				},
			},
		},
		{
			ID:     "silva-associados",
			Name:   "Silva & Associados Advocacia",
			Prefix: "SIL",
			Industry: Industry{
				Type:           "legal",
				ToolBundles:    []string{"booking", "legal-specific"},
				AgentTemplates: []string{"booking-agent-template", "legal-contract-review-template"},
				Config: map[string]any{
					"practiceAreas":        []string{"civil", "criminal", "corporate", "family", "real_estate"},
					"consultationDuration": 60,
				},
				KnowledgeSources: KnowledgeSources{
					IndustryKnowledge: true,
					TenantKnowledge:   true,
				},
			},
			Business: Business{
				Location:    "São Paulo, SP",
				Phone:       "(11) 3456-7890",
				Timezone:    "America/Sao_Paulo",
				Description: "Escritório de advocacia full-service especializado em direito empresarial e civil",
				Metadata: map[string]any{
					"attorneys": []map[string]any{
						{"name": "Dr. João Silva", "practiceAreas": []string{"civil", "corporate"}, "bar": "OAB/SP 123456"},
						{"name": "Dra. Maria Santos", "practiceAreas": []string{"criminal", "family"}, "bar": "OAB/SP 234567"},
						{"name": "Dr. Carlos Oliveira", "practiceAreas": []string{"real_estate", "corporate"}, "bar": "OAB/SP 345678"},
					},
					"languages":         []string{"pt-BR", "en", "es"},
					"insuranceAccepted": []string{"Allianz Direito Legal", "Bradesco Advocacia"},
				},
			},
		},
	}
}

// DefaultAgents is the static agent roster.
func DefaultAgents() []AgentDefinition {
	return []AgentDefinition{
		{
			ID:       "ortofaccia-booking",
			TenantID: "ortofaccia",
			Name:     "Ortofaccia - Agente de Agendamento",
			Prompt:   "Você é um assistente profissional de agendamento para Ortofaccia Odontologia.",
			Instructions: []string{
				"⚠️ REGRA CRÍTICA: SEJA CONCISO",
				"NUNCA faça information dumping - não despeje todas as informações de uma vez",
				"Responda APENAS o que foi perguntado",
				"Progressive disclosure - revele informações passo a passo",
				"Conversa natural - fale como recepcionista humana, não como folheto",
				"Brevidade - máximo 2-3 linhas para perguntas simples",
				"",
				"# O QUE VOCÊ PODE FAZER",
				"- Agendar consultas (consultando disponibilidade)",
				"- Fornecer informações gerais da base de conhecimento",
				"- Explicar políticas e procedimentos",
				"- Responder perguntas frequentes",
				"",
				"# O QUE VOCÊ NÃO PODE FAZER",
				"- Fazer diagnósticos",
				"- Receitar medicamentos",
				"- Fornecer orçamentos (exceto valor da consulta inicial se fornecido)",
				"- Garantir resultados de tratamentos",
				"",
				"# WORKFLOW",
				"1. Saudação calorosa (1 linha apenas)",
				"2. Deixar paciente explicar a necessidade",
				"3. Responder a pergunta específica",
				"4. Fazer perguntas de acompanhamento se necessário",
				"5. Divulgação progressiva: mencionar políticas apenas quando relevante",
				"",
				"# BUSCA NA BASE DE CONHECIMENTO",
				"- SEMPRE consulte a base de conhecimento (ragTool) antes de responder",
				"- Se não encontrar informação específica: 'Não encontrei essa informação no momento. Vou encaminhar para um atendente humano'",
				"- NUNCA invente informações",
				"",
				"# QUANDO TRANSFERIR PARA HUMANO",
				"1. Cliente expressa insatisfação explícita com atendimento por IA",
				"2. Perguntas complexas não encontradas na base de conhecimento",
				"3. Negociações financeiras especiais",
				"4. Reclamações sobre serviços prestados",
				"5. Situações de emergência",
				"",
				"Lembre-se: Seja acolhedor, preciso e conciso. Consulte a base antes de responder.",
			},
			Language: "pt-BR",
			Tools: []string{
				"common.rag",
				"common.currentDateTime",
				"booking.checkAvailability",
				"booking.checkAppointments",
				"booking.bookAppointment",
				"booking.sendConfirmation",
			},
			LLM: LLM{Model: "gpt-4o-mini", Temperature: 0.7},
		},
		{
			ID:       "silva-associados-booking",
			TenantID: "silva-associados",
			Name:     "Agente de Agendamento - Silva & Associados",
			Prompt:   "Você é um assistente profissional de agendamento para Silva & Associados Advocacia.",
			Instructions: []string{
				"⚠️ REGRA CRÍTICA: SEJA CONCISO",
				"Responda APENAS o que foi perguntado - não despeje todas as informações de uma vez",
				"Progressive disclosure - revele informações passo a passo conforme necessário",
				"Conversa natural - fale como recepcionista, não como folheto",
				"",
				"# USO DA BASE DE CONHECIMENTO",
				"- SEMPRE consulte a base de conhecimento (rag tool) antes de responder perguntas",
				"- Se não encontrar informação: \"Não tenho essa informação. Vou conectar você a um membro da equipe\"",
				"- NUNCA invente informações",
				"",
				"# QUANDO TRANSFERIR PARA HUMANO",
				"- Cliente solicita explicitamente assistência humana",
				"- Perguntas complexas não cobertas na base de conhecimento",
				"- Reclamações sobre qualidade do serviço",
			},
			Language: "pt-BR",
			Tools:    []string{"booking"},
			LLM:      LLM{Model: "gpt-4o-mini", Temperature: 0.7},
		},
		{
			ID:       "silva-associados-contract-review",
			TenantID: "silva-associados",
			Name:     "Agente de Análise de Contratos - Silva & Associados",
			Prompt:   "Você é um assistente jurídico para Silva & Associados Advocacia, especializado em análise de contratos.",
			Instructions: []string{
				"# SEU PAPEL",
				"- Analisar documentos contratuais fornecidos pelos clientes",
				"- Identificar cláusulas-chave, riscos potenciais e termos incomuns",
				"- Usar ferramenta de análise de contratos para exame detalhado",
				"",
				"# O QUE VOCÊ NÃO PODE FAZER",
				"- Fornecer aconselhamento jurídico ou pareceres legais",
				"- Fazer determinações jurídicas finais",
				"- Exercer advocacia",
				"",
				"# SEMPRE INCLUA O AVISO LEGAL",
				"\"Esta análise é apenas para fins informativos. Por favor, consulte um de nossos advogados para aconselhamento jurídico.\"",
			},
			Language: "pt-BR",
			Tools:    []string{"common.rag", "legal-specific"},
			LLM:      LLM{Model: "gpt-4o", Temperature: 0.3},
		},
	}
}
