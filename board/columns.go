package board

import "kanban-api/domain"

// Built-in pipelines. Column ids are the canonical stage identifiers persisted
// by the agency tools, hence the mix of Portuguese and English vocabularies.
var builtinColumns = map[ModuleType][]domain.Column{
	ModuleProjectTracking: {
		{ID: "a_fazer", Title: "A Fazer", Color: "slate", Icon: "circle", Order: 0, Description: "Tarefas ainda não iniciadas"},
		{ID: "em_andamento", Title: "Em Andamento", Color: "blue", Icon: "loader", Order: 1, Description: "Trabalho em execução"},
		{ID: "revisao", Title: "Revisão", Color: "amber", Icon: "eye", Order: 2, Description: "Aguardando revisão do time"},
		{ID: "concluido", Title: "Concluído", Color: "green", Icon: "check-circle", Order: 3},
	},
	ModuleDesign: {
		{ID: "briefing", Title: "Briefing", Color: "slate", Icon: "file-text", Order: 0, Description: "Coleta de requisitos com o cliente"},
		{ID: "em_criacao", Title: "Em Criação", Color: "purple", Icon: "pen-tool", Order: 1},
		{ID: "revisao_interna", Title: "Revisão Interna", Color: "amber", Icon: "eye", Order: 2},
		{ID: "aprovacao_cliente", Title: "Aprovação do Cliente", Color: "orange", Icon: "user-check", Order: 3},
		{ID: "ajustes", Title: "Ajustes", Color: "red", Icon: "refresh-cw", Order: 4, Description: "Alterações solicitadas"},
		{ID: "finalizado", Title: "Finalizado", Color: "green", Icon: "check-circle", Order: 5},
	},
	ModuleVideoProduction: {
		{ID: "roteiro", Title: "Roteiro", Color: "slate", Icon: "file-text", Order: 0},
		{ID: "pre_producao", Title: "Pré-produção", Color: "blue", Icon: "clipboard-list", Order: 1},
		{ID: "gravacao", Title: "Gravação", Color: "red", Icon: "video", Order: 2},
		{ID: "edicao", Title: "Edição", Color: "purple", Icon: "scissors", Order: 3},
		{ID: "revisao", Title: "Revisão", Color: "amber", Icon: "eye", Order: 4},
		{ID: "aprovacao", Title: "Aprovação", Color: "orange", Icon: "user-check", Order: 5},
		{ID: "entregue", Title: "Entregue", Color: "green", Icon: "send", Order: 6},
	},
	ModuleSalesCRM: {
		{ID: "prospeccao", Title: "Prospecção", Color: "slate", Icon: "search", Order: 0},
		{ID: "qualificacao", Title: "Qualificação", Color: "blue", Icon: "filter", Order: 1},
		{ID: "proposta", Title: "Proposta", Color: "purple", Icon: "file-signature", Order: 2},
		{ID: "negociacao", Title: "Negociação", Color: "amber", Icon: "handshake", Order: 3},
		{ID: "fechado_ganho", Title: "Fechado (Ganho)", Color: "green", Icon: "trophy", Order: 4},
		{ID: "fechado_perdido", Title: "Fechado (Perdido)", Color: "red", Icon: "x-circle", Order: 5},
	},
	ModuleLeadFunnel: {
		{ID: "novo_lead", Title: "Novo Lead", Color: "slate", Icon: "user-plus", Order: 0},
		{ID: "contato_inicial", Title: "Contato Inicial", Color: "blue", Icon: "phone", Order: 1},
		{ID: "reuniao_agendada", Title: "Reunião Agendada", Color: "purple", Icon: "calendar", Order: 2},
		{ID: "proposta_enviada", Title: "Proposta Enviada", Color: "amber", Icon: "send", Order: 3},
		{ID: "convertido", Title: "Convertido", Color: "green", Icon: "check-circle", Order: 4},
		{ID: "descartado", Title: "Descartado", Color: "red", Icon: "trash", Order: 5},
	},
	ModuleGeneric: {
		{ID: "todo", Title: "To Do", Color: "slate", Icon: "circle", Order: 0},
		{ID: "in_progress", Title: "In Progress", Color: "blue", Icon: "loader", Order: 1},
		{ID: "review", Title: "Review", Color: "amber", Icon: "eye", Order: 2},
		{ID: "done", Title: "Done", Color: "green", Icon: "check-circle", Order: 3},
	},
}

// Raw status -> canonical column id. Lookups are exact; an alias key never
// equals a different column id of the same module.
var builtinAliases = map[ModuleType]map[string]string{
	ModuleProjectTracking: {
		"todo":         "a_fazer",
		"pendente":     "a_fazer",
		"backlog":      "a_fazer",
		"in_progress":  "em_andamento",
		"em_progresso": "em_andamento",
		"fazendo":      "em_andamento",
		"review":       "revisao",
		"em_revisao":   "revisao",
		"done":         "concluido",
		"completed":    "concluido",
		"finalizado":   "concluido",
	},
	ModuleDesign: {
		"backlog":              "briefing",
		"todo":                 "briefing",
		"criacao":              "em_criacao",
		"in_progress":          "em_criacao",
		"revisao":              "revisao_interna",
		"internal_review":      "revisao_interna",
		"aguardando_aprovacao": "aprovacao_cliente",
		"client_approval":      "aprovacao_cliente",
		"alteracoes":           "ajustes",
		"changes_requested":    "ajustes",
		"aprovado":             "finalizado",
		// Completed and delivered both land in finalizado. Kept as observed in
		// the agency data; pending product confirmation of a separate stage.
		"concluido": "finalizado",
		"completed": "finalizado",
		"entregue":  "finalizado",
		"delivered": "finalizado",
	},
	ModuleVideoProduction: {
		"script":         "roteiro",
		"pre_production": "pre_producao",
		"filmagem":       "gravacao",
		"shooting":       "gravacao",
		"editing":        "edicao",
		"pos_producao":   "edicao",
		"review":         "revisao",
		"approval":       "aprovacao",
		"delivered":      "entregue",
		"publicado":      "entregue",
	},
	ModuleSalesCRM: {
		"lead":        "prospeccao",
		"novo":        "prospeccao",
		"qualified":   "qualificacao",
		"proposal":    "proposta",
		"negotiation": "negociacao",
		"won":         "fechado_ganho",
		"ganho":       "fechado_ganho",
		"lost":        "fechado_perdido",
		"perdido":     "fechado_perdido",
	},
	ModuleLeadFunnel: {
		"new":           "novo_lead",
		"novo":          "novo_lead",
		"contacted":     "contato_inicial",
		"em_contato":    "contato_inicial",
		"meeting":       "reuniao_agendada",
		"proposal_sent": "proposta_enviada",
		"converted":     "convertido",
		"cliente":       "convertido",
		"discarded":     "descartado",
		"perdido":       "descartado",
	},
	ModuleGeneric: {
		"pending":      "todo",
		"a_fazer":      "todo",
		"doing":        "in_progress",
		"em_andamento": "in_progress",
		"em_revisao":   "review",
		"completed":    "done",
		"concluido":    "done",
	},
}
