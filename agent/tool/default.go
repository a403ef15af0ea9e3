package tool

import (
	"time"

	"github.com/atende-ai/atende/agent/booking"
	"github.com/atende-ai/atende/agent/catalog"
	"github.com/atende-ai/atende/agent/knowledge"
	"github.com/atende-ai/atende/pkg/notify"
)

// Bundle and legacy names accepted in agent tool lists.
const (
	BundleBooking = "booking"
	BundleDental  = "dental-specific"
	BundleLegal   = "legal-specific"
)

// Deps carries the shared services the builtin tools close over. Tenants,
// Ledger, and Knowledge are required; the rest default.
type Deps struct {
	Tenants   *catalog.TenantStore
	Ledger    *booking.Ledger
	Knowledge *knowledge.Store
	Sender    notify.Sender
	Policy    booking.AvailabilityPolicy
	Rosters   func(tenantID string) []booking.Resource
	Now       func() time.Time
}

func (d *Deps) applyDefaults() {
	if d.Sender == nil {
		d.Sender = notify.LogSender{}
	}
	if d.Rosters == nil {
		d.Rosters = booking.DefaultRoster
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// DefaultRegistry wires every builtin tool, the industry bundles, and the
// legacy flat aliases still present in older agent configurations.
func DefaultRegistry(deps Deps) (*Registry, error) {
	deps.applyDefaults()

	defs := []Definition{
		{Name: ToolRAG, Namespace: "common", Category: "knowledge", Factory: newRAGTool(deps.Tenants, deps.Knowledge)},
		{Name: ToolCurrentDateTime, Namespace: "common", Category: "utility", Factory: newCurrentDateTimeTool(deps.Tenants, deps.Now)},
		{Name: ToolCheckAvailability, Namespace: "booking", Category: "booking", Factory: newCheckAvailabilityTool(deps)},
		{Name: ToolCheckAppointments, Namespace: "booking", Category: "booking", Factory: newCheckAppointmentsTool(deps)},
		{Name: ToolBookAppointment, Namespace: "booking", Category: "booking", Factory: newBookAppointmentTool(deps)},
		{Name: ToolSendConfirmation, Namespace: "booking", Category: "booking", Factory: newSendConfirmationTool(deps)},
	}
	defs = append(defs, legalDefinitions(deps.Tenants)...)

	bundles := map[string][]string{
		BundleBooking: {
			ToolRAG,
			ToolCurrentDateTime,
			ToolCheckAvailability,
			ToolCheckAppointments,
			ToolBookAppointment,
			ToolSendConfirmation,
		},
		// No dental tools beyond the booking bundle yet.
		BundleDental: {},
		BundleLegal: {
			ToolContractAnalysis,
			ToolCaseSearch,
			ToolScheduleConsultation,
		},
	}

	aliases := map[string]string{
		"rag":                      ToolRAG,
		"currentDateTime":          ToolCurrentDateTime,
		"checkAvailability":        ToolCheckAvailability,
		"checkAppointments":        ToolCheckAppointments,
		"checkPatientAppointments": ToolCheckAppointments,
		"bookAppointment":          ToolBookAppointment,
		"sendConfirmation":         ToolSendConfirmation,
		"searchKnowledge":          ToolRAG,
	}

	return NewRegistry(defs, bundles, aliases)
}
