package booking

import (
	"math/rand/v2"
	"strings"

	"github.com/atende-ai/atende/pkg/timeutil"
)

// Resource is a schedulable provider row: one (provider, category) pair.
type Resource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SlotTemplate is the fixed daily schedule every resource follows.
var SlotTemplate = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// AvailabilityPolicy decides whether a non-booked slot is offered. The random
// policy is a placeholder capacity model, not a scheduler; swap it for a real
// calendar without touching callers.
type AvailabilityPolicy interface {
	Admit(resourceID, date, clock string) bool
}

// RandomPolicy admits roughly Rate of the free slots.
type RandomPolicy struct {
	Rate float64
}

func (p RandomPolicy) Admit(string, string, string) bool {
	return rand.Float64() < p.Rate
}

// AdmitAll offers every free slot. Tests pin this so availability is exact.
type AdmitAll struct{}

func (AdmitAll) Admit(string, string, string) bool { return true }

// Slot is one offerable (resource, datetime) unit.
type Slot struct {
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	DateTime     string `json:"date_time"`
	Available    bool   `json:"available"`
}

// Scheduler computes offerable slots for one tenant's resource roster.
type Scheduler struct {
	ledger     *Ledger
	roster     []Resource
	byCategory map[string][]Resource
	policy     AvailabilityPolicy
}

func NewScheduler(ledger *Ledger, roster []Resource, policy AvailabilityPolicy) *Scheduler {
	if policy == nil {
		policy = RandomPolicy{Rate: 0.7}
	}

	byCategory := make(map[string][]Resource)
	for _, resource := range roster {
		category := strings.ToLower(resource.Category)
		byCategory[category] = append(byCategory[category], resource)
	}

	return &Scheduler{
		ledger:     ledger,
		roster:     roster,
		byCategory: byCategory,
		policy:     policy,
	}
}

// Resource returns the roster entry for id.
func (s *Scheduler) Resource(id string) (Resource, bool) {
	for _, resource := range s.roster {
		if resource.ID == id {
			return resource, true
		}
	}
	return Resource{}, false
}

// Categories lists the distinct categories served by the roster, in roster
// order.
func (s *Scheduler) Categories() []string {
	seen := make(map[string]struct{}, len(s.byCategory))
	var out []string
	for _, resource := range s.roster {
		category := strings.ToLower(resource.Category)
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	return out
}

// HasCategory reports whether any resource serves the category.
func (s *Scheduler) HasCategory(category string) bool {
	return len(s.byCategory[strings.ToLower(category)]) > 0
}

// Available enumerates the category's resources crossed with the daily slot
// template, excluding occupied slots, then filters through the availability
// policy. Slots come back in roster order then template order.
func (s *Scheduler) Available(category, date string) []Slot {
	resources := s.byCategory[strings.ToLower(category)]

	var out []Slot
	for _, resource := range resources {
		for _, clock := range SlotTemplate {
			if s.ledger.IsSlotBooked(resource.ID, date, clock) {
				continue
			}
			if !s.policy.Admit(resource.ID, date, clock) {
				continue
			}
			out = append(out, Slot{
				ResourceID:   resource.ID,
				ResourceName: resource.Name,
				DateTime:     timeutil.CombineDateTime(date, clock),
				Available:    true,
			})
		}
	}
	return out
}

// DefaultRoster returns the seeded provider roster for a tenant. Rosters are
// configuration in the same sense as the tenant records themselves.
func DefaultRoster(tenantID string) []Resource {
	switch tenantID {
	case "ortofaccia":
		return []Resource{
			{ID: "1", Name: "Dra. Larissa Lucena", Category: "general"},
			{ID: "2", Name: "Dra. Larissa Lucena", Category: "cosmetic"},
			{ID: "3", Name: "Dra. Maria Julia", Category: "general"},
			{ID: "4", Name: "Dra. Maria Julia", Category: "orthodontics"},
			{ID: "5", Name: "Dra. Maria Julia", Category: "cosmetic"},
			{ID: "6", Name: "Dra. Joelma Porto", Category: "general"},
			{ID: "7", Name: "Dra. Joelma Porto", Category: "prosthetics"},
			{ID: "8", Name: "Dra. Joelma Porto", Category: "surgery"},
		}
	case "silva-associados":
		return []Resource{
			{ID: "1", Name: "Dr. João Silva", Category: "civil"},
			{ID: "2", Name: "Dr. João Silva", Category: "corporate"},
			{ID: "3", Name: "Dra. Maria Santos", Category: "criminal"},
			{ID: "4", Name: "Dra. Maria Santos", Category: "family"},
			{ID: "5", Name: "Dr. Carlos Oliveira", Category: "real_estate"},
			{ID: "6", Name: "Dr. Carlos Oliveira", Category: "corporate"},
		}
	default:
		return nil
	}
}
