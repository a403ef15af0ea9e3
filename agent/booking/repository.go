package booking

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Repository is the persistence contract for appointment records. The only
// production variant today is in-memory; the Upstash variant exists for
// multi-instance deployments. Callers must never depend on a concrete
// variant.
type Repository interface {
	Save(ctx context.Context, appointment *Appointment) error
	FindByID(ctx context.Context, appointmentID string) (*Appointment, bool, error)
	FindByContact(ctx context.Context, patientContact string) ([]*Appointment, error)
	FutureActive(ctx context.Context, patientContact string, asOf time.Time) ([]*Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (bool, error)
	All(ctx context.Context) ([]*Appointment, error)
	Clear(ctx context.Context) error
}

// NormalizeContact folds a patient contact for identity matching.
func NormalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}

// MemoryRepository keeps appointments in process memory with a secondary
// index by normalized patient contact. Restart is the only reset mechanism
// outside of Clear.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
	patientIndex map[string][]string
	order        []string
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		appointments: make(map[string]*Appointment),
		patientIndex: make(map[string][]string),
	}
}

func (r *MemoryRepository) Save(_ context.Context, appointment *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.appointments[appointment.AppointmentID]; !exists {
		r.order = append(r.order, appointment.AppointmentID)
		contact := NormalizeContact(appointment.PatientContact)
		r.patientIndex[contact] = append(r.patientIndex[contact], appointment.AppointmentID)
	}

	stored := *appointment
	r.appointments[appointment.AppointmentID] = &stored
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, appointmentID string) (*Appointment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, false, nil
	}
	found := *appointment
	return &found, true, nil
}

func (r *MemoryRepository) FindByContact(_ context.Context, patientContact string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.patientIndex[NormalizeContact(patientContact)]
	out := make([]*Appointment, 0, len(ids))
	for _, id := range ids {
		if appointment, ok := r.appointments[id]; ok {
			found := *appointment
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *MemoryRepository) FutureActive(ctx context.Context, patientContact string, asOf time.Time) ([]*Appointment, error) {
	all, err := r.FindByContact(ctx, patientContact)
	if err != nil {
		return nil, err
	}

	out := make([]*Appointment, 0, len(all))
	for _, appointment := range all {
		if appointment.Active(asOf) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

// Cancel transitions the appointment to cancelled in place. A missing id is a
// normal negative result, not an error.
func (r *MemoryRepository) Cancel(_ context.Context, appointmentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return false, nil
	}
	appointment.Status = StatusCancelled
	return true, nil
}

func (r *MemoryRepository) All(_ context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.order))
	for _, id := range r.order {
		if appointment, ok := r.appointments[id]; ok {
			found := *appointment
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appointments = make(map[string]*Appointment)
	r.patientIndex = make(map[string][]string)
	r.order = nil
	return nil
}
