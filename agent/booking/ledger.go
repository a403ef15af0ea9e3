package booking

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/atende-ai/atende/agent/catalog"
	"github.com/atende-ai/atende/pkg/timeutil"
)

const idSuffixLength = 9

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Ledger owns the appointment repository and the slot occupancy index. Book
// runs its duplicate-contact and slot checks and both writes under one lock,
// so two attempts for the same contact or slot have at most one winner.
type Ledger struct {
	mu              sync.Mutex
	repo            Repository
	slots           map[string]map[string]struct{}
	releaseOnCancel bool
	now             func() time.Time
}

type LedgerOption func(*Ledger)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithoutSlotRelease keeps a cancelled appointment's slot occupied, matching
// the legacy behavior where cancellation never freed capacity.
func WithoutSlotRelease() LedgerOption {
	return func(l *Ledger) {
		l.releaseOnCancel = false
	}
}

func NewLedger(repo Repository, opts ...LedgerOption) *Ledger {
	ledger := &Ledger{
		repo:            repo,
		slots:           make(map[string]map[string]struct{}),
		releaseOnCancel: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ledger)
		}
	}
	return ledger
}

// BookingRequest carries everything Book needs; DateTime must already be in
// the tenant's zone.
type BookingRequest struct {
	Tenant         *catalog.Tenant
	PatientName    string
	PatientContact string
	ResourceID     string
	ResourceName   string
	Category       string
	DateTime       time.Time
}

// Book creates exactly one appointment record and occupies exactly one slot,
// or fails with a ConflictError whose message is relayed verbatim to the
// patient.
func (l *Ledger) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loc := req.DateTime.Location()
	now := l.now().In(loc)

	existing, err := l.repo.FutureActive(ctx, req.PatientContact, now)
	if err != nil {
		return nil, fmt.Errorf("check existing appointments: %w", err)
	}
	for _, appointment := range existing {
		if appointment.TenantID != req.Tenant.ID {
			continue
		}
		return nil, newConflict(ErrDuplicateActiveBooking, fmt.Sprintf(
			"Você já possui uma consulta agendada na %s para %s com %s. Por favor, cancele ou aguarde esta consulta antes de agendar outra.",
			req.Tenant.Name, timeutil.FormatBR(appointment.DateTime), appointment.ResourceName,
		), appointment)
	}

	date := req.DateTime.Format(timeutil.LayoutDate)
	clock := req.DateTime.Format(timeutil.LayoutTime)
	if l.slotBookedLocked(req.ResourceID, date, clock) {
		return nil, newConflict(ErrSlotTaken, fmt.Sprintf(
			"Desculpe, o horário %s com %s em %s não está mais disponível. Por favor, escolha outro horário da lista de opções disponíveis.",
			clock, req.ResourceName, date,
		), nil)
	}

	appointment := &Appointment{
		AppointmentID:  NewAppointmentID(req.Tenant.Prefix, now),
		TenantID:       req.Tenant.ID,
		PatientName:    req.PatientName,
		PatientContact: req.PatientContact,
		ResourceID:     req.ResourceID,
		ResourceName:   req.ResourceName,
		Category:       req.Category,
		DateTime:       req.DateTime,
		Status:         StatusConfirmed,
		CreatedAt:      now,
	}

	if err := l.repo.Save(ctx, appointment); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}
	l.markSlotLocked(req.ResourceID, date, clock)

	return appointment, nil
}

// FutureActive lists the contact's active future appointments for a tenant.
func (l *Ledger) FutureActive(ctx context.Context, tenantID, patientContact string, asOf time.Time) ([]*Appointment, error) {
	all, err := l.repo.FutureActive(ctx, patientContact, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]*Appointment, 0, len(all))
	for _, appointment := range all {
		if appointment.TenantID == tenantID {
			out = append(out, appointment)
		}
	}
	return out, nil
}

// Cancel marks the appointment cancelled and, unless configured otherwise,
// frees its slot. Returns false when the id is unknown.
func (l *Ledger) Cancel(ctx context.Context, appointmentID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	appointment, found, err := l.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	cancelled, err := l.repo.Cancel(ctx, appointmentID)
	if err != nil || !cancelled {
		return cancelled, err
	}

	if l.releaseOnCancel {
		date := appointment.DateTime.Format(timeutil.LayoutDate)
		clock := appointment.DateTime.Format(timeutil.LayoutTime)
		if slots, ok := l.slots[slotKey(appointment.ResourceID, date)]; ok {
			delete(slots, clock)
		}
	}

	return true, nil
}

func (l *Ledger) IsSlotBooked(resourceID, date, clock string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slotBookedLocked(resourceID, date, clock)
}

func (l *Ledger) All(ctx context.Context) ([]*Appointment, error) {
	return l.repo.All(ctx)
}

// Clear resets both the repository and the occupancy index. Test/debug only.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.slots = make(map[string]map[string]struct{})
	return l.repo.Clear(ctx)
}

func (l *Ledger) slotBookedLocked(resourceID, date, clock string) bool {
	slots, ok := l.slots[slotKey(resourceID, date)]
	if !ok {
		return false
	}
	_, booked := slots[clock]
	return booked
}

func (l *Ledger) markSlotLocked(resourceID, date, clock string) {
	key := slotKey(resourceID, date)
	if _, ok := l.slots[key]; !ok {
		l.slots[key] = make(map[string]struct{})
	}
	l.slots[key][clock] = struct{}{}
}

func slotKey(resourceID, date string) string {
	return resourceID + ":" + date
}

// NewAppointmentID builds a tenant-prefixed id: {prefix}-{unixMillis}-{9-char
// base36 suffix}.
func NewAppointmentID(tenantPrefix string, now time.Time) string {
	suffix := make([]byte, idSuffixLength)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return fmt.Sprintf("%s-%d-%s", tenantPrefix, now.UnixMilli(), suffix)
}
