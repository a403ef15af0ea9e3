package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/atende-ai/atende/agent/catalog"
)

func testTenant() *catalog.Tenant {
	return &catalog.Tenant{
		ID:     "ortofaccia",
		Name:   "Clínica Ortofaccia",
		Prefix: "ORT",
		Business: catalog.Business{
			Timezone: "America/Fortaleza",
		},
	}
}

func testClock() func() time.Time {
	loc, _ := time.LoadLocation("America/Fortaleza")
	fixed := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)
	return func() time.Time { return fixed }
}

func futureRequest(tenant *catalog.Tenant, contact string) BookingRequest {
	loc, _ := time.LoadLocation(tenant.Business.Timezone)
	return BookingRequest{
		Tenant:         tenant,
		PatientName:    "Ana Souza",
		PatientContact: contact,
		ResourceID:     "1",
		ResourceName:   "Dra. Larissa Lucena",
		Category:       "general",
		DateTime:       time.Date(2025, 3, 12, 9, 0, 0, 0, loc),
	}
}

func TestBookCreatesConfirmedAppointment(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()))
	appointment, err := ledger.Book(context.Background(), futureRequest(testTenant(), "ana@example.com"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appointment.Status != StatusConfirmed {
		t.Fatalf("status = %q, want %q", appointment.Status, StatusConfirmed)
	}
	if !strings.HasPrefix(appointment.AppointmentID, "ORT-") {
		t.Fatalf("appointment id %q missing tenant prefix", appointment.AppointmentID)
	}
	if !ledger.IsSlotBooked("1", "2025-03-12", "09:00") {
		t.Fatal("slot not marked as booked")
	}
}

func TestBookRejectsDuplicateActiveBooking(t *testing.T) {
	t.Parallel()

	tenant := testTenant()
	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()))
	ctx := context.Background()

	first, err := ledger.Book(ctx, futureRequest(tenant, "Ana@Example.com"))
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}

	second := futureRequest(tenant, "  ana@example.com ")
	second.ResourceID = "3"
	second.ResourceName = "Dra. Maria Julia"
	second.DateTime = second.DateTime.Add(24 * time.Hour)

	_, err = ledger.Book(ctx, second)
	if !errors.Is(err, ErrDuplicateActiveBooking) {
		t.Fatalf("err = %v, want ErrDuplicateActiveBooking", err)
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %T, want *ConflictError", err)
	}
	want := fmt.Sprintf("Você já possui uma consulta agendada na %s para 12/03/2025 às 09:00 com %s. Por favor, cancele ou aguarde esta consulta antes de agendar outra.",
		tenant.Name, first.ResourceName)
	if conflict.Message != want {
		t.Fatalf("message = %q, want %q", conflict.Message, want)
	}
	if conflict.Existing == nil || conflict.Existing.AppointmentID != first.AppointmentID {
		t.Fatal("conflict does not carry the existing appointment")
	}
}

func TestBookRejectsOccupiedSlot(t *testing.T) {
	t.Parallel()

	tenant := testTenant()
	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()))
	ctx := context.Background()

	if _, err := ledger.Book(ctx, futureRequest(tenant, "ana@example.com")); err != nil {
		t.Fatalf("first Book: %v", err)
	}

	second := futureRequest(tenant, "bruno@example.com")
	second.PatientName = "Bruno Lima"

	_, err := ledger.Book(ctx, second)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	want := "Desculpe, o horário 09:00 com Dra. Larissa Lucena em 2025-03-12 não está mais disponível. Por favor, escolha outro horário da lista de opções disponíveis."
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestBookScopesDuplicateCheckToTenant(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()))
	ctx := context.Background()

	if _, err := ledger.Book(ctx, futureRequest(testTenant(), "ana@example.com")); err != nil {
		t.Fatalf("first Book: %v", err)
	}

	other := &catalog.Tenant{
		ID:     "silva-associados",
		Name:   "Silva & Associados",
		Prefix: "SIL",
		Business: catalog.Business{
			Timezone: "America/Sao_Paulo",
		},
	}
	req := futureRequest(other, "ana@example.com")
	req.ResourceID = "2"
	req.ResourceName = "Dr. João Silva"
	req.Category = "civil"

	if _, err := ledger.Book(ctx, req); err != nil {
		t.Fatalf("cross-tenant Book: %v", err)
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()))
	ctx := context.Background()

	appointment, err := ledger.Book(ctx, futureRequest(testTenant(), "ana@example.com"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cancelled, err := ledger.Cancel(ctx, appointment.AppointmentID)
	if err != nil || !cancelled {
		t.Fatalf("Cancel = (%v, %v), want (true, nil)", cancelled, err)
	}
	if ledger.IsSlotBooked("1", "2025-03-12", "09:00") {
		t.Fatal("slot still booked after cancel")
	}

	// The contact can book again once the old appointment is cancelled.
	if _, err := ledger.Book(ctx, futureRequest(testTenant(), "ana@example.com")); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestCancelWithoutSlotRelease(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(NewMemoryRepository(), WithClock(testClock()), WithoutSlotRelease())
	ctx := context.Background()

	appointment, err := ledger.Book(ctx, futureRequest(testTenant(), "ana@example.com"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := ledger.Cancel(ctx, appointment.AppointmentID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !ledger.IsSlotBooked("1", "2025-03-12", "09:00") {
		t.Fatal("slot released despite WithoutSlotRelease")
	}
}

func TestCancelUnknownID(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(NewMemoryRepository())
	cancelled, err := ledger.Cancel(context.Background(), "ORT-0-missing")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled {
		t.Fatal("Cancel reported success for unknown id")
	}
}

func TestNewAppointmentIDFormatAndUniqueness(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(fmt.Sprintf(`^ORT-%d-[0-9a-z]{9}$`, now.UnixMilli()))

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewAppointmentID("ORT", now)
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match expected format", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
