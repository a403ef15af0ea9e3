package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/atende-ai/atende/agent/booking"
	"github.com/atende-ai/atende/pkg/notify"
	"github.com/atende-ai/atende/pkg/timeutil"
)

var (
	ErrInvalidDate     = errors.New("invalid booking date")
	ErrInvalidContact  = errors.New("invalid patient contact")
	ErrInvalidName     = errors.New("invalid patient name")
	ErrUnknownCategory = errors.New("category not served by tenant")
	ErrNoAvailability  = errors.New("no availability for requested date")
)

// BookingInput is the workflow's request: who wants which kind of appointment
// on which day.
type BookingInput struct {
	PatientName    string
	PatientContact string
	Category       string
	Date           string
}

// BookingOutput is the workflow's result after a successful run.
type BookingOutput struct {
	Appointment  *booking.Appointment
	Confirmation string
	Notified     bool
}

// graphState threads the intermediate results between nodes.
type graphState struct {
	input    BookingInput
	date     time.Time
	slots    []booking.Slot
	selected booking.Slot
	output   BookingOutput
}

func (w *Workflow) validateInput(in BookingInput) (*graphState, error) {
	name := strings.TrimSpace(in.PatientName)
	if name == "" {
		return nil, ErrInvalidName
	}

	contact := strings.TrimSpace(in.PatientContact)
	if !validContact(contact) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContact, in.PatientContact)
	}

	date, err := timeutil.ParseDate(strings.TrimSpace(in.Date), w.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}
	if date.Format(timeutil.LayoutDate) < w.now().In(w.loc).Format(timeutil.LayoutDate) {
		return nil, fmt.Errorf("%w: %q is in the past", ErrInvalidDate, in.Date)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" || !w.scheduler.HasCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, in.Category)
	}

	return &graphState{
		input: BookingInput{
			PatientName:    name,
			PatientContact: contact,
			Category:       category,
			Date:           date.Format(timeutil.LayoutDate),
		},
		date: date,
	}, nil
}

func (w *Workflow) checkAvailability(state *graphState) (*graphState, error) {
	state.slots = w.scheduler.Available(state.input.Category, state.input.Date)
	if len(state.slots) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoAvailability, state.input.Category, state.input.Date)
	}
	return state, nil
}

func (w *Workflow) selectSlot(state *graphState) (*graphState, error) {
	state.selected = w.selector(state.slots)
	return state, nil
}

func (w *Workflow) bookAndConfirm(ctx context.Context, state *graphState) (BookingOutput, error) {
	dateTime, err := timeutil.ParseDateTime(state.selected.DateTime, w.loc)
	if err != nil {
		return BookingOutput{}, fmt.Errorf("parse selected slot %q: %w", state.selected.DateTime, err)
	}

	appointment, err := w.ledger.Book(ctx, booking.BookingRequest{
		Tenant:         w.tenant,
		PatientName:    state.input.PatientName,
		PatientContact: state.input.PatientContact,
		ResourceID:     state.selected.ResourceID,
		ResourceName:   state.selected.ResourceName,
		Category:       state.input.Category,
		DateTime:       dateTime,
	})
	if err != nil {
		return BookingOutput{}, err
	}

	confirmation := fmt.Sprintf("Consulta confirmada com %s em %s. Código: %s.",
		appointment.ResourceName, timeutil.FormatBR(appointment.DateTime), appointment.AppointmentID)

	notified := false
	receipt, err := w.sender.Send(ctx, notify.Message{
		Recipient: state.input.PatientContact,
		Method:    notify.MethodFor(state.input.PatientContact),
		Body: fmt.Sprintf("Olá %s! %s Em caso de dúvidas, entre em contato: %s.",
			state.input.PatientName, confirmation, w.tenant.Business.Phone),
	})
	if err != nil {
		// The appointment is already committed; a delivery failure must not
		// fail the workflow.
		log.Warn().Err(err).Str("appointment_id", appointment.AppointmentID).Msg("confirmation delivery failed")
	} else {
		notified = receipt.Sent
	}

	return BookingOutput{
		Appointment:  appointment,
		Confirmation: confirmation,
		Notified:     notified,
	}, nil
}

// validContact accepts an email (contains '@') or a phone number (at least 8
// digits, optionally with separators).
func validContact(contact string) bool {
	if contact == "" {
		return false
	}
	if strings.Contains(contact, "@") {
		at := strings.Index(contact, "@")
		return at > 0 && strings.Contains(contact[at:], ".")
	}
	digits := 0
	for _, r := range contact {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 8
}
