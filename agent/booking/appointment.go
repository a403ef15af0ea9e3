// Package booking owns the appointment records, the slot occupancy index, and
// the availability computation built on top of them.
package booking

import (
	"errors"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Appointment id format: {tenantPrefix}-{unixMillis}-{9-char base36 suffix}.
// Confirmation messages display the id verbatim; the format is a compatibility
// contract.
type Appointment struct {
	AppointmentID  string    `json:"appointment_id"`
	TenantID       string    `json:"tenant_id"`
	PatientName    string    `json:"patient_name"`
	PatientContact string    `json:"patient_contact"`
	ResourceID     string    `json:"resource_id"`
	ResourceName   string    `json:"resource_name"`
	Category       string    `json:"category"`
	DateTime       time.Time `json:"date_time"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Active reports whether the appointment still claims capacity as of now.
func (a *Appointment) Active(now time.Time) bool {
	return (a.Status == StatusConfirmed || a.Status == StatusPending) && a.DateTime.After(now)
}

var (
	ErrDuplicateActiveBooking = errors.New("duplicate active booking")
	ErrSlotTaken              = errors.New("slot already booked")
)

// ConflictError is a recoverable-by-user domain error. Message is surfaced
// verbatim to the conversational layer and is part of the contract; match the
// kind with errors.Is against ErrDuplicateActiveBooking or ErrSlotTaken.
type ConflictError struct {
	kind     error
	Message  string
	Existing *Appointment
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return e.kind }

func newConflict(kind error, message string, existing *Appointment) *ConflictError {
	return &ConflictError{kind: kind, Message: message, Existing: existing}
}
