// Package timeutil holds wall-clock helpers for appointment datetimes.
//
// Appointment datetimes travel as local wall-clock strings
// ("2006-01-02T15:04:05", no offset). Internally everything is a time.Time in
// the tenant's IANA zone; these helpers convert at the formatting boundary.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	LayoutDateTime = "2006-01-02T15:04:05"
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04"
)

var daysOfWeekPT = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// LoadLocation resolves an IANA timezone, falling back to UTC for an empty
// name. An unknown name is a configuration error.
func LoadLocation(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", trimmed, err)
	}
	return loc, nil
}

// ParseDateTime parses a wall-clock datetime string in the given location.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutDateTime, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: expected %s: %w", value, LayoutDateTime, err)
	}
	return t, nil
}

// ParseDate parses a wall-clock date string in the given location.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutDate, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s: %w", value, LayoutDate, err)
	}
	return t, nil
}

// ExtractDate returns the date part of a wall-clock datetime string.
func ExtractDate(dateTime string) string {
	if idx := strings.IndexByte(dateTime, 'T'); idx >= 0 {
		return dateTime[:idx]
	}
	return dateTime
}

// ExtractTime returns the HH:mm part of a wall-clock datetime string.
func ExtractTime(dateTime string) (string, error) {
	idx := strings.IndexByte(dateTime, 'T')
	if idx < 0 || len(dateTime) < idx+6 {
		return "", fmt.Errorf("invalid datetime %q: expected %s", dateTime, LayoutDateTime)
	}
	return dateTime[idx+1 : idx+6], nil
}

// CombineDateTime joins a date and an HH:mm time into a wall-clock datetime
// string.
func CombineDateTime(date, clock string) string {
	return date + "T" + clock + ":00"
}

// FormatDateTime renders a time as a wall-clock datetime string in its own
// location.
func FormatDateTime(t time.Time) string {
	return t.Format(LayoutDateTime)
}

// FormatBR renders a time in the Brazilian confirmation format
// ("15/03/2024 às 09:00").
func FormatBR(t time.Time) string {
	return t.Format("02/01/2006") + " às " + t.Format(LayoutTime)
}

// DayOfWeekPT returns the Portuguese weekday name.
func DayOfWeekPT(t time.Time) string {
	return daysOfWeekPT[t.Weekday()]
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}
