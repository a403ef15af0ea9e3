package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/atende-ai/atende/agent/booking"
	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
	"github.com/atende-ai/atende/pkg/notify"
	"github.com/atende-ai/atende/pkg/timeutil"
)

const (
	ToolCheckAvailability = "booking.checkAvailability"
	ToolCheckAppointments = "booking.checkAppointments"
	ToolBookAppointment   = "booking.bookAppointment"
	ToolSendConfirmation  = "booking.sendConfirmation"
)

// bookingContext bundles the per-tenant state the booking tools share. Each
// factory builds one so a tool never touches another tenant's roster or zone.
type bookingContext struct {
	tenant    *catalog.Tenant
	loc       *time.Location
	ledger    *booking.Ledger
	scheduler *booking.Scheduler
	now       func() time.Time
}

func newBookingContext(deps Deps, tenantID string) (*bookingContext, error) {
	tenant, err := deps.Tenants.Get(tenantID)
	if err != nil {
		return nil, err
	}
	loc, err := timeutil.LoadLocation(tenant.Business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("tenant %q timezone: %w", tenantID, err)
	}
	return &bookingContext{
		tenant:    tenant,
		loc:       loc,
		ledger:    deps.Ledger,
		scheduler: booking.NewScheduler(deps.Ledger, deps.Rosters(tenantID), deps.Policy),
		now:       deps.Now,
	}, nil
}

// parseDate validates the YYYY-MM-DD argument and rejects past dates. The
// string return is the message relayed to the patient.
func (bc *bookingContext) parseDate(value string) (time.Time, string) {
	date, err := timeutil.ParseDate(value, bc.loc)
	if err != nil {
		return time.Time{}, fmt.Sprintf("Data inválida: %q. Use o formato AAAA-MM-DD.", value)
	}
	today := bc.now().In(bc.loc).Format(timeutil.LayoutDate)
	if value < today {
		return time.Time{}, fmt.Sprintf("A data %s já passou. Por favor, escolha uma data futura.", value)
	}
	return date, ""
}

func newCheckAvailabilityTool(deps Deps) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		bc, err := newBookingContext(deps, tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{
			Name: ToolCheckAvailability,
			Desc: "Lista os horários disponíveis para agendamento em uma data.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"date":     {Type: schema.String, Desc: "Data desejada no formato AAAA-MM-DD", Required: true},
				"category": {Type: schema.String, Desc: "Especialidade ou área de atendimento"},
			}),
		}

		return &funcTool{info: info, run: func(_ context.Context, args map[string]any) (contractx.ToolResult, error) {
			rawDate, err := stringArg(args, "date")
			if err != nil {
				return contractx.ToolResult{Tool: ToolCheckAvailability, Error: err.Error()}, nil
			}
			if _, msg := bc.parseDate(rawDate); msg != "" {
				return contractx.ToolResult{Tool: ToolCheckAvailability, Error: msg}, nil
			}

			category := ""
			if raw, ok := args["category"].(string); ok {
				category = strings.TrimSpace(raw)
			}

			var slots []booking.Slot
			if category != "" {
				if !bc.scheduler.HasCategory(category) {
					return contractx.ToolResult{Tool: ToolCheckAvailability, Error: fmt.Sprintf(
						"Não atendemos a especialidade %q. Por favor, verifique as especialidades disponíveis.", category,
					)}, nil
				}
				slots = bc.scheduler.Available(category, rawDate)
			} else {
				for _, cat := range bc.scheduler.Categories() {
					slots = append(slots, bc.scheduler.Available(cat, rawDate)...)
				}
			}

			if len(slots) == 0 {
				return contractx.ToolResult{Tool: ToolCheckAvailability, Result: map[string]any{
					"date":    rawDate,
					"slots":   []booking.Slot{},
					"message": fmt.Sprintf("Não há horários disponíveis em %s. Por favor, tente outra data.", rawDate),
				}}, nil
			}

			return contractx.ToolResult{Tool: ToolCheckAvailability, Result: map[string]any{
				"date":  rawDate,
				"slots": slots,
			}}, nil
		}}, nil
	}
}

func newCheckAppointmentsTool(deps Deps) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		bc, err := newBookingContext(deps, tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{
			Name: ToolCheckAppointments,
			Desc: "Consulta as consultas futuras de um paciente pelo contato (email ou telefone).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"patient_contact": {Type: schema.String, Desc: "Email ou telefone do paciente", Required: true},
			}),
		}

		return &funcTool{info: info, run: func(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
			contact, err := stringArg(args, "patient_contact")
			if err != nil {
				return contractx.ToolResult{Tool: ToolCheckAppointments, Error: err.Error()}, nil
			}

			appointments, err := bc.ledger.FutureActive(ctx, bc.tenant.ID, contact, bc.now().In(bc.loc))
			if err != nil {
				return contractx.ToolResult{}, fmt.Errorf("list appointments: %w", err)
			}
			if len(appointments) == 0 {
				return contractx.ToolResult{Tool: ToolCheckAppointments, Result: map[string]any{
					"appointments": []any{},
					"message":      "Você não possui consultas agendadas.",
				}}, nil
			}

			return contractx.ToolResult{Tool: ToolCheckAppointments, Result: map[string]any{
				"appointments": appointments,
			}}, nil
		}}, nil
	}
}

func newBookAppointmentTool(deps Deps) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		bc, err := newBookingContext(deps, tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{
			Name: ToolBookAppointment,
			Desc: "Agenda uma consulta para um paciente em um horário disponível.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"patient_name":    {Type: schema.String, Desc: "Nome completo do paciente", Required: true},
				"patient_contact": {Type: schema.String, Desc: "Email ou telefone do paciente", Required: true},
				"resource_id":     {Type: schema.String, Desc: "Identificador do profissional", Required: true},
				"date":            {Type: schema.String, Desc: "Data no formato AAAA-MM-DD", Required: true},
				"time":            {Type: schema.String, Desc: "Horário no formato HH:MM", Required: true},
			}),
		}

		return &funcTool{info: info, run: func(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
			var (
				name, contact, resourceID, rawDate, clock string
				argErr                                    error
			)
			for _, field := range []struct {
				key string
				dst *string
			}{
				{"patient_name", &name},
				{"patient_contact", &contact},
				{"resource_id", &resourceID},
				{"date", &rawDate},
				{"time", &clock},
			} {
				*field.dst, argErr = stringArg(args, field.key)
				if argErr != nil {
					return contractx.ToolResult{Tool: ToolBookAppointment, Error: argErr.Error()}, nil
				}
			}

			resource, ok := bc.scheduler.Resource(resourceID)
			if !ok {
				return contractx.ToolResult{Tool: ToolBookAppointment, Error: fmt.Sprintf(
					"Profissional %q não encontrado. Por favor, consulte a disponibilidade novamente.", resourceID,
				)}, nil
			}

			dateTime, err := timeutil.ParseDateTime(timeutil.CombineDateTime(rawDate, clock), bc.loc)
			if err != nil {
				return contractx.ToolResult{Tool: ToolBookAppointment, Error: fmt.Sprintf(
					"Data ou horário inválido: %s %s. Use os formatos AAAA-MM-DD e HH:MM.", rawDate, clock,
				)}, nil
			}
			if dateTime.Before(bc.now().In(bc.loc)) {
				return contractx.ToolResult{Tool: ToolBookAppointment, Error: fmt.Sprintf(
					"O horário %s de %s já passou. Por favor, escolha um horário futuro.", clock, rawDate,
				)}, nil
			}

			appointment, err := bc.ledger.Book(ctx, booking.BookingRequest{
				Tenant:         bc.tenant,
				PatientName:    name,
				PatientContact: contact,
				ResourceID:     resource.ID,
				ResourceName:   resource.Name,
				Category:       resource.Category,
				DateTime:       dateTime,
			})
			if err != nil {
				var conflict *booking.ConflictError
				if errors.As(err, &conflict) {
					return contractx.ToolResult{Tool: ToolBookAppointment, Error: conflict.Message}, nil
				}
				return contractx.ToolResult{}, fmt.Errorf("book appointment: %w", err)
			}

			return contractx.ToolResult{Tool: ToolBookAppointment, Result: map[string]any{
				"appointment": appointment,
				"message": fmt.Sprintf("Consulta confirmada com %s em %s. Código: %s.",
					appointment.ResourceName, timeutil.FormatBR(appointment.DateTime), appointment.AppointmentID),
			}}, nil
		}}, nil
	}
}

func newSendConfirmationTool(deps Deps) func(ctx context.Context, tenantID string) (contractx.Tool, error) {
	return func(_ context.Context, tenantID string) (contractx.Tool, error) {
		tenant, err := deps.Tenants.Get(tenantID)
		if err != nil {
			return nil, err
		}

		info := &schema.ToolInfo{
			Name: ToolSendConfirmation,
			Desc: "Envia a mensagem de confirmação da consulta para o paciente por email ou SMS.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"patient_contact": {Type: schema.String, Desc: "Email ou telefone do paciente", Required: true},
				"patient_name":    {Type: schema.String, Desc: "Nome do paciente", Required: true},
				"resource_name":   {Type: schema.String, Desc: "Nome do profissional", Required: true},
				"date_time":       {Type: schema.String, Desc: "Data e hora no formato AAAA-MM-DDTHH:MM:SS", Required: true},
			}),
		}

		return &funcTool{info: info, run: func(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
			var (
				contact, name, resourceName, rawDateTime string
				argErr                                   error
			)
			for _, field := range []struct {
				key string
				dst *string
			}{
				{"patient_contact", &contact},
				{"patient_name", &name},
				{"resource_name", &resourceName},
				{"date_time", &rawDateTime},
			} {
				*field.dst, argErr = stringArg(args, field.key)
				if argErr != nil {
					return contractx.ToolResult{Tool: ToolSendConfirmation, Error: argErr.Error()}, nil
				}
			}

			loc, err := timeutil.LoadLocation(tenant.Business.Timezone)
			if err != nil {
				return contractx.ToolResult{}, fmt.Errorf("tenant %q timezone: %w", tenant.ID, err)
			}
			dateTime, err := timeutil.ParseDateTime(rawDateTime, loc)
			if err != nil {
				return contractx.ToolResult{Tool: ToolSendConfirmation, Error: fmt.Sprintf(
					"Data e hora inválidas: %q.", rawDateTime,
				)}, nil
			}

			method := notify.MethodFor(contact)
			body := fmt.Sprintf("Olá %s! Sua consulta na %s com %s está confirmada para %s. Em caso de dúvidas, entre em contato: %s.",
				name, tenant.Name, resourceName, timeutil.FormatBR(dateTime), tenant.Business.Phone)

			receipt, err := deps.Sender.Send(ctx, notify.Message{
				Recipient: contact,
				Method:    method,
				Body:      body,
			})
			if err != nil {
				return contractx.ToolResult{Tool: ToolSendConfirmation, Error: fmt.Sprintf(
					"Não foi possível enviar a confirmação para %s. A consulta permanece agendada.", contact,
				)}, nil
			}

			return contractx.ToolResult{Tool: ToolSendConfirmation, Result: map[string]any{
				"sent":      receipt.Sent,
				"sent_at":   receipt.SentAt,
				"method":    method,
				"recipient": contact,
			}}, nil
		}}, nil
	}
}
