// Package workflow runs the automated booking pipeline: validate the request,
// find availability, pick a slot, book it, and send the confirmation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/atende-ai/atende/agent/booking"
	"github.com/atende-ai/atende/agent/catalog"
	"github.com/atende-ai/atende/pkg/notify"
	"github.com/atende-ai/atende/pkg/timeutil"
)

// SlotSelector picks which offered slot to book. The default takes the first,
// which is the earliest slot of the first matching provider.
type SlotSelector func(slots []booking.Slot) booking.Slot

func FirstSlot(slots []booking.Slot) booking.Slot { return slots[0] }

type Option func(*Workflow)

// WithSelector overrides the slot selection strategy.
func WithSelector(selector SlotSelector) Option {
	return func(w *Workflow) {
		if selector != nil {
			w.selector = selector
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// Workflow is bound to one tenant; the graph is compiled once at construction.
type Workflow struct {
	tenant    *catalog.Tenant
	loc       *time.Location
	ledger    *booking.Ledger
	scheduler *booking.Scheduler
	sender    notify.Sender
	selector  SlotSelector
	now       func() time.Time

	runner compose.Runnable[BookingInput, BookingOutput]
}

func New(tenant *catalog.Tenant, ledger *booking.Ledger, scheduler *booking.Scheduler, sender notify.Sender, opts ...Option) (*Workflow, error) {
	if tenant == nil {
		return nil, errors.New("tenant is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler is required")
	}
	if sender == nil {
		sender = notify.LogSender{}
	}

	loc, err := timeutil.LoadLocation(tenant.Business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("tenant %q timezone: %w", tenant.ID, err)
	}

	w := &Workflow{
		tenant:    tenant,
		loc:       loc,
		ledger:    ledger,
		scheduler: scheduler,
		sender:    sender,
		selector:  FirstSlot,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	runner, err := w.compileBookingGraph(context.Background())
	if err != nil {
		return nil, err
	}
	w.runner = runner

	return w, nil
}

// Run executes the booking pipeline for one request.
func (w *Workflow) Run(ctx context.Context, in BookingInput) (BookingOutput, error) {
	return w.runner.Invoke(ctx, in)
}

func (w *Workflow) compileBookingGraph(ctx context.Context) (compose.Runnable[BookingInput, BookingOutput], error) {
	graph := compose.NewGraph[BookingInput, BookingOutput]()

	if err := graph.AddLambdaNode("validate_input",
		compose.InvokableLambda(func(ctx context.Context, in BookingInput) (*graphState, error) {
			return w.validateInput(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_input: %w", err)
	}

	if err := graph.AddLambdaNode("check_availability",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return w.checkAvailability(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_availability: %w", err)
	}

	if err := graph.AddLambdaNode("select_slot",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return w.selectSlot(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node select_slot: %w", err)
	}

	if err := graph.AddLambdaNode("book_and_confirm",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (BookingOutput, error) {
			return w.bookAndConfirm(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node book_and_confirm: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_input"},
		{"validate_input", "check_availability"},
		{"check_availability", "select_slot"},
		{"select_slot", "book_and_confirm"},
		{"book_and_confirm", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("booking.workflow"))
	if err != nil {
		return nil, fmt.Errorf("compile booking graph: %w", err)
	}
	return runner, nil
}
