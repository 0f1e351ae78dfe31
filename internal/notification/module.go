// Package notification turns domain events into queued email tasks. Delivery
// itself happens in the scheduler worker so a slow SMTP server never blocks a
// request.
package notification

import (
	"context"

	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/internal/scheduler"
	"assembly_portal_backend/platform/logger"
)

// TaskEnqueuer is the slice of the scheduler client this module uses.
type TaskEnqueuer interface {
	EnqueueOrderConfirmation(ctx context.Context, payload scheduler.OrderConfirmationPayload) error
	EnqueueWelcomeEmail(ctx context.Context, payload scheduler.WelcomeEmailPayload) error
}

// Module fans domain events out to background email tasks.
type Module struct {
	tasks TaskEnqueuer
	log   *logger.Logger
}

// NewModule creates the notification module.
func NewModule(tasks TaskEnqueuer, log *logger.Logger) *Module {
	return &Module{tasks: tasks, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the domain events that trigger email.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ProjectOrdered{}.EventName(), m)
	bus.Subscribe(events.UserRegistered{}.EventName(), m)
}

// Handle routes events to the appropriate task.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProjectOrdered:
		return m.tasks.EnqueueOrderConfirmation(ctx, scheduler.OrderConfirmationPayload{
			ProjectID: e.ProjectID,
			UserID:    e.UserID,
		})
	case events.UserRegistered:
		return m.tasks.EnqueueWelcomeEmail(ctx, scheduler.WelcomeEmailPayload{
			UserID: e.UserID,
			Email:  e.Email,
		})
	default:
		return nil
	}
}

// Compile-time check that Module implements events.Handler.
var _ events.Handler = (*Module)(nil)
