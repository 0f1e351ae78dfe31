package notification

import (
	"context"
	"testing"

	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/internal/scheduler"
	"assembly_portal_backend/platform/logger"
)

type fakeEnqueuer struct {
	orders   []scheduler.OrderConfirmationPayload
	welcomes []scheduler.WelcomeEmailPayload
}

func (f *fakeEnqueuer) EnqueueOrderConfirmation(_ context.Context, payload scheduler.OrderConfirmationPayload) error {
	f.orders = append(f.orders, payload)
	return nil
}

func (f *fakeEnqueuer) EnqueueWelcomeEmail(_ context.Context, payload scheduler.WelcomeEmailPayload) error {
	f.welcomes = append(f.welcomes, payload)
	return nil
}

func TestProjectOrderedEnqueuesConfirmation(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	module := NewModule(enqueuer, logger.New("test"))
	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.ProjectOrdered{
		BaseEvent:   events.NewBaseEvent(),
		ProjectID:   12,
		UserID:      3,
		ProjectName: "kitchen",
		Lines:       []events.OrderedLine{{ElementID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(enqueuer.orders) != 1 {
		t.Fatalf("enqueued %d order confirmations, want 1", len(enqueuer.orders))
	}
	if enqueuer.orders[0].ProjectID != 12 || enqueuer.orders[0].UserID != 3 {
		t.Fatalf("unexpected payload: %+v", enqueuer.orders[0])
	}
}

func TestUserRegisteredEnqueuesWelcome(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	module := NewModule(enqueuer, logger.New("test"))
	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.UserRegistered{
		BaseEvent: events.NewBaseEvent(),
		UserID:    7,
		Email:     "new@user.test",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(enqueuer.welcomes) != 1 {
		t.Fatalf("enqueued %d welcome emails, want 1", len(enqueuer.welcomes))
	}
	if enqueuer.welcomes[0].Email != "new@user.test" {
		t.Fatalf("unexpected payload: %+v", enqueuer.welcomes[0])
	}
}

func TestUnrelatedEventIgnored(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	module := NewModule(enqueuer, logger.New("test"))

	err := module.Handle(context.Background(), events.ProjectConfirmed{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: 5,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(enqueuer.orders) != 0 || len(enqueuer.welcomes) != 0 {
		t.Fatal("unrelated event produced tasks")
	}
}
