// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"assembly_portal_backend/platform/events"
	"assembly_portal_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new user successfully registers.
type UserRegistered struct {
	BaseEvent
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// =============================================================================
// Project Domain Events
// =============================================================================

// OrderedLine is one element quantity consumed when a project is ordered.
type OrderedLine struct {
	ElementID int64 `json:"elementId"`
	Quantity  int   `json:"quantity"`
}

// ProjectOrdered is published after a project has been closed by its owner:
// the status transition and all stock decrements have already committed.
type ProjectOrdered struct {
	BaseEvent
	ProjectID   int64         `json:"projectId"`
	UserID      int64         `json:"userId"`
	ProjectName string        `json:"projectName"`
	Lines       []OrderedLine `json:"lines"`
}

func (e ProjectOrdered) EventName() string { return "projects.project.ordered" }

// ProjectConfirmed is published when an administrator confirms an ordered
// project, moving it to its terminal closed status.
type ProjectConfirmed struct {
	BaseEvent
	ProjectID int64 `json:"projectId"`
}

func (e ProjectConfirmed) EventName() string { return "projects.project.confirmed" }
