// Package scheduler defines background task types and the asynq client and
// worker that process them.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOrderConfirmation = "projects.order.confirmation"

const TaskWelcomeEmail = "auth.user.welcome"

// OrderConfirmationPayload identifies an ordered project whose owner should
// receive a confirmation email.
type OrderConfirmationPayload struct {
	ProjectID int64 `json:"projectId"`
	UserID    int64 `json:"userId"`
}

// WelcomeEmailPayload identifies a freshly registered account.
type WelcomeEmailPayload struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, data), nil
}

func ParseOrderConfirmationPayload(task *asynq.Task) (OrderConfirmationPayload, error) {
	var payload OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrderConfirmationPayload{}, err
	}
	return payload, nil
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, data), nil
}

func ParseWelcomeEmailPayload(task *asynq.Task) (WelcomeEmailPayload, error) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WelcomeEmailPayload{}, err
	}
	return payload, nil
}
