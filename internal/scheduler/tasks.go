package scheduler

import (
	"encoding/json"

	"sakkanal_backend/internal/email"

	"github.com/hibiken/asynq"
)

const TaskLeadNotification = "leads.notify_sales"

const TaskContactMessage = "contact.notify_sales"

func NewLeadNotificationTask(payload email.LeadNotification) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadNotification, data), nil
}

func ParseLeadNotificationPayload(task *asynq.Task) (email.LeadNotification, error) {
	var payload email.LeadNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return email.LeadNotification{}, err
	}
	return payload, nil
}

func NewContactMessageTask(payload email.ContactMessage) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactMessage, data), nil
}

func ParseContactMessagePayload(task *asynq.Task) (email.ContactMessage, error) {
	var payload email.ContactMessage
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return email.ContactMessage{}, err
	}
	return payload, nil
}
