package notification

import (
	"context"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/scheduler"
)

// Dispatcher hands sales notifications to a delivery channel.
type Dispatcher interface {
	NotifyLead(ctx context.Context, lead email.LeadNotification) error
	NotifyContact(ctx context.Context, msg email.ContactMessage) error
}

// QueueDispatcher enqueues notifications for the worker process.
type QueueDispatcher struct {
	client *scheduler.Client
}

func NewQueueDispatcher(client *scheduler.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) NotifyLead(ctx context.Context, lead email.LeadNotification) error {
	return d.client.EnqueueLeadNotification(ctx, lead)
}

func (d *QueueDispatcher) NotifyContact(ctx context.Context, msg email.ContactMessage) error {
	return d.client.EnqueueContactMessage(ctx, msg)
}

// DirectDispatcher sends inline. Used when no Redis is configured.
type DirectDispatcher struct {
	sender    email.Sender
	recipient string
}

func NewDirectDispatcher(sender email.Sender, recipient string) *DirectDispatcher {
	return &DirectDispatcher{sender: sender, recipient: recipient}
}

func (d *DirectDispatcher) NotifyLead(ctx context.Context, lead email.LeadNotification) error {
	if d.recipient == "" {
		return nil
	}
	return d.sender.SendLeadNotification(ctx, d.recipient, lead)
}

func (d *DirectDispatcher) NotifyContact(ctx context.Context, msg email.ContactMessage) error {
	if d.recipient == "" {
		return nil
	}
	return d.sender.SendContactMessage(ctx, d.recipient, msg)
}

var (
	_ Dispatcher = (*QueueDispatcher)(nil)
	_ Dispatcher = (*DirectDispatcher)(nil)
)
