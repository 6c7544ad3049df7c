package scheduler

import (
	"context"
	"fmt"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker delivers queued sales notifications by e-mail.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, recipient string, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(sender, recipient, log)
	w.server = server
	return w, nil
}

func newWorker(sender email.Sender, recipient string, log *logger.Logger) *Worker {
	w := &Worker{
		mux:       asynq.NewServeMux(),
		sender:    sender,
		recipient: recipient,
		log:       log,
	}
	w.mux.HandleFunc(TaskLeadNotification, w.handleLeadNotification)
	w.mux.HandleFunc(TaskContactMessage, w.handleContactMessage)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadNotification(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadNotificationPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if w.recipient == "" {
		return nil
	}
	if err := w.sender.SendLeadNotification(ctx, w.recipient, payload); err != nil {
		w.log.Error("lead notification failed", "leadId", payload.LeadID, "error", err)
		return err
	}
	w.log.Info("lead notification sent", "leadId", payload.LeadID)
	return nil
}

func (w *Worker) handleContactMessage(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContactMessagePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if w.recipient == "" {
		return nil
	}
	if err := w.sender.SendContactMessage(ctx, w.recipient, payload); err != nil {
		w.log.Error("contact message failed", "email", payload.Email, "error", err)
		return err
	}
	w.log.Info("contact message sent", "email", payload.Email)
	return nil
}
