package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/platform/config"
	"stayportal_backend/platform/logger"
)

const claimBatchSize = 50

// ReminderSource claims callback reminders that fall due inside the window.
// Claiming marks the reminder sent; a failed dispatch must reset it.
type ReminderSource interface {
	ClaimDueReminders(ctx context.Context, now time.Time, window time.Duration, limit int) ([]repository.DueReminder, error)
	ResetReminder(ctx context.Context, leadID uuid.UUID) error
}

// ReminderDispatcher polls Postgres for callbacks entering the reminder
// window and enqueues one delivery task per claimed lead.
type ReminderDispatcher struct {
	client   *asynq.Client
	queue    string
	source   ReminderSource
	window   time.Duration
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewReminderDispatcher(cfg config.SchedulerConfig, source ReminderSource, log *logger.Logger) (*ReminderDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	window := cfg.GetReminderWindow()
	if window <= 0 {
		window = time.Hour
	}
	interval := cfg.GetReminderPollInterval()
	if interval <= 0 {
		interval = time.Minute
	}

	return &ReminderDispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		source:   source,
		window:   window,
		interval: interval,
		log:      log,
		now:      time.Now,
	}, nil
}

func (d *ReminderDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

// Run polls until the context is cancelled.
func (d *ReminderDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.source == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		d.dispatchOnce(ctx)
	}
}

func (d *ReminderDispatcher) dispatchOnce(ctx context.Context) {
	reminders, err := d.source.ClaimDueReminders(ctx, d.now(), d.window, claimBatchSize)
	if err != nil {
		d.log.Warn("reminder claim failed", "error", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	enqueued := 0
	for _, rem := range reminders {
		task, err := NewCallbackReminderTask(CallbackReminderPayload{
			LeadID:            rem.LeadID.String(),
			LeadName:          rem.LeadName,
			AccommodationName: rem.AccommodationName,
			OperatorID:        rem.OperatorID.String(),
			ScheduledFor:      rem.ScheduledFor,
		})
		if err != nil {
			d.log.Error("reminder task build failed", "error", err, "leadId", rem.LeadID)
			d.release(ctx, rem.LeadID)
			continue
		}

		if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue)); err != nil {
			d.log.Warn("reminder enqueue failed", "error", err, "leadId", rem.LeadID)
			d.release(ctx, rem.LeadID)
			continue
		}
		enqueued++
	}

	d.log.SchedulerEvent("callback_reminders_dispatched", enqueued)
}

// release re-arms a claimed reminder so the next scan retries it.
func (d *ReminderDispatcher) release(ctx context.Context, leadID uuid.UUID) {
	if err := d.source.ResetReminder(ctx, leadID); err != nil {
		d.log.Error("reminder reset failed", "error", err, "leadId", leadID)
	}
}
