package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"stayportal_backend/internal/events"
	"stayportal_backend/platform/config"
	"stayportal_backend/platform/logger"
)

// Worker consumes reminder tasks and hands them to the notification layer
// through the event bus.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) (*Worker, error) {
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
	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskCallbackReminder, w.handleCallbackReminder)

	return w, nil
}

func (w *Worker) handleCallbackReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCallbackReminderPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}
	operatorID, err := uuid.Parse(payload.OperatorID)
	if err != nil {
		return err
	}

	return w.bus.PublishSync(ctx, events.CallbackReminderDue{
		BaseEvent:         events.NewBaseEvent(),
		LeadID:            leadID,
		LeadName:          payload.LeadName,
		AccommodationName: payload.AccommodationName,
		OperatorID:        operatorID,
		ScheduledFor:      payload.ScheduledFor,
	})
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
