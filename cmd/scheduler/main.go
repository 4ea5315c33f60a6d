package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/email"
	"stayportal_backend/internal/events"
	leadsrepo "stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/notification"
	"stayportal_backend/internal/notification/inapp"
	"stayportal_backend/internal/scheduler"
	"stayportal_backend/platform/config"
	"stayportal_backend/platform/db"
	"stayportal_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSender(cfg)

	// The notification module is wired for its event subscriptions only;
	// its HTTP routes are served by the API process.
	notification.NewModule(
		inapp.NewRepository(pool),
		directory.New(pool),
		sender,
		eventBus,
		log,
	)

	dispatcher, err := scheduler.NewReminderDispatcher(cfg, leadsrepo.New(pool), log)
	if err != nil {
		log.Error("failed to initialize reminder dispatcher", "error", err)
		panic("failed to initialize reminder dispatcher: " + err.Error())
	}
	defer dispatcher.Close()

	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, eventBus, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
