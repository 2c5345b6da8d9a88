package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/notify"
	"portfolio_api/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// NotificationWorker drains the contact notification queue and delivers each
// job through the mailer. Delivery is best-effort: a failed send is logged and
// the job is dropped, never retried.
type NotificationWorker struct {
	rdb       *redis.Client
	queueName string
	mailer    notify.Mailer
	log       *logger.Logger
}

func NewNotificationWorker(rdb *redis.Client, queueName string, mailer notify.Mailer, log *logger.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:       rdb,
		queueName: queueName,
		mailer:    mailer,
		log:       log,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info("notification worker started", "queue", w.queueName)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("notification worker stopping")
			return
		default:
			// Blocking pop from Redis queue
			res, err := w.rdb.BRPop(ctx, 0*time.Second, w.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				w.log.Error("failed to pop from notification queue", "queue", w.queueName, "error", err)
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// res is an array: [queueName, value]
			if len(res) < 2 || res[1] == "" {
				w.log.Warn("notification queue returned empty payload")
				continue
			}
			w.handleJob(ctx, []byte(res[1]))
		}
	}
}

func (w *NotificationWorker) handleJob(ctx context.Context, payload []byte) {
	var msg model.ContactMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		w.log.Error("failed to decode notification job, dropping", "error", err)
		return
	}

	if err := w.mailer.SendNewMessage(ctx, msg); err != nil {
		w.log.Error("failed to deliver contact notification", "message_id", msg.ID, "error", err)
		return
	}
	w.log.Info("contact notification delivered", "message_id", msg.ID)
}
