package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio_api/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// QueueDispatcher hands a new contact message to the notification worker by
// pushing it onto a Redis list. Delivery is best-effort from here on.
type QueueDispatcher struct {
	rdb       *redis.Client
	queueName string
}

func NewQueueDispatcher(rdb *redis.Client, queueName string) *QueueDispatcher {
	return &QueueDispatcher{rdb: rdb, queueName: queueName}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg model.ContactMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification job: %w", err)
	}
	if err := d.rdb.LPush(ctx, d.queueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification job: %w", err)
	}
	return nil
}
