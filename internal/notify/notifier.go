package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const orderChannel = "board:orders"
const boardSnapshotKey = "board:snapshot"

// OrderChangedEvent is the payload published on every successful mutation.
type OrderChangedEvent struct {
	OrderID   uint      `json:"order_id,omitempty"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// Notifier publishes order-change events over redis and caches the rendered
// board snapshot. Publish failures are non-fatal; pollers pick the change up
// on the next tick.
type Notifier struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Notifier, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Notifier{rdb: rdb}, nil
}

func (n *Notifier) OrderChanged(orderID uint, oldStatus, newStatus string) {
	n.publish(OrderChangedEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedAt: time.Now(),
	})
}

func (n *Notifier) BoardChanged() {
	n.publish(OrderChangedEvent{ChangedAt: time.Now()})
}

func (n *Notifier) publish(event OrderChangedEvent) {
	ctx := context.Background()
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	n.rdb.Publish(ctx, orderChannel, payload)
	n.rdb.Del(ctx, boardSnapshotKey)
}

// SetBoardSnapshot caches the rendered board for the given TTL.
func (n *Notifier) SetBoardSnapshot(snapshot interface{}, ttl time.Duration) error {
	ctx := context.Background()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal board snapshot: %w", err)
	}
	return n.rdb.Set(ctx, boardSnapshotKey, payload, ttl).Err()
}

// GetBoardSnapshot loads the cached board into dest. Returns false on a cache
// miss.
func (n *Notifier) GetBoardSnapshot(dest interface{}) (bool, error) {
	ctx := context.Background()
	val, err := n.rdb.Get(ctx, boardSnapshotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get board snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal board snapshot: %w", err)
	}
	return true, nil
}

func (n *Notifier) Close() error {
	return n.rdb.Close()
}
