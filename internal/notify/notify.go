// Package notify delivers settlement-resolution notifications to
// interested clients. Delivery is fire-and-forget: a failed publish is
// logged and dropped, and must never affect the committed ledger write
// it announces.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Resolution describes a settlement reaching a terminal state.
type Resolution struct {
	SettlementID string  `json:"settlement_id"`
	RoomID       string  `json:"room_id"`
	PayerID      string  `json:"payer_id"`
	CreatorID    string  `json:"creator_id"`
	Amount       float64 `json:"amount"`
	Approved     bool    `json:"approved"`
	ResolvedAt   int64   `json:"resolved_at"`
}

// Notifier dispatches resolution notifications.
type Notifier interface {
	SettlementResolved(ctx context.Context, res Resolution) error
}

// RedisNotifier publishes resolutions as JSON on a redis channel, where
// push/websocket frontends subscribe.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier creates a notifier publishing on the given channel.
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

// SettlementResolved publishes the resolution.
func (n *RedisNotifier) SettlementResolved(ctx context.Context, res Resolution) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// LogNotifier logs resolutions instead of delivering them. Used when
// redis is not configured.
type LogNotifier struct{}

// SettlementResolved logs the resolution.
func (LogNotifier) SettlementResolved(_ context.Context, res Resolution) error {
	slog.Info("settlement resolved",
		"settlement_id", res.SettlementID,
		"room_id", res.RoomID,
		"payer_id", res.PayerID,
		"approved", res.Approved,
	)
	return nil
}
