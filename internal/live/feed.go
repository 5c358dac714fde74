// Package live broadcasts collection-change notifications over Redis pub/sub.
// Consumers never receive diffs: each emission is a prompt to re-read the full
// current snapshot and recompute any aggregates from scratch, so out-of-order
// delivery can never make a dashboard diverge from the ledgers.
package live

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Topics published on the feed.
const (
	TopicOrders    = "orders"
	TopicMovements = "cash_movements"
	TopicSessions  = "cash_sessions"
	TopicProducts  = "products"
)

const channel = "live:changes"

// Feed fans change notifications out to any number of subscribers, across
// processes, via one Redis channel.
type Feed struct {
	rdb *redis.Client
}

func NewFeed(rdb *redis.Client) *Feed { return &Feed{rdb: rdb} }

// Publish announces that a collection changed. Best-effort: a failed publish
// is logged and dropped — the write it describes has already committed, and
// subscribers resync on their next emission.
func (f *Feed) Publish(ctx context.Context, topic string) {
	if err := f.rdb.Publish(ctx, channel, topic).Err(); err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("live feed publish failed")
	}
}

// Subscribe returns a stream of changed-topic names. The subscription is
// cancelled through ctx; the returned channel closes when it ends. Slow
// consumers lose intermediate emissions, never the obligation to resync —
// dropped messages are safe because every emission means the same thing:
// "re-read the snapshot".
func (f *Feed) Subscribe(ctx context.Context) <-chan string {
	sub := f.rdb.Subscribe(ctx, channel)
	out := make(chan string, 8)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default: // consumer is behind; it will resync on its next read
				}
			}
		}
	}()

	return out
}
