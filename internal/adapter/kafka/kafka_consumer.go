package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/RyanB1303/order-service/internal/usecase"
)

// consumeBackoff spaces out session restarts after a handler failure so a
// persistently failing message does not spin the group join loop.
const consumeBackoff = time.Second

// HandlerFunc processes a decoded dispatch event.
type HandlerFunc func(ctx context.Context, ev usecase.OrderDispatchedMsg) error

// Consumer consumes a topic with a single handler. Dispatch messages are
// keyed by order id upstream, so deliveries for one order stay in one
// partition and arrive in order.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
	Logger *slog.Logger // optional
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	for {
		err := c.Group.Consume(ctx, c.Topics, handler)
		// Consume returns on ctx cancellation, a rebalance, or a handler
		// failure surfaced by ConsumeClaim.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if c.Logger != nil {
				c.Logger.Error("consume session ended, rejoining", "error", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(consumeBackoff):
			}
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.OrderDispatchedMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			if h.logger != nil {
				h.logger.Error("kafka decode error", "error", err)
			}
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			if h.logger != nil {
				h.logger.Error("handler error", "error", err, "key", string(msg.Key), "offset", msg.Offset)
			}
			// End the session without marking: the committed offset stays
			// at the last mark, so the group re-fetches this message after
			// rejoining instead of skipping past it.
			return fmt.Errorf("handle %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
