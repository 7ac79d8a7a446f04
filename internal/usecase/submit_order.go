package usecase

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/logging"
)

const idemScope = "submit"

type SubmitOrderInput struct {
	Isbn           string
	Quantity       int
	IdempotencyKey string
}

// SubmitOrder decides acceptance against the catalog, persists the order
// once, and emits an acceptance event iff the persisted status is ACCEPTED.
// A catalog miss is a normal REJECTED outcome, never an error.
type SubmitOrder struct {
	catalog BookCatalog
	repo    OrderRepo
	events  EventPublisher
	idem    IdempotencyStore // optional
}

func NewSubmitOrder(catalog BookCatalog, repo OrderRepo, events EventPublisher, idem IdempotencyStore) *SubmitOrder {
	return &SubmitOrder{catalog: catalog, repo: repo, events: events, idem: idem}
}

func (uc *SubmitOrder) Execute(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	locked := false
	// Fast path: a finished submit with the same key returns its order.
	if uc.idem != nil && in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, idemScope, in.IdempotencyKey); ok {
			orderID, err := strconv.ParseInt(id, 10, 64)
			if err == nil {
				if existing, err := uc.repo.GetByID(ctx, orderID); err == nil && existing != nil {
					return existing, nil
				}
			}
		}
		ok, err := uc.idem.TryLock(ctx, idemScope, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicate
		}
		locked = true
	}

	book, err := uc.catalog.GetBookByIsbn(ctx, in.Isbn)
	if err != nil {
		uc.releaseLock(ctx, locked, in.IdempotencyKey)
		return nil, fmt.Errorf("catalog lookup isbn=%s: %w", in.Isbn, err)
	}

	var order domain.Order
	if book != nil {
		order = domain.AcceptedOrder(*book, in.Quantity)
	} else {
		order = domain.RejectedOrder(in.Isbn, in.Quantity)
	}

	saved, err := uc.repo.Create(ctx, order)
	if err != nil {
		uc.releaseLock(ctx, locked, in.IdempotencyKey)
		return nil, fmt.Errorf("persist order: %w", err)
	}
	ordersSubmitted.WithLabelValues(string(saved.Status)).Inc()

	if uc.idem != nil && in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, idemScope, in.IdempotencyKey, strconv.FormatInt(saved.ID, 10))
	}

	uc.publishAccepted(ctx, saved)
	return saved, nil
}

// releaseLock frees the in-flight idempotency claim after a failed submit so
// the same key can be retried. Nothing was Remembered, so a retry starts clean.
func (uc *SubmitOrder) releaseLock(ctx context.Context, locked bool, key string) {
	if !locked {
		return
	}
	if err := uc.idem.Unlock(ctx, idemScope, key); err != nil {
		logging.FromCtx(ctx).Warn("idempotency unlock failed", "key", key, "error", err)
	}
}

// publishAccepted is fire-and-forget: a broker failure is logged and counted
// but never rolls back or fails the persisted order.
func (uc *SubmitOrder) publishAccepted(ctx context.Context, order *domain.Order) {
	if !shouldEmit(order) {
		return
	}
	log := logging.FromCtx(ctx)
	msg := OrderAcceptedMsg{OrderID: order.ID}
	if err := uc.events.PublishAccepted(ctx, msg); err != nil {
		eventPublishFailures.Inc()
		log.Error("order accepted event publish failed", "order_id", order.ID, "error", err)
		return
	}
	log.Info("order accepted event published", "order_id", order.ID)
}

// shouldEmit is the pure emission decision, applied after the store
// confirms the write.
func shouldEmit(order *domain.Order) bool {
	return order.Status == domain.StatusAccepted
}
