package usecase

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/logging"
)

// DispatchOrder applies an inbound dispatch message: ACCEPTED -> DISPATCHED
// with every other field carried over from the stored row. The write carries
// the version read, so a concurrent writer surfaces as ErrVersionConflict
// instead of a lost update.
type DispatchOrder struct {
	repo  OrderRepo
	cache OrderCache // optional
}

func NewDispatchOrder(repo OrderRepo, cache OrderCache) *DispatchOrder {
	return &DispatchOrder{repo: repo, cache: cache}
}

// Execute returns (nil, nil) for a message referencing an unknown order:
// the drop is deliberate (broker redelivery tolerance) but logged and
// counted so lost dispatch events stay visible.
func (uc *DispatchOrder) Execute(ctx context.Context, msg OrderDispatchedMsg) (*domain.Order, error) {
	log := logging.FromCtx(ctx)

	existing, err := uc.repo.GetByID(ctx, msg.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", msg.OrderID, err)
	}
	if existing == nil {
		dispatchesDropped.Inc()
		log.Warn("dispatch for unknown order dropped", "order_id", msg.OrderID)
		return nil, nil
	}

	next, err := existing.Dispatch()
	if err != nil {
		return nil, fmt.Errorf("order %d in status %s: %w", existing.ID, existing.Status, err)
	}

	saved, err := uc.repo.Update(ctx, next)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			dispatchConflicts.Inc()
		}
		return nil, fmt.Errorf("persist dispatch %d: %w", next.ID, err)
	}

	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, saved.ID, string(saved.Status))
	}
	log.Info("order dispatched", "order_id", saved.ID, "version", saved.Version)
	return saved, nil
}
