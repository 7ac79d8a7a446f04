package kafka

import (
	"context"
	"errors"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/logging"
	"github.com/RyanB1303/order-service/internal/usecase"
)

// OrderDispatchedHandler applies inbound dispatch events to the order store.
type OrderDispatchedHandler struct {
	Dispatch *usecase.DispatchOrder
}

func NewOrderDispatchedHandler(dispatch *usecase.DispatchOrder) *OrderDispatchedHandler {
	return &OrderDispatchedHandler{Dispatch: dispatch}
}

// Handle acks invalid transitions (a REJECTED or already DISPATCHED order
// will never become eligible, so retrying is pointless) and returns version
// conflicts so the consumer session ends uncommitted and the event is
// re-fetched against the newer row.
func (h *OrderDispatchedHandler) Handle(ctx context.Context, ev usecase.OrderDispatchedMsg) error {
	_, err := h.Dispatch.Execute(ctx, ev)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		logging.FromCtx(ctx).Warn("dispatch skipped", "order_id", ev.OrderID, "error", err)
		return nil
	}
	return err
}
