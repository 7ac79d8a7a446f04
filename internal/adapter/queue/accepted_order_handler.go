package queue

import (
	"context"

	"github.com/RyanB1303/order-service/internal/usecase"
)

// AcceptedOrderHandler warms the status read model when an acceptance event
// comes back around on the bus. Intended for the JSON adapter
// (queue.JSONHandler[usecase.OrderAcceptedMsg]).
type AcceptedOrderHandler struct {
	Cache usecase.OrderCache
}

func NewAcceptedOrderHandler(cache usecase.OrderCache) *AcceptedOrderHandler {
	return &AcceptedOrderHandler{Cache: cache}
}

func (h *AcceptedOrderHandler) HandleAccepted(ctx context.Context, msg usecase.OrderAcceptedMsg) error {
	return h.Cache.SetStatus(ctx, msg.OrderID, "ACCEPTED")
}
