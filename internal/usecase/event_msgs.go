package usecase

// OrderAcceptedMsg is published when an order is durably recorded as
// ACCEPTED, informing downstream fulfillment.
type OrderAcceptedMsg struct {
	OrderID int64 `json:"orderId"`
}

// OrderDispatchedMsg arrives from the dispatcher once a previously accepted
// order has shipped.
type OrderDispatchedMsg struct {
	OrderID int64 `json:"orderId"`
}
