package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
	StatusDispatched Status = "DISPATCHED"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// Order is the persisted order record. ID and Version are assigned by the
// store: ID on first save, Version incremented by one on every write.
// BookName and BookPrice are nil exactly when the order is REJECTED.
type Order struct {
	ID        int64
	BookIsbn  string
	BookName  *string
	BookPrice *float64
	Quantity  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// AcceptedOrder builds an in-memory ACCEPTED order from a catalog hit.
// The display name is "<title> - <author>".
func AcceptedOrder(book Book, quantity int) Order {
	name := book.Title + " - " + book.Author
	price := book.Price
	return Order{
		BookIsbn:  book.Isbn,
		BookName:  &name,
		BookPrice: &price,
		Quantity:  quantity,
		Status:    StatusAccepted,
	}
}

// RejectedOrder builds an in-memory REJECTED order for a catalog miss.
func RejectedOrder(isbn string, quantity int) Order {
	return Order{
		BookIsbn: isbn,
		Quantity: quantity,
		Status:   StatusRejected,
	}
}

// Dispatch returns a copy of o with status DISPATCHED, everything else
// carried over. Only ACCEPTED orders may be dispatched; any other current
// status yields ErrInvalidTransition.
func (o Order) Dispatch() (Order, error) {
	if o.Status != StatusAccepted {
		return Order{}, ErrInvalidTransition
	}
	next := o
	next.Status = StatusDispatched
	return next, nil
}
