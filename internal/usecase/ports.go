package usecase

import (
	"context"
	"errors"

	domain "github.com/RyanB1303/order-service/internal/entity"
)

var (
	// ErrCatalogUnavailable marks a catalog lookup that failed for any
	// reason other than "book does not exist". Never conflated with a
	// rejected order.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrVersionConflict marks an optimistic-concurrency failure on an
	// order write: the row's version no longer matches the one read.
	ErrVersionConflict = errors.New("order version conflict")

	// ErrDuplicate marks a submit whose idempotency key is locked by an
	// in-flight request.
	ErrDuplicate = errors.New("duplicate idempotency key")
)

// BookCatalog looks up book metadata. A missing book is (nil, nil), not an
// error; any transport failure is wrapped in ErrCatalogUnavailable.
type BookCatalog interface {
	GetBookByIsbn(ctx context.Context, isbn string) (*domain.Book, error)
}

// OrderRepo is the durable order store.
type OrderRepo interface {
	// Create persists a new order and returns it with store-assigned
	// ID, timestamps and version 0.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	// GetByID returns (nil, nil) when the id is unknown.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Update rewrites the row carrying o.Version as the expected version
	// and returns the stored order with version incremented by one.
	// A mismatch yields ErrVersionConflict.
	Update(ctx context.Context, o domain.Order) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

// EventPublisher emits domain events, best-effort, outside the persistence
// transaction.
type EventPublisher interface {
	PublishAccepted(ctx context.Context, msg OrderAcceptedMsg) error
}

// OrderCache is an optional read-model cache for order status.
type OrderCache interface {
	SetStatus(ctx context.Context, orderID int64, status string) error
	GetStatus(ctx context.Context, orderID int64) (string, bool, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Unlock releases an in-flight claim so the client can retry after a
	// failed attempt; it never touches the Remember mapping.
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
