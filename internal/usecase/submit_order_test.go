package usecase_test

import (
	"context"
	"errors"
	"testing"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogWithBook() *fakeCatalog {
	return &fakeCatalog{books: map[string]domain.Book{
		"1234567890": {Isbn: "1234567890", Title: "Title", Author: "Author", Price: 9.90, Publisher: "Polarshopia"},
	}}
}

func TestSubmitOrderAccepted(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	uc := usecase.NewSubmitOrder(catalogWithBook(), repo, pub, nil)

	order, err := uc.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, order.Status)
	require.NotNil(t, order.BookName)
	assert.Equal(t, "Title - Author", *order.BookName)
	require.NotNil(t, order.BookPrice)
	assert.Equal(t, 9.90, *order.BookPrice)
	assert.Equal(t, 3, order.Quantity)
	assert.NotZero(t, order.ID)
	assert.EqualValues(t, 0, order.Version)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, order.ID, pub.msgs[0].OrderID)
}

func TestSubmitOrderRejectedOnCatalogMiss(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	uc := usecase.NewSubmitOrder(catalogWithBook(), repo, pub, nil)

	order, err := uc.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567895", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, order.Status)
	assert.Nil(t, order.BookName)
	assert.Nil(t, order.BookPrice)
	assert.Equal(t, 3, order.Quantity)
	assert.NotZero(t, order.ID)

	assert.Empty(t, pub.msgs, "no event for a rejected order")
}

func TestSubmitOrderCatalogFailureIsNotRejection(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	catalog := &fakeCatalog{err: usecase.ErrCatalogUnavailable}
	uc := usecase.NewSubmitOrder(catalog, repo, pub, nil)

	_, err := uc.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 3})

	assert.ErrorIs(t, err, usecase.ErrCatalogUnavailable)
	assert.Empty(t, repo.orders, "nothing persisted on catalog failure")
	assert.Empty(t, pub.msgs)
}

func TestSubmitOrderPublishFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	uc := usecase.NewSubmitOrder(catalogWithBook(), repo, pub, nil)

	order, err := uc.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, order.Status)
	stored, _ := repo.GetByID(context.Background(), order.ID)
	require.NotNil(t, stored, "order stays persisted when the publish fails")
}

func TestSubmitOrderRetrySameKeyAfterCatalogFailure(t *testing.T) {
	repo := newFakeRepo()
	idem := newFakeIdem()
	catalog := catalogWithBook()
	catalog.err = usecase.ErrCatalogUnavailable
	uc := usecase.NewSubmitOrder(catalog, repo, &fakePublisher{}, idem)

	in := usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 3, IdempotencyKey: "key-1"}
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, usecase.ErrCatalogUnavailable)
	assert.Equal(t, 1, idem.unlocks, "failed submit releases its in-flight claim")

	catalog.err = nil
	order, err := uc.Execute(context.Background(), in)
	require.NoError(t, err, "same key must be retryable after a failure")
	assert.Equal(t, domain.StatusAccepted, order.Status)
}

func TestSubmitOrderDuplicateKeyWhileInFlight(t *testing.T) {
	repo := newFakeRepo()
	idem := newFakeIdem()
	uc := usecase.NewSubmitOrder(catalogWithBook(), repo, &fakePublisher{}, idem)

	_, err := idem.TryLock(context.Background(), "submit", "key-1")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 1, IdempotencyKey: "key-1"})
	assert.ErrorIs(t, err, usecase.ErrDuplicate)
	assert.Zero(t, idem.unlocks, "a rejected duplicate must not release the owner's claim")
}

func TestSubmitOrderReplayReturnsStoredOrder(t *testing.T) {
	repo := newFakeRepo()
	idem := newFakeIdem()
	uc := usecase.NewSubmitOrder(catalogWithBook(), repo, &fakePublisher{}, idem)

	in := usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 2, IdempotencyKey: "key-1"}
	first, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	replay, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Len(t, repo.orders, 1, "replay must not create a second order")
}

func TestListOrdersIsStableWithoutWrites(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	submit := usecase.NewSubmitOrder(catalogWithBook(), repo, pub, nil)
	list := usecase.NewListOrders(repo)

	_, err := submit.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567890", Quantity: 1})
	require.NoError(t, err)
	_, err = submit.Execute(context.Background(), usecase.SubmitOrderInput{Isbn: "1234567895", Quantity: 2})
	require.NoError(t, err)

	first, err := list.Execute(context.Background())
	require.NoError(t, err)
	second, err := list.Execute(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}
