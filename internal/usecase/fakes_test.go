package usecase_test

import (
	"context"
	"time"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
)

type fakeCatalog struct {
	books map[string]domain.Book
	err   error
}

func (f *fakeCatalog) GetBookByIsbn(_ context.Context, isbn string) (*domain.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.books[isbn]; ok {
		return &b, nil
	}
	return nil, nil
}

type fakeRepo struct {
	orders      map[int64]domain.Order
	nextID      int64
	conflictErr bool
	updates     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[int64]domain.Order{}}
}

func (f *fakeRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	f.nextID++
	o.ID = f.nextID
	o.Version = 0
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.orders[o.ID] = o
	cp := o
	return &cp, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, o domain.Order) (*domain.Order, error) {
	f.updates++
	if f.conflictErr {
		return nil, usecase.ErrVersionConflict
	}
	existing, ok := f.orders[o.ID]
	if !ok || existing.Version != o.Version {
		return nil, usecase.ErrVersionConflict
	}
	o.Version++
	o.UpdatedAt = time.Now()
	f.orders[o.ID] = o
	cp := o
	return &cp, nil
}

func (f *fakeRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f.orders))
	for id := int64(1); id <= f.nextID; id++ {
		if o, ok := f.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakePublisher struct {
	msgs []usecase.OrderAcceptedMsg
	err  error
}

func (f *fakePublisher) PublishAccepted(_ context.Context, msg usecase.OrderAcceptedMsg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type fakeIdem struct {
	locks      map[string]bool
	remembered map[string]string
	unlocks    int
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locks: map[string]bool{}, remembered: map[string]string{}}
}

func (f *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "/" + key
	if f.locks[k] {
		return false, nil
	}
	f.locks[k] = true
	return true, nil
}

func (f *fakeIdem) Unlock(_ context.Context, scope, key string) error {
	f.unlocks++
	delete(f.locks, scope+"/"+key)
	return nil
}

func (f *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	f.remembered[scope+"/"+key] = value
	return nil
}

func (f *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.remembered[scope+"/"+key]
	return v, ok, nil
}

type fakeCache struct {
	statuses map[int64]string
}

func (f *fakeCache) SetStatus(_ context.Context, orderID int64, status string) error {
	if f.statuses == nil {
		f.statuses = map[int64]string{}
	}
	f.statuses[orderID] = status
	return nil
}

func (f *fakeCache) GetStatus(_ context.Context, orderID int64) (string, bool, error) {
	s, ok := f.statuses[orderID]
	return s, ok, nil
}
