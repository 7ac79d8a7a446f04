package usecase

import (
	"context"

	domain "github.com/RyanB1303/order-service/internal/entity"
)

// ListOrders returns every stored order, in store order.
type ListOrders struct {
	repo OrderRepo
}

func NewListOrders(repo OrderRepo) *ListOrders {
	return &ListOrders{repo: repo}
}

func (uc *ListOrders) Execute(ctx context.Context) ([]domain.Order, error) {
	return uc.repo.FindAll(ctx)
}
