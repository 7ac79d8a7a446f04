package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	submit *usecase.SubmitOrder
	list   *usecase.ListOrders
	query  usecase.OrderRepo
	cache  usecase.OrderCache
}

func NewOrderHandler(submit *usecase.SubmitOrder, list *usecase.ListOrders, query usecase.OrderRepo, cache usecase.OrderCache) *OrderHandler {
	return &OrderHandler{submit: submit, list: list, query: query, cache: cache}
}

type submitOrderReq struct {
	Isbn     string `json:"isbn" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type orderResp struct {
	ID               int64    `json:"id"`
	BookIsbn         string   `json:"bookIsbn"`
	BookName         *string  `json:"bookName"`
	BookPrice        *float64 `json:"bookPrice"`
	Quantity         int      `json:"quantity"`
	Status           string   `json:"status"`
	CreatedDate      string   `json:"createdDate"`
	LastModifiedDate string   `json:"lastModifiedDate"`
	Version          int64    `json:"version"`
}

func toResp(o *domain.Order) orderResp {
	return orderResp{
		ID:               o.ID,
		BookIsbn:         o.BookIsbn,
		BookName:         o.BookName,
		BookPrice:        o.BookPrice,
		Quantity:         o.Quantity,
		Status:           string(o.Status),
		CreatedDate:      o.CreatedAt.UTC().Format(time.RFC3339Nano),
		LastModifiedDate: o.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Version:          o.Version,
	}
}

// SubmitOrder accepts or rejects a purchase order. A rejection is a normal
// 200 response, not an error.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req submitOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.submit.Execute(ctx, usecase.SubmitOrderInput{
		Isbn:           req.Isbn,
		Quantity:       req.Quantity,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrDuplicate) {
			status = http.StatusConflict
		}
		if errors.Is(err, usecase.ErrCatalogUnavailable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResp(order))
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.list.Execute(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		out = append(out, toResp(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.query.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, toResp(order))
}

// GetOrderStatus serves the status-only read path from the Redis cache,
// falling back to the store and backfilling on a miss.
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.cache != nil {
		if status, ok, err := h.cache.GetStatus(ctx, id); err == nil && ok {
			c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
			return
		}
	}

	order, err := h.query.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if h.cache != nil {
		_ = h.cache.SetStatus(ctx, order.ID, string(order.Status))
	}
	c.JSON(http.StatusOK, gin.H{"id": order.ID, "status": string(order.Status)})
}
