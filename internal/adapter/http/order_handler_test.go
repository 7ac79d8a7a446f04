package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	books map[string]domain.Book
	err   error
}

func (s *stubCatalog) GetBookByIsbn(_ context.Context, isbn string) (*domain.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	if b, ok := s.books[isbn]; ok {
		return &b, nil
	}
	return nil, nil
}

type stubRepo struct {
	orders map[int64]domain.Order
	nextID int64
	getErr error
}

func (s *stubRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	s.nextID++
	o.ID = s.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = o
	return &o, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if o, ok := s.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (s *stubRepo) Update(_ context.Context, o domain.Order) (*domain.Order, error) {
	o.Version++
	s.orders[o.ID] = o
	return &o, nil
}

func (s *stubRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(s.orders))
	for id := int64(1); id <= s.nextID; id++ {
		if o, ok := s.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

type stubPublisher struct{ msgs []usecase.OrderAcceptedMsg }

func (s *stubPublisher) PublishAccepted(_ context.Context, msg usecase.OrderAcceptedMsg) error {
	s.msgs = append(s.msgs, msg)
	return nil
}

func newTestRouter(catalog usecase.BookCatalog) (*gin.Engine, *stubRepo) {
	gin.SetMode(gin.TestMode)
	repo := &stubRepo{orders: map[int64]domain.Order{}}
	submit := usecase.NewSubmitOrder(catalog, repo, &stubPublisher{}, nil)
	list := usecase.NewListOrders(repo)
	h := NewOrderHandler(submit, list, repo, nil)

	r := gin.New()
	r.POST("/orders", h.SubmitOrder)
	r.GET("/orders", h.GetAllOrders)
	r.GET("/orders/:id", h.GetOrderByID)
	r.GET("/orders/:id/status", h.GetOrderStatus)
	return r, repo
}

func TestSubmitOrderRejectedIsSuccessful(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"isbn":"1234567890","quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REJECTED", resp["status"])
	assert.Nil(t, resp["bookName"])
	assert.Nil(t, resp["bookPrice"])
}

func TestSubmitOrderAcceptedResponse(t *testing.T) {
	catalog := &stubCatalog{books: map[string]domain.Book{
		"1234567890": {Isbn: "1234567890", Title: "Title", Author: "Author", Price: 9.90},
	}}
	r, _ := newTestRouter(catalog)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"isbn":"1234567890","quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ACCEPTED", resp["status"])
	assert.Equal(t, "Title - Author", resp["bookName"])
	assert.InDelta(t, 9.90, resp["bookPrice"], 1e-9)
	assert.EqualValues(t, 3, resp["quantity"])
}

func TestSubmitOrderBadBody(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"isbn":"x","quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitOrderCatalogDownIsBadGateway(t *testing.T) {
	r, repo := newTestRouter(&stubCatalog{err: usecase.ErrCatalogUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"isbn":"1234567890","quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, repo.orders)
}

func TestGetAllOrders(t *testing.T) {
	catalog := &stubCatalog{books: map[string]domain.Book{
		"1234567890": {Isbn: "1234567890", Title: "Title", Author: "Author", Price: 9.90},
	}}
	r, _ := newTestRouter(catalog)

	for _, body := range []string{
		`{"isbn":"1234567890","quantity":1}`,
		`{"isbn":"1234567895","quantity":2}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderByIDStoreFailureIsInternal(t *testing.T) {
	r, repo := newTestRouter(&stubCatalog{})
	repo.getErr = errors.New("db down")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code, "a store failure is not a miss")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/1/status", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
