package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
)

// BookClient queries the catalog service over HTTP. A 404 means the book
// does not exist and maps to (nil, nil); anything else that is not a 200 is
// a catalog failure, never a catalog miss.
type BookClient struct {
	baseURL string
	client  *http.Client
}

func NewBookClient(baseURL string, timeout time.Duration) *BookClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BookClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *BookClient) GetBookByIsbn(ctx context.Context, isbn string) (*domain.Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/books/"+isbn, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: catalog returned %d", usecase.ErrCatalogUnavailable, resp.StatusCode)
	}

	var book domain.Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("%w: decode book: %v", usecase.ErrCatalogUnavailable, err)
	}
	return &book, nil
}

var _ usecase.BookCatalog = (*BookClient)(nil)
