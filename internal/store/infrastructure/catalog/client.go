package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

// Client talks to the product service over REST.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &Client{http: c}
}

func (c *Client) Lookup(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("/api/products/%d", id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog lookup product %d: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	if resp.IsError() {
		return domain.Product{}, fmt.Errorf("catalog lookup product %d: status %d", id, resp.StatusCode())
	}
	return product, nil
}

func (c *Client) List(ctx context.Context, ids []int64) ([]domain.Product, error) {
	idParams := make([]string, 0, len(ids))
	for _, id := range ids {
		idParams = append(idParams, strconv.FormatInt(id, 10))
	}

	var products []domain.Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(idParams, ",")).
		SetResult(&products).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("catalog list products: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog list products: status %d", resp.StatusCode())
	}
	return products, nil
}
