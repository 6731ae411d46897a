package larek

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/evgensan-b/weblarek/pkg/domain/model"
)

// Client talks to the remote larek storefront API. No retries: a fault is
// surfaced to the coordinator as-is.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type productListResponse struct {
	Total int             `json:"total"`
	Items []model.Product `json:"items"`
}

func (c *Client) GetProductList(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/product/", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build product list request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch product list")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch product list: unexpected status %d", resp.StatusCode)
	}

	var data productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decode product list")
	}

	return data.Items, nil
}

func (c *Client) PlaceOrder(ctx context.Context, order model.OrderData) (model.OrderResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return model.OrderResult{}, errors.Wrap(err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order/", bytes.NewReader(body))
	if err != nil {
		return model.OrderResult{}, errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.OrderResult{}, errors.Wrap(err, "place order")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.OrderResult{}, errors.Errorf("place order: unexpected status %d", resp.StatusCode)
	}

	var result model.OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.OrderResult{}, errors.Wrap(err, "decode order response")
	}

	return result, nil
}
