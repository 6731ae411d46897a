package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/evgensan-b/weblarek/pkg/application/service"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
	domainservice "github.com/evgensan-b/weblarek/pkg/domain/service"
	"github.com/evgensan-b/weblarek/pkg/infrastructure/eventbus"
)

func setup(t *testing.T) (http.Handler, *mockOrderGateway) {
	bus := eventbus.New()
	catalog := domainservice.NewCatalogService(bus)
	basket := domainservice.NewBasketService(bus)
	buyer := domainservice.NewBuyerService(bus)
	gateway := &mockOrderGateway{result: model.OrderResult{ID: "order-1", Total: 750}}

	checkout := appservice.NewCheckoutService(bus, catalog, basket, buyer, &mockCatalogSource{}, gateway, nil)

	price := int64(750)
	catalog.SetItems([]model.Product{
		{ID: "p1", Title: "+1 час в сутках", Price: &price},
		{ID: "p2", Title: "Мамка-таймер"},
	})

	return Router(checkout, catalog, basket, buyer), gateway
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListProducts(t *testing.T) {
	handler, _ := setup(t)

	rec := do(t, handler, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Total int             `json:"total"`
		Items []model.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 2, view.Total)
}

func TestGetProduct(t *testing.T) {
	handler, _ := setup(t)

	rec := do(t, handler, http.MethodGet, "/api/v1/products/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "+1 час в сутках", product.Title)

	rec = do(t, handler, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBasketFlow(t *testing.T) {
	handler, _ := setup(t)

	rec := do(t, handler, http.MethodPost, "/api/v1/basket/items", `{"id": "p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Items []model.Product `json:"items"`
		Total int64           `json:"total"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, int64(750), view.Total)

	// Same call toggles the product back out.
	rec = do(t, handler, http.MethodPost, "/api/v1/basket/items", `{"id": "p1"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 0, view.Count)

	rec = do(t, handler, http.MethodPost, "/api/v1/basket/items", `{"id": "missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderStageValidation(t *testing.T) {
	handler, _ := setup(t)

	rec := do(t, handler, http.MethodPost, "/api/v1/order", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var view struct {
		Errors model.ValidationErrors `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Contains(t, view.Errors, model.FieldPayment)
	assert.Contains(t, view.Errors, model.FieldAddress)
}

func TestFullCheckout(t *testing.T) {
	handler, gateway := setup(t)

	require.Equal(t, http.StatusOK, do(t, handler, http.MethodPost, "/api/v1/basket/items", `{"id": "p1"}`).Code)

	fields := map[string]string{
		"payment": "card",
		"address": "г. Москва, улица Пушкина, дом 1",
		"email":   "example@example.ru",
		"phone":   "+79000000000",
	}
	for key, value := range fields {
		body, _ := json.Marshal(map[string]string{"key": key, "value": value})
		require.Equal(t, http.StatusOK, do(t, handler, http.MethodPatch, "/api/v1/order", string(body)).Code)
	}

	require.Equal(t, http.StatusOK, do(t, handler, http.MethodPost, "/api/v1/order", "").Code)

	rec := do(t, handler, http.MethodPost, "/api/v1/order/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.OrderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "order-1", result.ID)
	assert.Equal(t, 1, gateway.calls)

	// Basket is cleared after a confirmed order.
	rec = do(t, handler, http.MethodGet, "/api/v1/basket", "")
	var view struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 0, view.Count)
}

func TestSubmissionFault(t *testing.T) {
	handler, gateway := setup(t)
	gateway.err = errors.New("larek API is down")

	require.Equal(t, http.StatusOK, do(t, handler, http.MethodPost, "/api/v1/basket/items", `{"id": "p1"}`).Code)
	for key, value := range map[string]string{
		"payment": "cash",
		"address": "ул. Ленина, 1",
		"email":   "example@example.ru",
		"phone":   "+79000000000",
	} {
		body, _ := json.Marshal(map[string]string{"key": key, "value": value})
		require.Equal(t, http.StatusOK, do(t, handler, http.MethodPatch, "/api/v1/order", string(body)).Code)
	}

	rec := do(t, handler, http.MethodPost, "/api/v1/order/contacts", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Basket survives the fault so the user can retry.
	rec = do(t, handler, http.MethodGet, "/api/v1/basket", "")
	var view struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Count)
}

type mockCatalogSource struct{}

func (m *mockCatalogSource) GetProductList(ctx context.Context) ([]model.Product, error) {
	return nil, errors.New("not used in transport tests")
}

type mockOrderGateway struct {
	result model.OrderResult
	err    error
	calls  int
}

func (m *mockOrderGateway) PlaceOrder(ctx context.Context, order model.OrderData) (model.OrderResult, error) {
	m.calls++
	if m.err != nil {
		return model.OrderResult{}, m.err
	}
	return m.result, nil
}
