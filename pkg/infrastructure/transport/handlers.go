package transport

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	appservice "github.com/evgensan-b/weblarek/pkg/application/service"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
	"github.com/evgensan-b/weblarek/pkg/domain/service"
)

type Handler struct {
	checkout appservice.CheckoutService
	catalog  service.CatalogService
	basket   service.BasketService
	buyer    service.BuyerService
}

func Router(
	checkout appservice.CheckoutService,
	catalog service.CatalogService,
	basket service.BasketService,
	buyer service.BuyerService,
) http.Handler {
	handler := &Handler{
		checkout: checkout,
		catalog:  catalog,
		basket:   basket,
		buyer:    buyer,
	}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/products", handler.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{ID}", handler.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/basket", handler.getBasket).Methods(http.MethodGet)
	s.HandleFunc("/basket", handler.clearBasket).Methods(http.MethodDelete)
	s.HandleFunc("/basket/items", handler.toggleBasketItem).Methods(http.MethodPost)
	s.HandleFunc("/basket/items/{ID}", handler.deleteBasketItem).Methods(http.MethodDelete)
	s.HandleFunc("/order", handler.updateOrderForm).Methods(http.MethodPatch)
	s.HandleFunc("/order", handler.submitOrder).Methods(http.MethodPost)
	s.HandleFunc("/order/contacts", handler.submitContacts).Methods(http.MethodPost)

	return logMiddleware(r)
}

type catalogView struct {
	Total int             `json:"total"`
	Items []model.Product `json:"items"`
}

type basketView struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Count int             `json:"count"`
}

type errorsView struct {
	Errors model.ValidationErrors `json:"errors"`
}

type messageView struct {
	Message string `json:"message"`
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	items := h.catalog.Items()
	writeJSON(w, http.StatusOK, catalogView{Total: len(items), Items: items})
}

// getProduct also marks the product as previewed, the way clicking a card
// does in the browser storefront.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["ID"]

	if err := h.checkout.SelectProduct(id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, messageView{Message: "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, messageView{Message: "internal error"})
		return
	}

	product, _ := h.catalog.ProductByID(id)
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) getBasket(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.basketView())
}

func (h *Handler) clearBasket(w http.ResponseWriter, _ *http.Request) {
	h.checkout.ClearBasket()
	writeJSON(w, http.StatusOK, h.basketView())
}

// toggleBasketItem mirrors the product:toggle-cart intent: the same call
// adds an absent product and removes a present one.
func (h *Handler) toggleBasketItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		writeJSON(w, http.StatusBadRequest, messageView{Message: "product id is required"})
		return
	}

	if err := h.checkout.ToggleProduct(body.ID); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, messageView{Message: "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, messageView{Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, h.basketView())
}

func (h *Handler) deleteBasketItem(w http.ResponseWriter, r *http.Request) {
	h.checkout.DeleteBasketItem(mux.Vars(r)["ID"])
	writeJSON(w, http.StatusOK, h.basketView())
}

func (h *Handler) updateOrderForm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		writeJSON(w, http.StatusBadRequest, messageView{Message: "field key is required"})
		return
	}

	h.checkout.SetOrderField(body.Key, body.Value)
	writeJSON(w, http.StatusOK, h.buyer.BuyerData())
}

func (h *Handler) submitOrder(w http.ResponseWriter, _ *http.Request) {
	if validationErrors := h.checkout.SubmitOrderStage(); len(validationErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorsView{Errors: validationErrors})
		return
	}
	writeJSON(w, http.StatusOK, h.buyer.BuyerData())
}

func (h *Handler) submitContacts(w http.ResponseWriter, r *http.Request) {
	result, validationErrors, err := h.checkout.SubmitContactsStage(r.Context())
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorsView{Errors: validationErrors})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, messageView{Message: "order submission failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) basketView() basketView {
	return basketView{
		Items: h.basket.Items(),
		Total: h.basket.TotalPrice(),
		Count: h.basket.Count(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"requestId":  uuid.NewString(),
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
