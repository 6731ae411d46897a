package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/evgensan-b/weblarek/pkg/common/domain"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
	domainservice "github.com/evgensan-b/weblarek/pkg/domain/service"
)

const orderFailedMessage = "Не удалось оформить заказ, попробуйте ещё раз"

// CatalogSource fetches the product list from the remote storefront API.
type CatalogSource interface {
	GetProductList(ctx context.Context) ([]model.Product, error)
}

// OrderGateway submits a completed order to the remote storefront API.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, order model.OrderData) (model.OrderResult, error)
}

// Stage of the checkout flow. The models know nothing about it; the
// coordinator alone enforces the transitions.
type Stage int

const (
	StageOrderFields Stage = iota
	StageContactFields
	StageSubmitting
)

// CheckoutService sequences catalog -> basket -> buyer -> order submission
// and reconciles the server response back into model state. It owns no
// model data itself.
type CheckoutService interface {
	LoadCatalog(ctx context.Context)
	SelectProduct(id string) error
	ToggleProduct(id string) error
	DeleteBasketItem(id string)
	ClearBasket()
	SetOrderField(key, value string)
	BeginCheckout()
	SubmitOrderStage() model.ValidationErrors
	SubmitContactsStage(ctx context.Context) (model.OrderResult, model.ValidationErrors, error)
	Stage() Stage
}

func NewCheckoutService(
	events domain.EventBroker,
	catalog domainservice.CatalogService,
	basket domainservice.BasketService,
	buyer domainservice.BuyerService,
	source CatalogSource,
	gateway OrderGateway,
	fallback []model.Product,
) CheckoutService {
	s := &checkoutService{
		events:   events,
		catalog:  catalog,
		basket:   basket,
		buyer:    buyer,
		source:   source,
		gateway:  gateway,
		fallback: fallback,
	}
	s.subscribeIntents()
	return s
}

type checkoutService struct {
	// mu сериализует операции: HTTP-фасад обслуживает запросы в разных
	// горутинах, а модели рассчитаны на однопоточный доступ. Интенты,
	// пришедшие из обработчиков во время диспатча (mu уже взят этой же
	// горутиной), блокировать нельзя — они попадают в pending и
	// выполняются до возврата из внешней операции.
	mu sync.Mutex

	qmu     sync.Mutex
	busy    bool
	pending []func()

	events   domain.EventBroker
	catalog  domainservice.CatalogService
	basket   domainservice.BasketService
	buyer    domainservice.BuyerService
	source   CatalogSource
	gateway  OrderGateway
	fallback []model.Product
	stage    Stage
}

// begin/finish bracket one exclusive operation; busy marks that events
// dispatched from inside it must not re-enter the coordinator directly.
func (s *checkoutService) begin() {
	s.mu.Lock()
	s.qmu.Lock()
	s.busy = true
	s.qmu.Unlock()
}

func (s *checkoutService) finish() {
	s.qmu.Lock()
	s.busy = false
	s.qmu.Unlock()
	s.mu.Unlock()
}

// handleIntent runs a bus intent. While an operation is in flight the
// intent is queued and drained before the outer call returns, so a
// subscriber publishing intents from a state-change handler never blocks.
func (s *checkoutService) handleIntent(op func()) {
	s.qmu.Lock()
	if s.busy {
		s.pending = append(s.pending, op)
		s.qmu.Unlock()
		return
	}
	s.qmu.Unlock()

	s.begin()
	op()
	s.finish()
	s.drainPending()
}

func (s *checkoutService) drainPending() {
	for {
		s.qmu.Lock()
		if s.busy || len(s.pending) == 0 {
			s.qmu.Unlock()
			return
		}
		op := s.pending[0]
		s.pending = s.pending[1:]
		s.qmu.Unlock()

		s.begin()
		op()
		s.finish()
	}
}

// subscribeIntents binds the presentation intent events to coordinator
// methods, so bus-driven views stay drop-in compatible.
func (s *checkoutService) subscribeIntents() {
	s.events.Subscribe(model.EventProductToggleCart, func(event domain.Event) {
		if e, ok := event.(model.ProductToggleCart); ok {
			s.handleIntent(func() {
				if err := s.toggleProduct(e.ProductID); err != nil {
					log.WithError(err).WithField("productId", e.ProductID).Warn("toggle-cart intent ignored")
				}
			})
		}
	})
	s.events.Subscribe(model.EventBasketItemDelete, func(event domain.Event) {
		if e, ok := event.(model.BasketItemDelete); ok {
			s.handleIntent(func() { s.basket.RemoveItem(e.ProductID) })
		}
	})
	s.events.Subscribe(model.EventBasketOrder, func(event domain.Event) {
		s.handleIntent(func() { s.stage = StageOrderFields })
	})
	s.events.Subscribe(model.EventFormChanged, func(event domain.Event) {
		if e, ok := event.(model.FormChanged); ok {
			s.handleIntent(func() { s.setOrderField(e.Key, e.Value) })
		}
	})
	s.events.Subscribe(model.EventOrderSubmit, func(event domain.Event) {
		s.handleIntent(func() { s.submitOrderStage() })
	})
	s.events.Subscribe(model.EventContactsSubmit, func(event domain.Event) {
		s.handleIntent(func() {
			if _, _, err := s.submitContactsStage(context.Background()); err != nil {
				log.WithError(err).Warn("contacts submit intent failed")
			}
		})
	})
}

// LoadCatalog replaces the snapshot from the remote API, falling back to
// the bundled product list on a transport fault. The fault never reaches
// the caller: an empty storefront is worse than a stale one.
func (s *checkoutService) LoadCatalog(ctx context.Context) {
	items, err := s.source.GetProductList(ctx)
	if err != nil {
		log.WithError(err).Warn("catalog fetch failed, using bundled products")
		items = s.fallback
	}

	s.begin()
	s.catalog.SetItems(items)
	s.finish()
	s.drainPending()
}

func (s *checkoutService) SelectProduct(id string) error {
	s.begin()
	err := s.selectProduct(id)
	s.finish()
	s.drainPending()
	return err
}

func (s *checkoutService) selectProduct(id string) error {
	product, err := s.catalog.ProductByID(id)
	if err != nil {
		return err
	}
	s.catalog.SetPreview(product)
	return nil
}

// ToggleProduct adds the product to the basket if absent and removes it
// otherwise, mirroring the single buy/remove button of the preview card.
func (s *checkoutService) ToggleProduct(id string) error {
	s.begin()
	err := s.toggleProduct(id)
	s.finish()
	s.drainPending()
	return err
}

func (s *checkoutService) toggleProduct(id string) error {
	product, err := s.catalog.ProductByID(id)
	if err != nil {
		return err
	}

	if s.basket.HasProduct(id) {
		s.basket.RemoveItem(id)
		return nil
	}
	s.basket.AddItem(product)
	return nil
}

func (s *checkoutService) DeleteBasketItem(id string) {
	s.begin()
	s.basket.RemoveItem(id)
	s.finish()
	s.drainPending()
}

func (s *checkoutService) ClearBasket() {
	s.begin()
	s.basket.Clear()
	s.finish()
	s.drainPending()
}

func (s *checkoutService) SetOrderField(key, value string) {
	s.begin()
	s.setOrderField(key, value)
	s.finish()
	s.drainPending()
}

func (s *checkoutService) setOrderField(key, value string) {
	patch := model.BuyerPatch{}
	switch key {
	case model.FieldPayment:
		payment := model.Payment(value)
		patch.Payment = &payment
	case model.FieldEmail:
		patch.Email = &value
	case model.FieldPhone:
		patch.Phone = &value
	case model.FieldAddress:
		patch.Address = &value
	default:
		log.WithField("key", key).Warn("unknown checkout form field")
		return
	}

	s.buyer.SetBuyerData(patch)
}

func (s *checkoutService) BeginCheckout() {
	s.begin()
	s.stage = StageOrderFields
	s.finish()
	s.drainPending()
}

// SubmitOrderStage advances to contact collection when payment and address
// are both present. Diagnostics for those two fields come back as data and
// go out as a form:errors event; nothing is thrown.
func (s *checkoutService) SubmitOrderStage() model.ValidationErrors {
	s.begin()
	stageErrors := s.submitOrderStage()
	s.finish()
	s.drainPending()
	return stageErrors
}

func (s *checkoutService) submitOrderStage() model.ValidationErrors {
	all := s.buyer.Validate()
	stageErrors := model.ValidationErrors{}
	for _, field := range []string{model.FieldPayment, model.FieldAddress} {
		if message, ok := all[field]; ok {
			stageErrors[field] = message
		}
	}

	if len(stageErrors) > 0 {
		_ = s.events.Dispatch(model.FormErrors{Errors: stageErrors})
		return stageErrors
	}

	s.stage = StageContactFields
	return nil
}

// SubmitContactsStage validates the full buyer record, builds the order
// payload and submits it. Success clears basket and buyer and signals
// order:success once. A transport fault leaves both untouched so the user
// can retry without re-entering anything.
func (s *checkoutService) SubmitContactsStage(ctx context.Context) (model.OrderResult, model.ValidationErrors, error) {
	s.begin()
	result, validationErrors, err := s.submitContactsStage(ctx)
	s.finish()
	s.drainPending()
	return result, validationErrors, err
}

func (s *checkoutService) submitContactsStage(ctx context.Context) (model.OrderResult, model.ValidationErrors, error) {
	validationErrors := s.buyer.Validate()
	if len(validationErrors) > 0 {
		_ = s.events.Dispatch(model.FormErrors{Errors: validationErrors})
		return model.OrderResult{}, validationErrors, nil
	}

	items := s.basket.Items()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	buyer := s.buyer.BuyerData()
	order := model.OrderData{
		Payment: buyer.Payment,
		Email:   buyer.Email,
		Phone:   buyer.Phone,
		Address: buyer.Address,
		Total:   s.basket.TotalPrice(),
		Items:   ids,
	}

	s.stage = StageSubmitting
	result, err := s.gateway.PlaceOrder(ctx, order)
	if err != nil {
		s.stage = StageContactFields
		log.WithError(err).Error("order submission failed")
		_ = s.events.Dispatch(model.OrderFailed{Message: orderFailedMessage})
		return model.OrderResult{}, nil, errors.Wrap(err, "place order")
	}

	s.basket.Clear()
	s.buyer.ClearBuyerData()
	s.stage = StageOrderFields

	log.WithFields(log.Fields{"orderId": result.ID, "total": result.Total}).Info("order placed")
	_ = s.events.Dispatch(model.OrderSuccess{OrderID: result.ID, Total: result.Total})

	return result, nil, nil
}

func (s *checkoutService) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stage
}
