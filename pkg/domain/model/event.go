package model

// Event names are the wire contract with the presentation layer and must
// not change: views subscribe to these exact strings.
const (
	EventCatalogChanged    = "catalog:changed"
	EventProductSelected   = "product:selected"
	EventBasketChanged     = "basket:changed"
	EventBuyerChanged      = "buyer:changed"
	EventProductToggleCart = "product:toggle-cart"
	EventBasketItemDelete  = "basket:item-delete"
	EventBasketOpen        = "basket:open"
	EventBasketOrder       = "basket:order"
	EventOrderSubmit       = "order:submit"
	EventContactsSubmit    = "contacts:submit"
	EventFormChanged       = "form:changed"
	EventModalClose        = "modal:close"
	EventFormErrors        = "form:errors"
	EventOrderSuccess      = "order:success"
	EventOrderFailed       = "order:failed"
)

// State-change notifications published by the domain services.

type CatalogChanged struct {
	Items []Product
}

func (e CatalogChanged) Type() string { return EventCatalogChanged }

type ProductSelected struct {
	Product Product
}

func (e ProductSelected) Type() string { return EventProductSelected }

type BasketChanged struct {
	Items []Product
}

func (e BasketChanged) Type() string { return EventBasketChanged }

type BuyerChanged struct {
	Buyer Buyer
}

func (e BuyerChanged) Type() string { return EventBuyerChanged }

// User intents emitted by the presentation layer.

type ProductToggleCart struct {
	ProductID string
}

func (e ProductToggleCart) Type() string { return EventProductToggleCart }

type BasketItemDelete struct {
	ProductID string
}

func (e BasketItemDelete) Type() string { return EventBasketItemDelete }

type BasketOpen struct{}

func (e BasketOpen) Type() string { return EventBasketOpen }

type BasketOrder struct{}

func (e BasketOrder) Type() string { return EventBasketOrder }

type OrderSubmit struct{}

func (e OrderSubmit) Type() string { return EventOrderSubmit }

type ContactsSubmit struct{}

func (e ContactsSubmit) Type() string { return EventContactsSubmit }

type FormChanged struct {
	Key   string
	Value string
}

func (e FormChanged) Type() string { return EventFormChanged }

type ModalClose struct{}

func (e ModalClose) Type() string { return EventModalClose }

// Checkout outcome signals published by the coordinator.

type FormErrors struct {
	Errors ValidationErrors
}

func (e FormErrors) Type() string { return EventFormErrors }

type OrderSuccess struct {
	OrderID string
	Total   int64
}

func (e OrderSuccess) Type() string { return EventOrderSuccess }

type OrderFailed struct {
	Message string
}

func (e OrderFailed) Type() string { return EventOrderFailed }
