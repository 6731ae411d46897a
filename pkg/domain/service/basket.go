package service

import (
	"github.com/evgensan-b/weblarek/pkg/common/domain"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
)

type BasketService interface {
	AddItem(product model.Product)
	RemoveItem(productID string)
	Clear()
	Items() []model.Product
	TotalPrice() int64
	Count() int
	HasProduct(productID string) bool
}

func NewBasketService(dispatcher domain.EventDispatcher) BasketService {
	return &basketService{dispatcher: dispatcher}
}

type basketService struct {
	dispatcher domain.EventDispatcher
	items      []model.Product
}

// AddItem keeps the basket a set: adding a product whose id is already
// present changes nothing. Priceless products are accepted and count as 0
// toward the total; disabling the buy button is the view's job.
func (s *basketService) AddItem(product model.Product) {
	if !s.HasProduct(product.ID) {
		s.items = append(s.items, product)
	}

	_ = s.dispatcher.Dispatch(model.BasketChanged{Items: s.Items()})
}

// RemoveItem is idempotent: removing an absent id still notifies, so
// observers always re-derive from the current items.
func (s *basketService) RemoveItem(productID string) {
	for i, item := range s.items {
		if item.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}

	_ = s.dispatcher.Dispatch(model.BasketChanged{Items: s.Items()})
}

func (s *basketService) Clear() {
	s.items = nil

	_ = s.dispatcher.Dispatch(model.BasketChanged{Items: s.Items()})
}

func (s *basketService) Items() []model.Product {
	items := make([]model.Product, len(s.items))
	copy(items, s.items)
	return items
}

func (s *basketService) TotalPrice() int64 {
	var total int64
	for _, item := range s.items {
		total += item.PriceValue()
	}
	return total
}

func (s *basketService) Count() int {
	return len(s.items)
}

func (s *basketService) HasProduct(productID string) bool {
	for _, item := range s.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}
