package service

import (
	"github.com/evgensan-b/weblarek/pkg/common/domain"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
)

type CatalogService interface {
	SetItems(items []model.Product)
	Items() []model.Product
	ProductByID(id string) (model.Product, error)
	SetPreview(product model.Product)
	Preview() (model.Product, bool)
}

func NewCatalogService(dispatcher domain.EventDispatcher) CatalogService {
	return &catalogService{dispatcher: dispatcher}
}

type catalogService struct {
	dispatcher domain.EventDispatcher
	items      []model.Product
	preview    *model.Product
}

// SetItems replaces the whole snapshot. A preview set before the reload is
// kept even if the product is gone from the new snapshot; consumers that
// care must re-check with ProductByID.
func (s *catalogService) SetItems(items []model.Product) {
	s.items = make([]model.Product, len(items))
	copy(s.items, items)

	_ = s.dispatcher.Dispatch(model.CatalogChanged{Items: s.Items()})
}

func (s *catalogService) Items() []model.Product {
	items := make([]model.Product, len(s.items))
	copy(items, s.items)
	return items
}

func (s *catalogService) ProductByID(id string) (model.Product, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return model.Product{}, model.ErrProductNotFound
}

func (s *catalogService) SetPreview(product model.Product) {
	preview := product
	s.preview = &preview

	_ = s.dispatcher.Dispatch(model.ProductSelected{Product: product})
}

func (s *catalogService) Preview() (model.Product, bool) {
	if s.preview == nil {
		return model.Product{}, false
	}
	return *s.preview, true
}
