package model

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry as the larek API returns it. Price is nil for
// priceless items ("Бесценно" in the storefront).
type Product struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Price       *int64 `json:"price"`
}

func (p Product) Priceless() bool { return p.Price == nil }

// PriceValue treats a priceless product as costing 0.
func (p Product) PriceValue() int64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
