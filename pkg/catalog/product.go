package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format of CreatedAt
const DateLayout = "2006-01-02"

// Offer is one retailer's listing for a product
type Offer struct {
	URL      string          `json:"url" validate:"required"`
	Store    string          `json:"store" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Unit     string          `json:"unit"`
	Shipping string          `json:"shipping" validate:"required"`
	Variant  string          `json:"variant,omitempty"`
}

// MarshalJSON writes the price as a plain JSON number, the way persisted
// snapshots carry it. Decoding accepts numbers and quoted strings alike.
func (o Offer) MarshalJSON() ([]byte, error) {
	type plain Offer
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(o),
		Price: json.Number(o.Price.String()),
	})
}

// Draft is a product as entered by the user, before the store assigns
// an id and a creation date
type Draft struct {
	Category    Category    `json:"category" validate:"category"`
	Name        string      `json:"name" validate:"required"`
	Era         Era         `json:"era,omitempty"`
	Set         string      `json:"set" validate:"required"`
	Language    Language    `json:"language" validate:"language"`
	ProductType ProductType `json:"productType" validate:"producttype"`
	Links       []Offer     `json:"links" validate:"required,min=1,dive"`
	Notes       string      `json:"notes,omitempty"`
}

// Product is a catalog entry with at least one offer
type Product struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Name        string      `json:"name"`
	Era         Era         `json:"era,omitempty"`
	Set         string      `json:"set"`
	Language    Language    `json:"language"`
	ProductType ProductType `json:"productType"`
	Links       []Offer     `json:"links"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   string      `json:"createdAt"`
}

// NewProduct stamps a draft with its id and creation date
func NewProduct(id, createdAt string, d Draft) Product {
	return Product{
		ID:          id,
		Category:    d.Category,
		Name:        d.Name,
		Era:         d.Era,
		Set:         d.Set,
		Language:    d.Language,
		ProductType: d.ProductType,
		Links:       append([]Offer(nil), d.Links...),
		Notes:       d.Notes,
		CreatedAt:   createdAt,
	}
}

// Draft strips the store-assigned fields
func (p Product) Draft() Draft {
	return Draft{
		Category:    p.Category,
		Name:        p.Name,
		Era:         p.Era,
		Set:         p.Set,
		Language:    p.Language,
		ProductType: p.ProductType,
		Links:       append([]Offer(nil), p.Links...),
		Notes:       p.Notes,
	}
}

// Clone returns a copy that shares no slices with p
func (p Product) Clone() Product {
	p.Links = append([]Offer(nil), p.Links...)
	return p
}

// Marshal serializes a collection in the persisted snapshot format
func Marshal(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("Marshal products - %w", err)
	}
	return payload, nil
}

// Unmarshal parses a persisted snapshot
func Unmarshal(payload []byte) (products []Product, err error) {
	err = json.Unmarshal(payload, &products)
	if err != nil {
		return nil, fmt.Errorf("Unmarshal products - %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("Unmarshal products - snapshot is not a product list")
	}
	return products, nil
}
