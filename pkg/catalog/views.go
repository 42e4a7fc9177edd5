package catalog

import (
	"github.com/shopspring/decimal"

	c "stillgrove.com/tcgshelf/pkg/collection"
)

// Field names a string-valued product attribute
type Field string

const (
	FieldCategory    Field = "category"
	FieldName        Field = "name"
	FieldEra         Field = "era"
	FieldSet         Field = "set"
	FieldLanguage    Field = "language"
	FieldProductType Field = "productType"
	FieldNotes       Field = "notes"
	FieldCreatedAt   Field = "createdAt"
)

// Value returns the product's value for f, "" for unknown fields
func (p *Product) Value(f Field) string {
	switch f {
	case FieldCategory:
		return string(p.Category)
	case FieldName:
		return p.Name
	case FieldEra:
		return string(p.Era)
	case FieldSet:
		return p.Set
	case FieldLanguage:
		return string(p.Language)
	case FieldProductType:
		return string(p.ProductType)
	case FieldNotes:
		return p.Notes
	case FieldCreatedAt:
		return p.CreatedAt
	}
	return ""
}

// UniqueValues returns the sorted distinct non-empty values of f across products
func UniqueValues(products []Product, f Field) []string {
	values := make([]string, 0, len(products))
	for i := range products {
		values = append(values, products[i].Value(f))
	}
	return c.UniqueNames(values)
}

// UniqueStores returns the sorted distinct store names across all offers
func UniqueStores(products []Product) []string {
	var stores []string
	for i := range products {
		for j := range products[i].Links {
			stores = append(stores, products[i].Links[j].Store)
		}
	}
	return c.UniqueNames(stores)
}

// LowestPrice returns the cheapest offer's price, zero if p has no offers
func LowestPrice(p Product) decimal.Decimal {
	if len(p.Links) == 0 {
		return decimal.Zero
	}
	lowest := p.Links[0].Price
	for i := 1; i < len(p.Links); i++ {
		if p.Links[i].Price.LessThan(lowest) {
			lowest = p.Links[i].Price
		}
	}
	return lowest
}

// CountByCategory counts products per category
func CountByCategory(products []Product) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for i := range products {
		counts[products[i].Category]++
	}
	return counts
}
