package filter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stillgrove.com/tcgshelf/pkg/catalog"
)

// Constraint keys accepted by Update
const (
	KeyEra         = "era"
	KeySet         = "set"
	KeyProductType = "productType"
	KeyLanguage    = "language"
	KeyStore       = "store"
	KeyMinPrice    = "minPrice"
	KeyMaxPrice    = "maxPrice"
)

// Constraints is the active facet selection. An empty field does not
// constrain anything.
type Constraints struct {
	Era         string
	Set         string
	ProductType string
	Language    string
	Store       string
	MinPrice    string
	MaxPrice    string
}

// Update sets one constraint. Changing the era clears the set, since the
// selectable sets depend on the era.
func (c *Constraints) Update(key, value string) error {
	switch key {
	case KeyEra:
		if value != c.Era {
			c.Set = ""
		}
		c.Era = value
	case KeySet:
		c.Set = value
	case KeyProductType:
		c.ProductType = value
	case KeyLanguage:
		c.Language = value
	case KeyStore:
		c.Store = value
	case KeyMinPrice:
		c.MinPrice = value
	case KeyMaxPrice:
		c.MaxPrice = value
	default:
		return fmt.Errorf("Update constraints - unknown key %q", key)
	}
	return nil
}

// Reset clears every constraint
func (c *Constraints) Reset() {
	*c = Constraints{}
}

// HasActive reports whether any constraint is set
func (c Constraints) HasActive() bool {
	return c != Constraints{}
}

// Match reports whether p satisfies every active constraint of c
func Match(p catalog.Product, c Constraints) bool {
	if c.Era != "" && string(p.Era) != c.Era {
		return false
	}
	if c.Set != "" && p.Set != c.Set {
		return false
	}
	if c.ProductType != "" && string(p.ProductType) != c.ProductType {
		return false
	}
	if c.Language != "" && string(p.Language) != c.Language {
		return false
	}
	if c.Store != "" && !soldBy(p, c.Store) {
		return false
	}

	lower, hasLower := parseBound(c.MinPrice)
	upper, hasUpper := parseBound(c.MaxPrice)
	if hasLower || hasUpper {
		lowest := catalog.LowestPrice(p)
		if hasLower && lowest.LessThan(lower) {
			return false
		}
		if hasUpper && lowest.GreaterThan(upper) {
			return false
		}
	}

	return true
}

// Products returns the products matching c, in their original order
func Products(products []catalog.Product, c Constraints) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for i := range products {
		if Match(products[i], c) {
			out = append(out, products[i])
		}
	}
	return out
}

// ScopeCategory keeps the products of one category
func ScopeCategory(products []catalog.Product, category catalog.Category) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for i := range products {
		if products[i].Category == category {
			out = append(out, products[i])
		}
	}
	return out
}

func soldBy(p catalog.Product, store string) bool {
	for i := range p.Links {
		if p.Links[i].Store == store {
			return true
		}
	}
	return false
}

// parseBound reads a price bound, accepting a decimal comma.
// Blank and non-numeric bounds are absent.
func parseBound(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
