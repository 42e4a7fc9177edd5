package filter

import (
	"strings"

	"stillgrove.com/tcgshelf/pkg/catalog"
	c "stillgrove.com/tcgshelf/pkg/collection"
)

// SearchLimit caps the number of search results
const SearchLimit = 8

// Search returns up to SearchLimit products whose name, set or category
// contains query, ignoring case. Queries shorter than two characters
// match nothing.
func Search(products []catalog.Product, query string) []catalog.Product {
	query = strings.TrimSpace(query)
	if len([]rune(query)) <= 1 {
		return []catalog.Product{}
	}

	out := make([]catalog.Product, 0, SearchLimit)
	for i := range products {
		p := products[i]
		if c.ContainsFold(p.Name, query) ||
			c.ContainsFold(p.Set, query) ||
			c.ContainsFold(string(p.Category), query) {
			out = append(out, p)
			if len(out) == SearchLimit {
				break
			}
		}
	}
	return out
}
