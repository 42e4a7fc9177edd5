package filter

import (
	"stillgrove.com/tcgshelf/pkg/catalog"
)

// FacetOptions are the choices offered for each facet
type FacetOptions struct {
	Eras         []string
	Sets         []string
	ProductTypes []string
	Languages    []string
	Stores       []string
}

// AvailableSets lists the set choices for scoped. With an era selected
// that is the era's known set list, otherwise the sets present in scoped.
func AvailableSets(scoped []catalog.Product, c Constraints) []string {
	if c.Era != "" {
		sets := catalog.EraSets[catalog.Era(c.Era)]
		return append(make([]string, 0, len(sets)), sets...)
	}
	return catalog.UniqueValues(scoped, catalog.FieldSet)
}

// Options computes every facet's choices from the category-scoped products.
// Eras are only offered for a category that has them, in their fixed order.
func Options(scoped []catalog.Product, c Constraints) FacetOptions {
	opts := FacetOptions{
		Eras:         []string{},
		Sets:         AvailableSets(scoped, c),
		ProductTypes: catalog.UniqueValues(scoped, catalog.FieldProductType),
		Languages:    catalog.UniqueValues(scoped, catalog.FieldLanguage),
		Stores:       catalog.UniqueStores(scoped),
	}

	for i := range scoped {
		if scoped[i].Category.HasEras() {
			for _, e := range catalog.Eras {
				opts.Eras = append(opts.Eras, string(e))
			}
			break
		}
	}
	return opts
}
